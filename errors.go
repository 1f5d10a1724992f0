package grid

import (
	"errors"
	"fmt"
)

// Configuration and mutation errors.
var (
	ErrEmptyColumnKey     = errors.New("column key must not be empty")
	ErrDuplicateColumn    = errors.New("duplicate column key")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrNotSortable        = errors.New("column is not sortable")
	ErrInvalidPageSize    = errors.New("page size must be at least 1")
	ErrPageOutOfRange     = errors.New("page out of range")
	ErrUnknownRow         = errors.New("unknown row key")
	ErrNoDispatcher       = errors.New("child loading requires a dispatcher")
	ErrPaginationDisabled = errors.New("pagination is disabled")
	ErrSelectionDisabled  = errors.New("row selection is disabled")
	ErrExpansionDisabled  = errors.New("row expansion is disabled")
)

// ComparatorError reports a sort comparator that panicked during a
// derivation pass. The pass is abandoned and the previous view is kept.
type ComparatorError struct {
	Column string
	Panic  any
}

func (e *ComparatorError) Error() string {
	return fmt.Sprintf("sort comparator for column %q panicked: %v", e.Column, e.Panic)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *ComparatorError) Unwrap() error {
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}
