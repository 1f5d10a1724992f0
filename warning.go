package grid

import "fmt"

// WarningKind classifies a non-fatal anomaly found during a derivation pass.
type WarningKind int

const (
	// WarnDuplicateKey means two records resolved to the same row key.
	WarnDuplicateKey WarningKind = iota
	// WarnFilterPanic means a filter predicate panicked for one value.
	WarnFilterPanic
	// WarnUnknownFilterColumn means filter state names a column that does not exist.
	WarnUnknownFilterColumn
)

// String returns a short name for the kind.
func (k WarningKind) String() string {
	switch k {
	case WarnDuplicateKey:
		return "duplicate-key"
	case WarnFilterPanic:
		return "filter-panic"
	case WarnUnknownFilterColumn:
		return "unknown-filter-column"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a diagnostic produced while deriving a view. Warnings never
// abort a pass.
type Warning struct {
	Kind    WarningKind
	Column  string
	Key     Key
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
