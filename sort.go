package grid

import (
	"fmt"
	"slices"
)

// SortOrder is the direction of the active sort.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAscend
	SortDescend
)

// String returns "ascend", "descend" or "none".
func (o SortOrder) String() string {
	switch o {
	case SortAscend:
		return "ascend"
	case SortDescend:
		return "descend"
	default:
		return "none"
	}
}

// ParseSortOrder parses "ascend"/"asc", "descend"/"desc" or "none"/"".
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "ascend", "asc":
		return SortAscend, nil
	case "descend", "desc":
		return SortDescend, nil
	case "none", "":
		return SortNone, nil
	}
	return SortNone, fmt.Errorf("invalid sort order %q", s)
}

// SortState is the single active sort. An empty ColumnKey or SortNone
// means unsorted.
type SortState struct {
	ColumnKey string
	Order     SortOrder
}

// Active reports whether the state sorts anything.
func (s SortState) Active() bool {
	return s.ColumnKey != "" && s.Order != SortNone
}

// NextSort returns the state after a header click on columnKey. The same
// column cycles ascend → descend → none; a different column starts at
// ascend and drops the previous one.
func NextSort(current SortState, columnKey string) SortState {
	if current.ColumnKey != columnKey {
		return SortState{ColumnKey: columnKey, Order: SortAscend}
	}
	switch current.Order {
	case SortAscend:
		return SortState{ColumnKey: columnKey, Order: SortDescend}
	case SortDescend:
		return SortState{}
	default:
		return SortState{ColumnKey: columnKey, Order: SortAscend}
	}
}

// decorated carries a row's sort key next to its input position.
type decorated[T any] struct {
	row   Row[T]
	value any
	pos   int
}

// ApplySort returns rows ordered by state. When the state is inactive or
// names a column that is unknown or not sortable, the result is a copy of
// rows in input order.
//
// The sort is stable: rows that compare equal keep their input order in
// both directions. With the default comparator nil values sort last in
// both directions. A comparator or value accessor that panics aborts the
// pass with a *ComparatorError.
func ApplySort[T any](rows []Row[T], state SortState, cols *Columns[T]) (out []Row[T], err error) {
	out = make([]Row[T], len(rows))
	copy(out, rows)
	if !state.Active() {
		return out, nil
	}
	col, ok := cols.Lookup(state.ColumnKey)
	if !ok || !col.IsSortable() {
		return out, nil
	}

	// Value accessors run here too, so a panic while reading sort keys
	// fails the pass the same way a comparator panic does.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &ComparatorError{Column: col.Key, Panic: r}
		}
	}()

	items := make([]decorated[T], len(rows))
	get, _ := cols.accessor(col.Key)
	for i, r := range rows {
		items[i] = decorated[T]{row: r, pos: i}
		if col.Compare == nil {
			items[i].value = get(r.Record)
		}
	}

	sign := 1
	if state.Order == SortDescend {
		sign = -1
	}

	var cmpFn func(a, b decorated[T]) int
	if col.Compare != nil {
		cmpFn = func(a, b decorated[T]) int {
			if c := sign * col.Compare(a.row.Record, b.row.Record); c != 0 {
				return c
			}
			return a.pos - b.pos
		}
	} else {
		cmpFn = func(a, b decorated[T]) int {
			switch {
			case a.value == nil && b.value == nil:
				return a.pos - b.pos
			case a.value == nil:
				return 1
			case b.value == nil:
				return -1
			}
			if c := sign * CompareValues(a.value, b.value); c != 0 {
				return c
			}
			return a.pos - b.pos
		}
	}

	slices.SortFunc(items, cmpFn)

	for i, it := range items {
		out[i] = it.row
	}
	return out, nil
}
