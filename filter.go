package grid

import (
	"fmt"
	"sort"

	"github.com/grindlemire/go-grid/internal/debug"
)

// FilterState maps a column key to the filter values selected for it. A
// missing or empty entry means the column is not filtered.
type FilterState map[string][]any

// Clone returns a deep copy of the state.
func (f FilterState) Clone() FilterState {
	if f == nil {
		return FilterState{}
	}
	out := make(FilterState, len(f))
	for k, v := range f {
		out[k] = append([]any(nil), v...)
	}
	return out
}

// With returns a copy of the state with column key set to values. Empty
// values remove the column's filter. Duplicate values are dropped, keeping
// first-seen order.
func (f FilterState) With(key string, values []any) FilterState {
	out := f.Clone()
	values = dedupeValues(values)
	if len(values) == 0 {
		delete(out, key)
		return out
	}
	out[key] = values
	return out
}

// Active reports whether column key has at least one selected value.
func (f FilterState) Active(key string) bool {
	return len(f[key]) > 0
}

// Keys returns the filtered column keys in sorted order.
func (f FilterState) Keys() []string {
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func dedupeValues(values []any) []any {
	out := make([]any, 0, len(values))
outer:
	for _, v := range values {
		for _, seen := range out {
			if CompareValues(v, seen) == 0 {
				continue outer
			}
		}
		out = append(out, v)
	}
	return out
}

// columnFilter is one active column filter resolved against the registry.
type columnFilter[T any] struct {
	key    string
	values []any
	match  func(value any, record T) bool
}

// ApplyFilters returns the rows passing every active column filter. A row
// passes a column when any selected value matches (OR within a column) and
// must pass every filtered column (AND across columns). Surviving rows keep
// their input order and rows is never modified.
//
// A predicate that panics counts as no match for that value and produces a
// WarnFilterPanic warning; the remaining values and columns are still
// evaluated.
func ApplyFilters[T any](rows []Row[T], state FilterState, cols *Columns[T]) ([]Row[T], []Warning) {
	var warnings []Warning
	filters := make([]columnFilter[T], 0, len(state))

	for _, key := range state.Keys() {
		col, ok := cols.Lookup(key)
		if !ok {
			warnings = append(warnings, Warning{
				Kind:    WarnUnknownFilterColumn,
				Column:  key,
				Message: fmt.Sprintf("filter on unknown column %q ignored", key),
			})
			continue
		}
		filters = append(filters, columnFilter[T]{
			key:    key,
			values: state[key],
			match:  predicateFor(col, cols),
		})
	}

	if len(filters) == 0 {
		out := make([]Row[T], len(rows))
		copy(out, rows)
		return out, warnings
	}

	out := make([]Row[T], 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, f := range filters {
			if !f.passes(row, &warnings) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out, warnings
}

func (f columnFilter[T]) passes(row Row[T], warnings *[]Warning) bool {
	for _, v := range f.values {
		ok, recovered := safeMatch(f.match, v, row.Record)
		if recovered != nil {
			w := Warning{
				Kind:    WarnFilterPanic,
				Column:  f.key,
				Key:     row.Key,
				Message: fmt.Sprintf("filter on column %q panicked for value %v on row %q: %v", f.key, v, row.Key, recovered),
			}
			debug.Log("filter: %s", w.Message)
			*warnings = append(*warnings, w)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func safeMatch[T any](match func(any, T) bool, value any, record T) (ok bool, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			recovered = r
		}
	}()
	return match(value, record), nil
}

// predicateFor returns the column's OnFilter predicate, or an equality test
// on the accessed value when none is configured.
func predicateFor[T any](col *Column[T], cols *Columns[T]) func(any, T) bool {
	if col.OnFilter != nil {
		return col.OnFilter
	}
	get, _ := cols.accessor(col.Key)
	return func(value any, record T) bool {
		return CompareValues(get(record), value) == 0
	}
}
