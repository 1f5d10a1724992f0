package grid

import (
	"fmt"
	"strconv"
)

// Key is a row identity. Selection and expansion track rows by Key so that
// their state survives re-derivation, sorting and paging.
type Key = string

// Row pairs a record with its resolved identity and its position in the
// source collection.
type Row[T any] struct {
	Key    Key
	Index  int
	Record T
}

// RowKey derives the identity of a record. Build one with KeyField or
// KeyFunc.
type RowKey[T any] struct {
	field string
	fn    func(T) Key
}

// KeyField resolves identities from the named record field. Records
// without the field fall back to their source index.
func KeyField[T any](name string) RowKey[T] {
	return RowKey[T]{field: name}
}

// KeyFunc resolves identities with fn.
func KeyFunc[T any](fn func(T) Key) RowKey[T] {
	return RowKey[T]{fn: fn}
}

// DefaultRowKey reads the "id" field.
func DefaultRowKey[T any]() RowKey[T] {
	return KeyField[T]("id")
}

// Resolve returns the identity of record at source position index.
func (k RowKey[T]) Resolve(record T, index int) Key {
	if k.fn != nil {
		return k.fn(record)
	}
	field := k.field
	if field == "" {
		field = "id"
	}
	v, ok := FieldValue(record, field)
	if !ok || v == nil {
		return strconv.Itoa(index)
	}
	return fmt.Sprint(v)
}

// ResolveRows attaches an identity to every record, computing each key
// exactly once. The returned map points every key at the position in rows
// of the last record carrying it; each collision is reported as a warning.
func ResolveRows[T any](records []T, rk RowKey[T]) ([]Row[T], map[Key]int, []Warning) {
	rows := make([]Row[T], len(records))
	byKey := make(map[Key]int, len(records))
	var warnings []Warning

	for i, rec := range records {
		key := rk.Resolve(rec, i)
		rows[i] = Row[T]{Key: key, Index: i, Record: rec}
		if prev, dup := byKey[key]; dup {
			warnings = append(warnings, Warning{
				Kind:    WarnDuplicateKey,
				Key:     key,
				Message: fmt.Sprintf("row key %q used by records %d and %d; the later record wins", key, prev, i),
			})
		}
		byKey[key] = i
	}
	return rows, byKey, warnings
}

// keysOf returns the identities of rows in order.
func keysOf[T any](rows []Row[T]) []Key {
	keys := make([]Key, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	return keys
}
