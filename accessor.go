package grid

import (
	"reflect"
	"strings"
	"sync"
)

// fieldIndexCache maps a struct type and field name to the resolved field
// index path. A nil entry means the name does not resolve on that type.
var fieldIndexCache sync.Map // map[fieldCacheKey][]int

type fieldCacheKey struct {
	typ  reflect.Type
	name string
}

// FieldValue reads the named field from record.
//
// Structs resolve name against the exported field name, then a `grid`
// struct tag, then the `json` tag name, then a case-insensitive field name.
// Maps with string keys resolve name as a key. Pointers and interfaces are
// followed. The second result is false when the field does not exist or
// the record is nil.
func FieldValue(record any, name string) (any, bool) {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return derefValue(mv)
	case reflect.Struct:
		idx := structFieldIndex(v.Type(), name)
		if idx == nil {
			return nil, false
		}
		fv, err := v.FieldByIndexErr(idx)
		if err != nil {
			// nil embedded pointer on the path
			return nil, false
		}
		return derefValue(fv)
	}
	return nil, false
}

func derefValue(v reflect.Value) (any, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, true
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return nil, false
	}
	return v.Interface(), true
}

func structFieldIndex(t reflect.Type, name string) []int {
	key := fieldCacheKey{typ: t, name: name}
	if cached, ok := fieldIndexCache.Load(key); ok {
		return cached.([]int)
	}
	idx := lookupStructField(t, name)
	fieldIndexCache.Store(key, idx)
	return idx
}

func lookupStructField(t reflect.Type, name string) []int {
	if f, ok := t.FieldByName(name); ok && f.IsExported() {
		return f.Index
	}
	fields := reflect.VisibleFields(t)
	for _, tag := range []string{"grid", "json"} {
		for _, f := range fields {
			if !f.IsExported() {
				continue
			}
			tagName, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if tagName != "" && tagName != "-" && tagName == name {
				return f.Index
			}
		}
	}
	for _, f := range fields {
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return f.Index
		}
	}
	return nil
}
