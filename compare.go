package grid

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompareValues orders two accessed cell values the way the default
// comparator does: numbers numerically (across int, uint and float kinds),
// strings lexically, false before true, times chronologically. nil orders
// after every non-nil value. Values of unrelated kinds compare by their
// fmt.Sprint form.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return 1
		default:
			return -1
		}
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	ka, kb := kindClass(va.Kind()), kindClass(vb.Kind())

	if ka == classInt && kb == classInt {
		return cmp.Compare(va.Int(), vb.Int())
	}
	if ka == classUint && kb == classUint {
		return cmp.Compare(va.Uint(), vb.Uint())
	}
	if isNumeric(ka) && isNumeric(kb) {
		return cmp.Compare(toFloat(va, ka), toFloat(vb, kb))
	}
	if ka == classString && kb == classString {
		return strings.Compare(va.String(), vb.String())
	}
	if ka == classBool && kb == classBool {
		return compareBool(va.Bool(), vb.Bool())
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

type valueClass int

const (
	classOther valueClass = iota
	classInt
	classUint
	classFloat
	classString
	classBool
)

func kindClass(k reflect.Kind) valueClass {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return classInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classUint
	case reflect.Float32, reflect.Float64:
		return classFloat
	case reflect.String:
		return classString
	case reflect.Bool:
		return classBool
	default:
		return classOther
	}
}

func isNumeric(c valueClass) bool {
	return c == classInt || c == classUint || c == classFloat
}

func toFloat(v reflect.Value, c valueClass) float64 {
	switch c {
	case classInt:
		return float64(v.Int())
	case classUint:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// CollateStrings returns a comparator that orders records by value(record)
// using the collation rules of tag, e.g. language.German or
// language.Swedish. Extra collate options such as collate.IgnoreCase pass
// through.
func CollateStrings[T any](tag language.Tag, value func(T) string, opts ...collate.Option) func(a, b T) int {
	c := collate.New(tag, opts...)
	var mu sync.Mutex
	return func(a, b T) int {
		mu.Lock()
		defer mu.Unlock()
		return c.CompareString(value(a), value(b))
	}
}
