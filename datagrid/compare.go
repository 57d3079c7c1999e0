package datagrid

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is the collation locale used when none is configured.
const DefaultLocale = "en"

type valueClass int

// Classes of differing kinds order by this rank so the comparison stays a
// strict weak order.
const (
	classNull valueClass = iota
	classBool
	classNumber
	classTime
	classString
)

// sortKey is a value reduced to its comparable form.
type sortKey struct {
	class valueClass
	b     bool
	i     int64
	u     uint64
	f     float64
	num   numKind
	t     time.Time
	s     string
}

type numKind int

const (
	numInt numKind = iota
	numUint
	numFloat
)

func (k sortKey) null() bool { return k.class == classNull }

// Comparer orders cell values. Strings use locale-aware collation. A Comparer
// is not safe for concurrent use.
type Comparer struct {
	coll *collate.Collator
}

// NewComparer returns a Comparer for the given BCP 47 locale. An empty locale
// means DefaultLocale.
func NewComparer(locale string) (*Comparer, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidLocale, locale, err)
	}
	return &Comparer{coll: collate.New(tag)}, nil
}

// Compare returns -1, 0 or +1 ordering a before, equal to or after b in
// ascending order. Null and unsortable values order after everything else.
func (c *Comparer) Compare(a, b any) int {
	ka, kb := keyOf(a), keyOf(b)
	switch {
	case ka.null() && kb.null():
		return 0
	case ka.null():
		return 1
	case kb.null():
		return -1
	}
	return c.compareKeys(ka, kb)
}

func (c *Comparer) compareKeys(a, b sortKey) int {
	if a.class != b.class {
		return cmpInt(int64(a.class), int64(b.class))
	}
	switch a.class {
	case classBool:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case classNumber:
		return compareNumbers(a, b)
	case classTime:
		return a.t.Compare(b.t)
	case classString:
		if c == nil || c.coll == nil {
			return cmpString(a.s, b.s)
		}
		return c.coll.CompareString(a.s, b.s)
	}
	return 0
}

func keyOf(v any) sortKey {
	if v == nil {
		return sortKey{}
	}
	if t, ok := v.(time.Time); ok {
		return sortKey{class: classTime, t: t}
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return sortKey{}
		}
		rv = rv.Elem()
	}
	if t, ok := rv.Interface().(time.Time); ok {
		return sortKey{class: classTime, t: t}
	}
	switch rv.Kind() {
	case reflect.Bool:
		return sortKey{class: classBool, b: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return sortKey{class: classNumber, num: numInt, i: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return sortKey{class: classNumber, num: numUint, u: rv.Uint()}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return sortKey{}
		}
		return sortKey{class: classNumber, num: numFloat, f: f}
	case reflect.String:
		return sortKey{class: classString, s: rv.String()}
	default:
		return sortKey{}
	}
}

func compareNumbers(a, b sortKey) int {
	switch {
	case a.num == numInt && b.num == numInt:
		return cmpInt(a.i, b.i)
	case a.num == numUint && b.num == numUint:
		return cmpUint(a.u, b.u)
	case a.num == numInt && b.num == numUint:
		if a.i < 0 {
			return -1
		}
		return cmpUint(uint64(a.i), b.u)
	case a.num == numUint && b.num == numInt:
		if b.i < 0 {
			return 1
		}
		return cmpUint(a.u, uint64(b.i))
	case a.num == numFloat && b.num == numFloat:
		return cmpFloat(a.f, b.f)
	case b.num == numFloat:
		return cmpIntegerFloat(a, b.f)
	default:
		return -cmpIntegerFloat(b, a.f)
	}
}

// cmpIntegerFloat compares an int or uint key with f without rounding the
// integer through float64, which is inexact above 2^53.
func cmpIntegerFloat(k sortKey, f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	whole := math.Trunc(f)
	var c int
	switch k.num {
	case numInt:
		switch {
		case whole >= math.MaxInt64: // 2^63 and above
			return -1
		case whole < math.MinInt64:
			return 1
		}
		c = cmpInt(k.i, int64(whole))
	default:
		switch {
		case whole < 0:
			return 1
		case whole >= math.MaxUint64: // 2^64 and above
			return -1
		}
		c = cmpUint(k.u, uint64(whole))
	}
	if c != 0 {
		return c
	}
	// equal integer parts: the fraction decides
	return cmpFloat(whole, f)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
