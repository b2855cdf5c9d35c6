package value

import (
	"fmt"
	"strings"
)

// Variant ranks, used when two values of different kinds are compared.
const (
	rankTerm = iota
	rankTuple
	rankList
	rankStruct
	rankSet
	rankMap
)

func rank(v Value) int {
	switch v.(type) {
	case *Term:
		return rankTerm
	case *Tuple:
		return rankTuple
	case *List:
		return rankList
	case *Struct:
		return rankStruct
	case *Set:
		return rankSet
	case *Map:
		return rankMap
	}
	panic(fmt.Sprintf("value: unknown variant %T", v))
}

// Compare orders two values and returns -1, 0 or +1.
//
// Terms compare by their literal text, so numeric literals are ordered as
// text: "10.1" sorts before "2.0". Sequences compare element by element, the
// shorter one first when one is a prefix of the other.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch a := a.(type) {
	case *Term:
		return strings.Compare(a.Text, b.(*Term).Text)
	case *Tuple:
		b := b.(*Tuple)
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return compareValues(a.Values, b.Values)
	case *List:
		return compareValues(a.Values, b.(*List).Values)
	case *Struct:
		b := b.(*Struct)
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return compareSeq(a.Fields, b.Fields, CompareFields)
	case *Set:
		return compareValues(a.Values, b.(*Set).Values)
	case *Map:
		return compareSeq(a.Entries, b.(*Map).Entries, CompareEntries)
	}
	return 0
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// CompareFields orders struct fields by label, then value. The rest marker
// sorts after every labelled field.
func CompareFields(a, b Field) int {
	switch {
	case a.Rest && b.Rest:
		return 0
	case a.Rest:
		return 1
	case b.Rest:
		return -1
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return Compare(a.Value, b.Value)
}

// CompareEntries orders map entries by key, then value.
func CompareEntries(a, b Entry) int {
	if c := Compare(a.Key, b.Key); c != 0 {
		return c
	}
	return Compare(a.Value, b.Value)
}

func compareValues(a, b []Value) int {
	return compareSeq(a, b, Compare)
}

func compareSeq[T any](a, b []T, cmp func(T, T) int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
