package sorter

import (
	"sort"

	"github.com/tjun/sortdebug/internal/value"
)

// SortOptions defines the sorting behavior.
type SortOptions struct {
	SortLists  bool
	SortTuples bool
	// Maps and sets are always sorted
}

// DefaultSortOptions sorts every container, lists and tuples included.
func DefaultSortOptions() SortOptions {
	return SortOptions{SortLists: true, SortTuples: true}
}

// Sort puts every unordered container of v into canonical order, recursively,
// and returns v. The tree is modified in place.
//
// Children are normalized before the container holding them is sorted, so
// the sort keys are canonical themselves and a second Sort changes nothing.
// Struct field order is never changed; the rest marker stays last.
func Sort(v value.Value, options SortOptions) value.Value {
	switch v := v.(type) {
	case *value.Struct:
		for i := range v.Fields {
			if v.Fields[i].Rest {
				continue
			}
			Sort(v.Fields[i].Value, options)
		}
	case *value.Map:
		for i := range v.Entries {
			Sort(v.Entries[i].Key, options)
			Sort(v.Entries[i].Value, options)
		}
		// Distinct Go keys can render alike (pointers, interface values), so
		// equal keys fall back to the entry value.
		sort.SliceStable(v.Entries, func(i, j int) bool {
			return value.CompareEntries(v.Entries[i], v.Entries[j]) < 0
		})
	case *value.Set:
		sortValues(v.Values, options)
	case *value.List:
		if options.SortLists {
			sortValues(v.Values, options)
		} else {
			sortChildren(v.Values, options)
		}
	case *value.Tuple:
		if options.SortTuples {
			sortValues(v.Values, options)
		} else {
			sortChildren(v.Values, options)
		}
	case *value.Term:
		// No need to recurse for terms.
	}
	return v
}

// IsSorted reports whether Sort would leave v unchanged. v is not modified.
func IsSorted(v value.Value, options SortOptions) bool {
	switch v := v.(type) {
	case *value.Struct:
		for _, f := range v.Fields {
			if !f.Rest && !IsSorted(f.Value, options) {
				return false
			}
		}
		return true
	case *value.Map:
		for i, e := range v.Entries {
			if !IsSorted(e.Key, options) || !IsSorted(e.Value, options) {
				return false
			}
			if i > 0 && value.CompareEntries(v.Entries[i-1], e) > 0 {
				return false
			}
		}
		return true
	case *value.Set:
		return valuesSorted(v.Values, true, options)
	case *value.List:
		return valuesSorted(v.Values, options.SortLists, options)
	case *value.Tuple:
		return valuesSorted(v.Values, options.SortTuples, options)
	}
	return true
}

func sortValues(values []value.Value, options SortOptions) {
	sortChildren(values, options)
	sort.SliceStable(values, func(i, j int) bool {
		return value.Compare(values[i], values[j]) < 0
	})
}

func sortChildren(values []value.Value, options SortOptions) {
	for _, child := range values {
		Sort(child, options)
	}
}

func valuesSorted(values []value.Value, ordered bool, options SortOptions) bool {
	for i, child := range values {
		if !IsSorted(child, options) {
			return false
		}
		if ordered && i > 0 && value.Compare(values[i-1], child) > 0 {
			return false
		}
	}
	return true
}
