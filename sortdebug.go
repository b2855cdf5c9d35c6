// Package sortdebug compares values in tests through an order-stable
// rendering.
//
// Go map iteration order is random, so two equal values holding maps (or
// slices filled from maps) can render differently from run to run, and a
// diff of such renderings is polluted by entries that only moved. Equal
// renders both operands, sorts every map, set, slice and tuple in the
// rendering, and diffs the sorted forms line by line:
//
//	sortdebug.Equal(t, got, want)
//	sortdebug.Equal(t, got, want, "user %d", id)
//
// Sorting clobbers element order, so do not use Equal to test the order of
// slices. Use EqualUnsorted for that, and for values whose rendering cannot
// be sorted (a custom DebugString or GoString that does not follow the
// structural-debug form).
package sortdebug

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/tjun/sortdebug/internal/comparison"
	"github.com/tjun/sortdebug/internal/debugfmt"
	"github.com/tjun/sortdebug/internal/parser"
	"github.com/tjun/sortdebug/internal/render"
	"github.com/tjun/sortdebug/internal/sorter"
)

// ColorEnv enables colored diffs when set to a true value ("1", "true").
const ColorEnv = "SORTDEBUG_COLOR"

// ErrUnsortable is matched by every error caused by a rendering that could
// not be parsed for sorting.
var ErrUnsortable = errors.New("debug output cannot be sorted")

// NormalizeError reports that an operand's rendering could not be parsed.
type NormalizeError struct {
	Operand string // "left", "right" or "value"
	Err     error  // the parser diagnostic
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("failed to parse debug output for sorting "+
		"(use sortdebug.EqualUnsorted instead and/or file an issue for your use-case)!\n"+
		"Error: %s: %v", e.Operand, e.Err)
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnsortable) hold.
func (e *NormalizeError) Is(target error) bool { return target == ErrUnsortable }

// Debug renders v, sorts its unordered containers and returns the
// multi-line form.
func Debug(v any) (string, error) {
	return normalize("value", v)
}

// MustDebug is like Debug but panics if the rendering cannot be sorted.
func MustDebug(v any) string {
	s, err := Debug(v)
	if err != nil {
		panic(err)
	}
	return s
}

func normalize(operand string, v any) (string, error) {
	tree, err := parser.Parse(debugfmt.Sprint(v))
	if err != nil {
		return "", &NormalizeError{Operand: operand, Err: err}
	}
	return render.Pretty(sorter.Sort(tree, sorter.DefaultSortOptions())), nil
}

func comparisonOptions() comparison.Options {
	enabled, _ := strconv.ParseBool(os.Getenv(ColorEnv))
	return comparison.Options{Color: enabled}
}
