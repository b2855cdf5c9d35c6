package sortdebug

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjun/sortdebug/internal/parser"
	"github.com/tjun/sortdebug/internal/render"
	"github.com/tjun/sortdebug/internal/sorter"
)

// testRerunsForDeterminism rebuilds maps this many times so that Go's
// randomized iteration order gets a chance to differ.
const testRerunsForDeterminism = 100

type recordingT struct {
	errors []string
	failed bool
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() { r.failed = true }

type Foo struct {
	Value float32
}

type FooNonExhaustive struct {
	Value float32
	seen  bool
}

type FooWithOptionalField struct {
	Value *float32 `debug:",omitempty"`
}

type Zed struct{}

type Bar struct {
	Count map[string]Zed
	Tags  map[string]struct{}
	Value int
}

type Outer struct {
	Bar Bar
}

type PtrKey struct {
	ID int
}

type Key struct {
	Value int
	Bar   [2]int
}

// serdeJSON renders like a generic JSON library would, which is not the
// structural-debug form.
type serdeJSON json.RawMessage

func (s serdeJSON) GoString() string { return "Object " + string(s) }

func float32Ptr(f float32) *float32 { return &f }

func TestDebug(t *testing.T) {
	testCases := []struct {
		name  string
		build func() any
		want  string
	}{
		{
			name:  "noop",
			build: func() any { return 2 },
			want:  "2",
		},
		{
			name: "map",
			build: func() any {
				m := map[int]bool{}
				m[20] = true
				m[1] = true
				m[2] = true
				return m
			},
			want: `{
    1: true,
    2: true,
    20: true,
}`,
		},
		{
			name: "map with non-exhaustive values",
			build: func() any {
				return map[int]FooNonExhaustive{
					1:  {Value: 10.1},
					32: {Value: 2.0},
					2:  {Value: -1.5},
				}
			},
			want: `{
    1: FooNonExhaustive {
        Value: 10.1,
        ..
    },
    2: FooNonExhaustive {
        Value: -1.5,
        ..
    },
    32: FooNonExhaustive {
        Value: 2.0,
        ..
    },
}`,
		},
		{
			name: "list sorted as text",
			build: func() any {
				return []Foo{{Value: 10.1}, {Value: 2.0}, {Value: -1.5}}
			},
			want: `[
    Foo {
        Value: -1.5,
    },
    Foo {
        Value: 10.1,
    },
    Foo {
        Value: 2.0,
    },
]`,
		},
		{
			name: "nested maps and sets",
			build: func() any {
				return Outer{Bar: Bar{
					Count: map[string]Zed{"lorem ipsum": {}, "hello world": {}},
					Tags:  map[string]struct{}{"b": {}, "c": {}, "a": {}},
					Value: 200,
				}}
			},
			want: `Outer {
    Bar: Bar {
        Count: {
            "hello world": Zed,
            "lorem ipsum": Zed,
        },
        Tags: {
            "a",
            "b",
            "c",
        },
        Value: 200,
    },
}`,
		},
		{
			name: "struct keys",
			build: func() any {
				return map[Key]string{
					{Value: 12, Bar: [2]int{200, -12}}: "foo",
					{Value: -2}:                        "foo2",
				}
			},
			want: `{
    Key {
        Value: -2,
        Bar: [
            0,
            0,
        ],
    }: "foo2",
    Key {
        Value: 12,
        Bar: [
            -12,
            200,
        ],
    }: "foo",
}`,
		},
		{
			name:  "optional field present",
			build: func() any { return FooWithOptionalField{Value: float32Ptr(10)} },
			want: `FooWithOptionalField {
    Value: 10.0,
}`,
		},
		{
			name:  "optional field absent",
			build: func() any { return FooWithOptionalField{} },
			want: `FooWithOptionalField {
}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < testRerunsForDeterminism; i++ {
				// Build the value each time to get a fresh map iteration order.
				got, err := Debug(tc.build())
				require.NoError(t, err)
				require.Equal(t, tc.want, got, "run %d", i)
			}
		})
	}
}

func TestDebugIsIdempotent(t *testing.T) {
	got := MustDebug(map[string][]map[int]bool{
		"b": {{3: true, 1: false}, {2: true}},
		"a": {},
	})

	tree, err := parser.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, got, render.Pretty(sorter.Sort(tree, sorter.DefaultSortOptions())))
}

func TestEqual(t *testing.T) {
	t.Run("order of maps does not matter", func(t *testing.T) {
		for i := 0; i < testRerunsForDeterminism; i++ {
			left := map[Key]string{}
			right := map[Key]string{}
			left[Key{Value: 1}] = "a"
			left[Key{Value: 2, Bar: [2]int{1, 2}}] = "b"
			right[Key{Value: 2, Bar: [2]int{1, 2}}] = "b"
			right[Key{Value: 1}] = "a"

			Equal(t, left, right)
		}
	})

	t.Run("order of slices does not matter", func(t *testing.T) {
		Equal(t, []Foo{{Value: 10.1}, {Value: 2.0}, {Value: -1.5}}, []Foo{{Value: -1.5}, {Value: 10.1}, {Value: 2.0}})
	})

	t.Run("equal values have no side effect", func(t *testing.T) {
		rec := &recordingT{}
		assert.True(t, Equal(rec, map[int]bool{1: true}, map[int]bool{1: true}))
		assert.False(t, rec.failed)
		assert.Empty(t, rec.errors)
	})
}

func TestEqualMismatch(t *testing.T) {
	t.Setenv(ColorEnv, "")

	testCases := []struct {
		name        string
		msgAndArgs  []any
		wantMessage string
	}{
		{
			name: "without message",
			wantMessage: "assertion failed: `(left == right)`\n" +
				"\n" +
				"Diff < left / right > :\n" +
				" FooWithOptionalField {\n" +
				"<    Value: 2.0,\n" +
				" }\n",
		},
		{
			name:       "with formatted message",
			msgAndArgs: []any{"user %d", 7},
			wantMessage: "assertion failed: `(left == right)`: user 7\n" +
				"\n" +
				"Diff < left / right > :\n" +
				" FooWithOptionalField {\n" +
				"<    Value: 2.0,\n" +
				" }\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recordingT{}
			ok := Equal(rec, FooWithOptionalField{Value: float32Ptr(2)}, FooWithOptionalField{}, tc.msgAndArgs...)

			assert.False(t, ok)
			assert.True(t, rec.failed)
			require.Len(t, rec.errors, 1)
			assert.Equal(t, tc.wantMessage, rec.errors[0])
		})
	}
}

func TestCheckMismatchError(t *testing.T) {
	err := Check(map[string]int{"a": 1, "b": 2}, map[string]int{"b": 2, "a": 3}, "counts")

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "counts", mismatch.Message)
	assert.Equal(t, "{\n    \"a\": 1,\n    \"b\": 2,\n}", mismatch.Left)
	assert.Equal(t, "{\n    \"a\": 3,\n    \"b\": 2,\n}", mismatch.Right)
	assert.Contains(t, mismatch.Diff, "<    \"a\": 1,")
	assert.Contains(t, mismatch.Diff, ">    \"a\": 3,")
	assert.True(t, strings.HasSuffix(err.Error(), mismatch.Diff+"\n"))
}

func TestEqualFailsOnUnsortableOutput(t *testing.T) {
	unsortable := serdeJSON(`{"a": Number(0)}`)

	rec := &recordingT{}
	assert.False(t, Equal(rec, unsortable, "2"))
	assert.True(t, rec.failed)
	require.Len(t, rec.errors, 1)
	assert.Equal(t, `failed to parse debug output for sorting (use sortdebug.EqualUnsorted instead and/or file an issue for your use-case)!
Error: left: expected field name in Object at offset 8
Rest:
"\"a\": Number(0)}"`, rec.errors[0])

	err := Check(unsortable, "2")
	assert.True(t, errors.Is(err, ErrUnsortable))

	var normErr *NormalizeError
	require.True(t, errors.As(err, &normErr))
	assert.Equal(t, "left", normErr.Operand)

	var perr *parser.Error
	assert.True(t, errors.As(err, &perr))

	err = Check("2", unsortable)
	require.True(t, errors.As(err, &normErr))
	assert.Equal(t, "right", normErr.Operand)
	assert.Contains(t, err.Error(), "\nError: right: expected field name in Object")

	_, err = Debug(unsortable)
	assert.ErrorIs(t, err, ErrUnsortable)
	assert.Panics(t, func() { MustDebug(unsortable) })
}

func TestEqualPointerKeys(t *testing.T) {
	// Distinct pointer keys render as the same dereferenced key; entries
	// must still come out in one order.
	build := func() map[*PtrKey]string {
		return map[*PtrKey]string{{ID: 1}: "c", {ID: 1}: "a", {ID: 1}: "b", {ID: 0}: "z"}
	}
	want := `{
    PtrKey {
        ID: 0,
    }: "z",
    PtrKey {
        ID: 1,
    }: "a",
    PtrKey {
        ID: 1,
    }: "b",
    PtrKey {
        ID: 1,
    }: "c",
}`

	for i := 0; i < testRerunsForDeterminism; i++ {
		got, err := Debug(build())
		require.NoError(t, err)
		require.Equal(t, want, got, "run %d", i)
		require.NoError(t, Check(build(), build()), "run %d", i)
	}
}

func TestEqualMismatchColored(t *testing.T) {
	t.Setenv(ColorEnv, "1")
	oldLevel := color.ForceOpenColor()
	oldEnable := color.Enable
	color.Enable = true
	t.Cleanup(func() {
		color.ForceSetColorLevel(oldLevel)
		color.Enable = oldEnable
	})

	rec := &recordingT{}
	assert.False(t, Equal(rec, FooWithOptionalField{Value: float32Ptr(2)}, FooWithOptionalField{}))
	require.Len(t, rec.errors, 1)
	assert.Equal(t, "assertion failed: `(left == right)`\n"+
		"\n"+
		"Diff < left / right > :\n"+
		" FooWithOptionalField {\n"+
		"\x1b[31m<    Value: 2.0,\x1b[0m\n"+
		" }\n", rec.errors[0])
}

func TestEqualUnsorted(t *testing.T) {
	EqualUnsorted(t, []int{1, 2}, []int{1, 2})

	rec := &recordingT{}
	assert.False(t, EqualUnsorted(rec, []int{2, 1}, []int{1, 2}))
	assert.True(t, rec.failed)
	assert.NotEmpty(t, rec.errors)
}

func TestMessageFromMsgAndArgs(t *testing.T) {
	assert.Equal(t, "", messageFromMsgAndArgs())
	assert.Equal(t, "plain", messageFromMsgAndArgs("plain"))
	assert.Equal(t, "42", messageFromMsgAndArgs(42))
	assert.Equal(t, "a=1 b", messageFromMsgAndArgs("a=%d %s", 1, "b"))
	assert.Equal(t, "[1 2]", messageFromMsgAndArgs([]int{1, 2}, "ignored"))
}
