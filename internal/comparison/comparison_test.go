package comparison

import (
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
)

func TestComparisonString(t *testing.T) {
	testCases := []struct {
		name  string
		left  string
		right string
		want  string
	}{
		{
			name:  "identical",
			left:  "{\n    1: true,\n}",
			right: "{\n    1: true,\n}",
			want:  Header + "\n {\n     1: true,\n }",
		},
		{
			name:  "removed line of an optional field",
			left:  "FooWithOptionalField {\n    value: 2.0,\n}",
			right: "FooWithOptionalField {\n}",
			want:  Header + "\n FooWithOptionalField {\n<    value: 2.0,\n }",
		},
		{
			name:  "changed line",
			left:  "[\n    1,\n    2,\n]",
			right: "[\n    1,\n    3,\n]",
			want:  Header + "\n [\n     1,\n<    2,\n>    3,\n ]",
		},
		{
			name:  "added lines",
			left:  "",
			right: "a\nb",
			want:  Header + "\n>a\n>b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.left, tc.right, Options{})
			assert.Equal(t, tc.want, c.String())
			assert.Equal(t, tc.left == tc.right, c.Equal())
		})
	}
}

// forceColor turns on escape codes even when the test output is not a
// terminal.
func forceColor(t *testing.T) {
	t.Helper()
	oldLevel := color.ForceOpenColor()
	oldEnable := color.Enable
	color.Enable = true
	t.Cleanup(func() {
		color.ForceSetColorLevel(oldLevel)
		color.Enable = oldEnable
	})
}

func TestComparisonStringColored(t *testing.T) {
	forceColor(t)

	testCases := []struct {
		name  string
		left  string
		right string
		want  string
	}{
		{
			name:  "removed line is red",
			left:  "FooWithOptionalField {\n    Value: 2.0,\n}",
			right: "FooWithOptionalField {\n}",
			want:  Header + "\n FooWithOptionalField {\n\x1b[31m<    Value: 2.0,\x1b[0m\n }",
		},
		{
			name:  "replaced line is red then green",
			left:  "a",
			right: "b",
			want:  Header + "\n\x1b[31m<a\x1b[0m\n\x1b[32m>b\x1b[0m",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.left, tc.right, Options{Color: true}).String())
		})
	}

	t.Run("color off", func(t *testing.T) {
		assert.Equal(t, Header+"\n<a\n>b", New("a", "b", Options{}).String())
	})
}
