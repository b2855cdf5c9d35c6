// Package comparison builds a line-by-line diff report of two renderings.
package comparison

import (
	"strings"

	"github.com/gookit/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Header is the first line of every report.
const Header = "Diff < left / right > :"

// Options controls how a report is rendered.
type Options struct {
	// Color paints lines only present on the left red and lines only
	// present on the right green.
	Color bool
}

// Comparison is the diff report of two multi-line strings.
type Comparison struct {
	left, right string
	options     Options
}

// New returns the comparison of left against right.
func New(left, right string, options Options) *Comparison {
	return &Comparison{left: left, right: right, options: options}
}

// String renders the report: the header, then every line prefixed with
// " " when both sides share it, "<" when only the left has it and ">"
// when only the right has it.
func (c *Comparison) String() string {
	a := splitLines(c.left)
	b := splitLines(c.right)

	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteByte('\n')

	matcher := difflib.NewMatcher(a, b)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for _, line := range a[op.I1:op.I2] {
				sb.WriteString(" " + line + "\n")
			}
		case 'd':
			c.removed(&sb, a[op.I1:op.I2])
		case 'i':
			c.added(&sb, b[op.J1:op.J2])
		case 'r':
			c.removed(&sb, a[op.I1:op.I2])
			c.added(&sb, b[op.J1:op.J2])
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Equal reports whether both sides are identical.
func (c *Comparison) Equal() bool {
	return c.left == c.right
}

func (c *Comparison) removed(sb *strings.Builder, lines []string) {
	for _, line := range lines {
		sb.WriteString(c.paint(color.Red, "<"+line) + "\n")
	}
}

func (c *Comparison) added(sb *strings.Builder, lines []string) {
	for _, line := range lines {
		sb.WriteString(c.paint(color.Green, ">"+line) + "\n")
	}
}

func (c *Comparison) paint(col color.Color, s string) string {
	if !c.options.Color {
		return s
	}
	return col.Render(s)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
