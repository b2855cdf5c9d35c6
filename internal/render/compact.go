package render

import (
	"strings"

	"github.com/tjun/sortdebug/internal/value"
)

// Compact renders v on a single line, e.g. `Foo { a: 1, .. }` or `{1: true}`.
func Compact(v value.Value) string {
	var b strings.Builder
	compact(&b, v)
	return b.String()
}

func compact(b *strings.Builder, v value.Value) {
	switch v := v.(type) {
	case *value.Term:
		b.WriteString(v.Text)
	case *value.List:
		compactSeq(b, "[", "]", v.Values)
	case *value.Set:
		compactSeq(b, "{", "}", v.Values)
	case *value.Tuple:
		b.WriteString(v.Name)
		compactSeq(b, "(", ")", v.Values)
	case *value.Map:
		b.WriteByte('{')
		for i, e := range v.Entries {
			if i > 0 {
				b.WriteString(", ")
			}
			compact(b, e.Key)
			b.WriteString(": ")
			compact(b, e.Value)
		}
		b.WriteByte('}')
	case *value.Struct:
		if len(v.Fields) == 0 {
			b.WriteString(v.Name)
			return
		}
		b.WriteString(v.Name + " { ")
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			if f.Rest {
				b.WriteString("..")
				continue
			}
			b.WriteString(f.Name + ": ")
			compact(b, f.Value)
		}
		b.WriteString(" }")
	}
}

func compactSeq(b *strings.Builder, open, close string, values []value.Value) {
	b.WriteString(open)
	for i, child := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		compact(b, child)
	}
	b.WriteString(close)
}
