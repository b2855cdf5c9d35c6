// Package render turns value trees back into structural-debug text.
package render

import (
	"strings"

	"github.com/tjun/sortdebug/internal/value"
)

const indent = "    "

// Pretty renders v in the multi-line form: one entry per line, four-space
// indentation and a trailing comma after every entry.
//
// An open struct with no visible fields is rendered as an empty multi-line
// body ("Foo {\n}") instead of the compact "Foo { .. }", so it diffs line by
// line against a struct that does show fields. An open struct with visible
// fields ends with a ".." line.
func Pretty(v value.Value) string {
	p := &printer{}
	p.value(v)
	return p.b.String()
}

type printer struct {
	b     strings.Builder
	depth int
}

func (p *printer) write(s string) { p.b.WriteString(s) }

func (p *printer) pad() {
	for i := 0; i < p.depth; i++ {
		p.b.WriteString(indent)
	}
}

func (p *printer) withIndent(fn func()) {
	p.depth++
	fn()
	p.depth--
}

func (p *printer) value(v value.Value) {
	switch v := v.(type) {
	case *value.Term:
		p.write(v.Text)
	case *value.List:
		p.seq("[", "]", v.Values)
	case *value.Set:
		p.seq("{", "}", v.Values)
	case *value.Tuple:
		p.write(v.Name)
		p.seq("(", ")", v.Values)
	case *value.Map:
		if len(v.Entries) == 0 {
			p.write("{}")
			return
		}
		p.write("{\n")
		p.withIndent(func() {
			for _, e := range v.Entries {
				p.pad()
				p.value(e.Key)
				p.write(": ")
				p.value(e.Value)
				p.write(",\n")
			}
		})
		p.pad()
		p.write("}")
	case *value.Struct:
		p.structure(v)
	}
}

func (p *printer) seq(open, close string, values []value.Value) {
	if len(values) == 0 {
		p.write(open + close)
		return
	}
	p.write(open + "\n")
	p.withIndent(func() {
		for _, child := range values {
			p.pad()
			p.value(child)
			p.write(",\n")
		}
	})
	p.pad()
	p.write(close)
}

func (p *printer) structure(s *value.Struct) {
	visible := s.Visible()
	open := s.Open()
	if len(visible) == 0 && !open {
		p.write(s.Name)
		return
	}

	p.write(s.Name + " {\n")
	p.withIndent(func() {
		for _, f := range visible {
			p.pad()
			p.write(f.Name + ": ")
			p.value(f.Value)
			p.write(",\n")
		}
		if open && len(visible) > 0 {
			p.pad()
			p.write("..\n")
		}
	})
	p.pad()
	p.write("}")
}
