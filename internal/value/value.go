// Package value defines the tree produced by parsing a structural-debug
// rendering, and the total order used to put unordered containers into a
// canonical order.
package value

// Value is one node of a parsed structural-debug rendering. The set of
// implementations is closed: *Term, *Tuple, *List, *Struct, *Set and *Map.
type Value interface {
	isValue()
}

// Term is an atomic literal kept as its rendered token (numbers, quoted
// strings, booleans, unit variants, ...).
type Term struct {
	Text string
}

// Tuple is a positional grouping such as `(1, 2)` or `Some(3)`. Name is
// empty for anonymous tuples.
type Tuple struct {
	Name   string
	Values []Value
}

// List is a variable-length sequence such as `[1, 2]`.
type List struct {
	Values []Value
}

// Struct is a named record. Its field list may end with the rest marker,
// meaning the rendering deliberately left some fields out.
type Struct struct {
	Name   string
	Fields []Field
}

// Field is a labelled struct field, or the rest marker when Rest is set.
type Field struct {
	Name  string
	Value Value
	Rest  bool
}

// Set is an unordered collection such as `{1, 2}`.
type Set struct {
	Values []Value
}

// Map is an unordered collection of key/value entries such as `{1: true}`.
type Map struct {
	Entries []Entry
}

// Entry is a single key/value association of a Map.
type Entry struct {
	Key   Value
	Value Value
}

func (*Term) isValue()   {}
func (*Tuple) isValue()  {}
func (*List) isValue()   {}
func (*Struct) isValue() {}
func (*Set) isValue()    {}
func (*Map) isValue()    {}

// RestMarker returns the field that marks omitted fields ("..").
func RestMarker() Field {
	return Field{Rest: true}
}

// Open reports whether the struct carries the rest marker.
func (s *Struct) Open() bool {
	for _, f := range s.Fields {
		if f.Rest {
			return true
		}
	}
	return false
}

// Visible returns the labelled fields, without the rest marker.
func (s *Struct) Visible() []Field {
	fields := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.Rest {
			fields = append(fields, f)
		}
	}
	return fields
}
