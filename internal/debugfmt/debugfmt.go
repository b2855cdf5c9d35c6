// Package debugfmt renders Go values in the compact structural-debug form
// that the parser understands:
//
//	Foo { Name: "a", Tags: {"x", "y"}, Counts: {1: true}, .. }
//
// Map entries are written in Go's map iteration order, which is not stable;
// normalizing that order is the job of the sorter.
//
// Struct fields are written under their Go names. A field tagged
// `debug:"label"` is written as label; labels that are not identifiers are
// ignored. A field tagged `debug:"-"` is left out, and a field tagged
// `debug:",omitempty"` is left out when it holds the zero value. Unexported
// fields are always left out. A struct that leaves any field out is written
// as open, ending with "..".
package debugfmt

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/zclconf/go-cty/cty"

	"github.com/tjun/sortdebug/internal/ctyvalue"
	"github.com/tjun/sortdebug/internal/render"
)

// Formatter is implemented by types that render themselves. The text is
// used verbatim; if it does not follow the structural-debug form, parsing
// it fails.
type Formatter interface {
	DebugString() string
}

// Tuple renders as a positional group "(a, b)".
type Tuple []any

var (
	formatterType = reflect.TypeOf((*Formatter)(nil)).Elem()
	goStringer    = reflect.TypeOf((*fmt.GoStringer)(nil)).Elem()
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	timeType      = reflect.TypeOf(time.Time{})
	durationType  = reflect.TypeOf(time.Duration(0))
	ctyValueType  = reflect.TypeOf(cty.Value{})
	tupleType     = reflect.TypeOf(Tuple(nil))
)

// Sprint renders v.
func Sprint(v any) string {
	w := &writer{visiting: make(map[uintptr]bool)}
	w.value(reflect.ValueOf(v))
	return w.b.String()
}

type writer struct {
	b        strings.Builder
	visiting map[uintptr]bool
}

func (w *writer) write(s string) { w.b.WriteString(s) }

func (w *writer) value(v reflect.Value) {
	if !v.IsValid() {
		w.write("nil")
		return
	}

	if v.CanInterface() {
		if w.custom(v) {
			return
		}
	}

	switch v.Kind() {
	case reflect.Bool:
		w.write(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.write(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		w.write(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		w.write(formatFloat(v.Float(), v.Type().Bits()))
	case reflect.Complex64, reflect.Complex128:
		c := strconv.FormatComplex(v.Complex(), 'g', -1, v.Type().Bits())
		w.write(strings.TrimSuffix(strings.TrimPrefix(c, "("), ")"))
	case reflect.String:
		w.write(strconv.Quote(v.String()))
	case reflect.Pointer:
		if v.IsNil() {
			w.write("nil")
			return
		}
		ptr := v.Pointer()
		if w.visiting[ptr] {
			w.write("<cycle>")
			return
		}
		w.visiting[ptr] = true
		w.value(v.Elem())
		delete(w.visiting, ptr)
	case reflect.Interface:
		if v.IsNil() {
			w.write("nil")
			return
		}
		w.value(v.Elem())
	case reflect.Slice, reflect.Array:
		if v.Type() == tupleType {
			w.elements("(", ")", v)
			return
		}
		w.elements("[", "]", v)
	case reflect.Map:
		w.mapping(v)
	case reflect.Struct:
		w.structure(v)
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		// Type strings such as "func()" or "chan struct {}" hold delimiters,
		// so only the kind is written.
		if v.IsNil() {
			w.write("nil")
			return
		}
		w.write("<" + v.Kind().String() + ">")
	default:
		w.write("<" + v.Kind().String() + ">")
	}
}

// custom handles types with their own rendering. It reports whether v was
// written.
func (w *writer) custom(v reflect.Value) bool {
	t := v.Type()
	switch {
	case t == timeType:
		w.write(v.Interface().(time.Time).Format(time.RFC3339Nano))
	case t == durationType:
		w.write(v.Interface().(time.Duration).String())
	case t == ctyValueType:
		w.write(render.Compact(ctyvalue.ToValue(v.Interface().(cty.Value))))
	case t.Implements(formatterType):
		if isNilPointer(v) {
			return false
		}
		w.write(v.Interface().(Formatter).DebugString())
	case t.Implements(goStringer):
		if isNilPointer(v) {
			return false
		}
		w.write(v.Interface().(fmt.GoStringer).GoString())
	case t.Implements(errorType) && t.Kind() != reflect.Struct:
		if isNilPointer(v) {
			return false
		}
		w.write(strconv.Quote(v.Interface().(error).Error()))
	default:
		return false
	}
	return true
}

func (w *writer) elements(open, close string, v reflect.Value) {
	w.write(open)
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			w.write(", ")
		}
		w.value(v.Index(i))
	}
	w.write(close)
}

// mapping writes a map, or a set for map[K]struct{}.
func (w *writer) mapping(v reflect.Value) {
	elem := v.Type().Elem()
	set := elem.Kind() == reflect.Struct && elem.NumField() == 0 && elem.Name() == ""
	w.write("{")
	i := 0
	for iter := v.MapRange(); iter.Next(); i++ {
		if i > 0 {
			w.write(", ")
		}
		w.value(iter.Key())
		if !set {
			w.write(": ")
			w.value(iter.Value())
		}
	}
	w.write("}")
}

func (w *writer) structure(v reflect.Value) {
	t := v.Type()
	name := typeName(t)

	var fields []string
	open := false
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		label, omitEmpty, skip := fieldTag(sf)
		if skip || !sf.IsExported() || (omitEmpty && v.Field(i).IsZero()) {
			open = true
			continue
		}
		fw := &writer{visiting: w.visiting}
		fw.value(v.Field(i))
		fields = append(fields, label+": "+fw.b.String())
	}

	switch {
	case len(fields) == 0 && !open:
		w.write(name)
		return
	case open:
		fields = append(fields, "..")
	}
	w.write(name + " { " + strings.Join(fields, ", ") + " }")
}

func fieldTag(sf reflect.StructField) (label string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("debug")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if !isIdent(name) {
		name = sf.Name
	}
	return name, opts == "omitempty", false
}

// isIdent reports whether a tag label can be read back as a field name.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// typeName returns the unqualified type name without type arguments.
// Anonymous structs are named "struct".
func typeName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "struct"
	}
	return name
}

// formatFloat writes the shortest representation, always with a decimal
// point so floats stay distinguishable from integers: 2.0, -1.5, 1e+21.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func isNilPointer(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
