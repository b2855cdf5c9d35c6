// Package ctyvalue converts cty values (decoded from JSON or HCL, or passed
// directly to an assertion) into value trees.
package ctyvalue

import (
	"strconv"

	"github.com/zclconf/go-cty/cty"

	"github.com/tjun/sortdebug/internal/value"
)

// ObjectName is the struct name given to cty objects.
const ObjectName = "object"

// ToValue converts v into a value tree.
//
// Objects whose attribute names are all identifiers become structs named
// "object"; other objects and maps become maps keyed by quoted strings.
// Lists and tuples become lists, sets become sets. Null and unknown values
// become the terms "null" and "unknown".
func ToValue(v cty.Value) value.Value {
	v, _ = v.Unmark()
	if v.IsNull() {
		return &value.Term{Text: "null"}
	}
	if !v.IsKnown() {
		return &value.Term{Text: "unknown"}
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return &value.Term{Text: strconv.Quote(v.AsString())}
	case ty == cty.Number:
		return &value.Term{Text: v.AsBigFloat().Text('f', -1)}
	case ty == cty.Bool:
		return &value.Term{Text: strconv.FormatBool(v.True())}
	case ty.IsObjectType():
		if !identifierAttributes(ty) {
			return toMap(v)
		}
		s := &value.Struct{Name: ObjectName}
		for it := v.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			s.Fields = append(s.Fields, value.Field{Name: k.AsString(), Value: ToValue(elem)})
		}
		return s
	case ty.IsMapType():
		return toMap(v)
	case ty.IsSetType():
		return &value.Set{Values: elements(v)}
	case ty.IsListType(), ty.IsTupleType():
		return &value.List{Values: elements(v)}
	case ty.IsCapsuleType():
		return &value.Term{Text: "<" + ty.FriendlyName() + ">"}
	}
	return &value.Term{Text: ty.FriendlyName()}
}

func toMap(v cty.Value) value.Value {
	m := &value.Map{}
	for it := v.ElementIterator(); it.Next(); {
		k, elem := it.Element()
		m.Entries = append(m.Entries, value.Entry{
			Key:   &value.Term{Text: strconv.Quote(k.AsString())},
			Value: ToValue(elem),
		})
	}
	return m
}

func elements(v cty.Value) []value.Value {
	var values []value.Value
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		values = append(values, ToValue(elem))
	}
	return values
}

func identifierAttributes(ty cty.Type) bool {
	for name := range ty.AttributeTypes() {
		if !isIdentifier(name) {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
