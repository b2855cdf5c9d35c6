package parser

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ParseHCL parses HCL content and evaluates its top-level attributes into a
// single cty object. Expressions are evaluated without variables or
// functions, so only literal data files are accepted.
// filename is used for context in error messages.
func ParseHCL(content []byte, filename string) (cty.Value, hcl.Diagnostics) {
	file, diags := hclsyntax.ParseConfig(content, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	attrs, attrDiags := file.Body.JustAttributes()
	diags = append(diags, attrDiags...)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}

	vals := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		vals[name] = v
	}
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return cty.ObjectVal(vals), diags
}

// ParseJSON decodes arbitrary JSON into a cty value using the type implied
// by the document itself.
func ParseJSON(content []byte) (cty.Value, error) {
	ty, err := ctyjson.ImpliedType(content)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(content, ty)
}
