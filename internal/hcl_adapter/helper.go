package hcl_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined checks if an HCL expression was actually present in the source.
// The decoder populates omitted optional expressions with zero-width
// placeholders, so a nil check alone is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// newEvalContext exposes the ambient environment as the `env` object together
// with a small set of string and collection functions.
func newEvalContext(environ map[string]string) *hcl.EvalContext {
	envVal := cty.EmptyObjectVal
	if len(environ) > 0 {
		attrs := make(map[string]cty.Value, len(environ))
		for k, v := range environ {
			attrs[k] = cty.StringVal(v)
		}
		envVal = cty.ObjectVal(attrs)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
		Functions: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}

// scriptFragments accepts either a single string or a list of strings.
func scriptFragments(val cty.Value) ([]string, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, errors.New("script must be known at load time")
	}
	if val.Type() == cty.String {
		return []string{val.AsString()}, nil
	}

	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("script must be a string or a list of strings: %w", err)
	}
	var fragments []string
	if err := gocty.FromCtyValue(listVal, &fragments); err != nil {
		return nil, fmt.Errorf("script must be a string or a list of strings: %w", err)
	}
	return fragments, nil
}
