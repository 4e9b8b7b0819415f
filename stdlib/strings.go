package stdlib

import (
	"regexp"
	"strings"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

// stringMethodSpecs declares the string receiver methods: contains,
// startsWith, endsWith, matches. No ecosystem regex engine is in the
// retrieved pack, so matches() is grounded on stdlib regexp (see
// DESIGN.md).
func stringMethodSpecs() []overloadSpec {
	return []overloadSpec{
		{
			fnName:   "contains",
			overload: binaryOverload("contains_string", types.String, types.String, types.Bool, true),
			binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, target, arg values.Value) values.Value {
				return values.Bool(strings.Contains(string(target.(values.StringValue)), string(arg.(values.StringValue))))
			}},
		},
		{
			fnName:   "startsWith",
			overload: binaryOverload("starts_with_string", types.String, types.String, types.Bool, true),
			binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, target, arg values.Value) values.Value {
				return values.Bool(strings.HasPrefix(string(target.(values.StringValue)), string(arg.(values.StringValue))))
			}},
		},
		{
			fnName:   "endsWith",
			overload: binaryOverload("ends_with_string", types.String, types.String, types.Bool, true),
			binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, target, arg values.Value) values.Value {
				return values.Bool(strings.HasSuffix(string(target.(values.StringValue)), string(arg.(values.StringValue))))
			}},
		},
		{
			fnName:   "matches",
			overload: binaryOverload("matches_string", types.String, types.String, types.Bool, true),
			binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, target, arg values.Value) values.Value {
				re, err := regexp.Compile(string(arg.(values.StringValue)))
				if err != nil {
					return values.NewError(id, "invalid regex: %s", err)
				}
				return values.Bool(re.MatchString(string(target.(values.StringValue))))
			}},
		},
	}
}
