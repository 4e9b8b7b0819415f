package stdlib

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

// macroSupportSpecs declares @not_strictly_false for the checker's
// benefit; the planner special-cases the call by operator name and
// never consults this Binding (see interpreter/interpretable.go
// notStrictlyFalseNode), so the binding here only keeps the Dispatcher
// table complete for a caller that planned without that special case.
func macroSupportSpecs() []overloadSpec {
	return []overloadSpec{{
		fnName:   operators.NotStrictlyFalse,
		overload: unaryOverload("not_strictly_false", types.Dyn, types.Bool, false),
		binding: interpreter.Binding{Unary: func(id ast.ExprID, arg values.Value) values.Value {
			if b, ok := arg.(values.BoolValue); ok && !bool(b) {
				return values.False
			}
			return values.True
		}},
	}}
}
