package stdlib

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

// logicalSpecs covers "!", the one logical operator the planner does not
// special-case (&&/|| are short-circuit nodes built directly, spec §4.4).
func logicalSpecs() []overloadSpec {
	return []overloadSpec{{
		fnName:   operators.LogicalNot,
		overload: unaryOverload("logical_not", types.Bool, types.Bool, false),
		binding: interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, arg values.Value) values.Value {
			return values.Bool(!bool(arg.(values.BoolValue)))
		}},
	}}
}

// equalitySpecs declares "==" and "!=" for the checker's benefit; the
// planner builds an equalityNode directly from the call operator and
// never consults these bindings (spec §4.4), so their Binding fields are
// present only to keep the Dispatcher table complete for callers that
// plan without the operator special-case (e.g. a future non-core
// frontend). They delegate to the same values.Equal/NotEqual the
// planner's equalityNode uses.
//
// Equality is declared over (dyn, dyn) rather than a single type
// parameter: spec §3/§8 requires cross-numeric equality (3 == 3.0) and
// "equality between incompatible kinds is false rather than an error",
// both of which a homogeneous type_param(T) overload would reject at
// check time.
func equalitySpecs() []overloadSpec {
	return []overloadSpec{
		{
			fnName: operators.Equals,
			overload: &decls.Overload{
				ID: "equals", ArgTypes: []*types.Type{types.Dyn, types.Dyn}, ResultType: types.Bool,
			},
			binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
				return values.Equal(id, lhs, rhs)
			}},
		},
		{
			fnName: operators.NotEquals,
			overload: &decls.Overload{
				ID: "not_equals", ArgTypes: []*types.Type{types.Dyn, types.Dyn}, ResultType: types.Bool,
			},
			binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
				return values.NotEqual(id, lhs, rhs)
			}},
		},
	}
}
