package stdlib

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

// membershipSpecs implements the "in" operator over list and map
// containers (spec §3 data model "list, map").
func membershipSpecs() []overloadSpec {
	T := types.NewTypeParam("T")
	V := types.NewTypeParam("V")
	return []overloadSpec{
		{
			fnName: operators.In,
			overload: &decls.Overload{
				ID: "in_list", ArgTypes: []*types.Type{T, types.NewList(T)}, ResultType: types.Bool, TypeParams: []string{"T"},
			},
			binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, elem, container values.Value) values.Value {
				list, ok := container.(*values.ListValue)
				if !ok {
					return values.NewError(id, "in: not a list")
				}
				for _, e := range list.Elements {
					if r := values.Equal(id, elem, e); r == values.True {
						return values.True
					}
				}
				return values.False
			}},
		},
		{
			fnName: operators.In,
			overload: &decls.Overload{
				ID: "in_map", ArgTypes: []*types.Type{T, types.NewMap(T, V)}, ResultType: types.Bool, TypeParams: []string{"T", "V"},
			},
			binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, elem, container values.Value) values.Value {
				m, ok := container.(*values.MapValue)
				if !ok {
					return values.NewError(id, "in: not a map")
				}
				_, found := m.Get(elem)
				return values.Bool(found)
			}},
		},
	}
}
