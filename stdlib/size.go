package stdlib

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

func sizeBinding(value values.Value) values.Value {
	switch v := value.(type) {
	case values.StringValue:
		return values.IntValue(int64(len([]rune(string(v)))))
	case values.BytesValue:
		return values.IntValue(int64(len(v)))
	case *values.ListValue:
		return values.IntValue(int64(len(v.Elements)))
	case *values.MapValue:
		return values.IntValue(int64(v.Len()))
	}
	return values.NewError(0, "size: unsupported type %s", value.Type())
}

// sizeSpecs declares size() both as a global function and as a receiver
// method on string/bytes/list/map, matching the checker's three-step
// member-call fallback (spec §4.3).
func sizeSpecs() []overloadSpec {
	entries := []struct {
		suffix string
		t      *types.Type
	}{
		{"string", types.String},
		{"bytes", types.Bytes},
		{"list", types.NewList(types.Dyn)},
		{"map", types.NewMap(types.Dyn, types.Dyn)},
	}
	var specs []overloadSpec
	for _, e := range entries {
		t := e.t
		specs = append(specs, overloadSpec{
			fnName:   "size",
			overload: unaryOverload("size_"+e.suffix, t, types.Int, false),
			binding: interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, arg values.Value) values.Value {
				return sizeBindingWithID(id, arg)
			}},
		})
		specs = append(specs, overloadSpec{
			fnName:   "size",
			overload: unaryOverload(e.suffix+"_size", t, types.Int, true),
			binding: interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, arg values.Value) values.Value {
				return sizeBindingWithID(id, arg)
			}},
		})
	}
	return specs
}

func sizeBindingWithID(id ast.ExprID, v values.Value) values.Value {
	r := sizeBinding(v)
	if e, ok := r.(*values.ErrorValue); ok {
		e.ExprID = id
	}
	return r
}
