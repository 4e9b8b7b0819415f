package stdlib

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

func intBinding(fnName, id string, fn func(a, b int64) (int64, error)) overloadSpec {
	return overloadSpec{
		fnName:   fnName,
		overload: binaryOverload(id, types.Int, types.Int, types.Int, false),
		binding: interpreter.Binding{
			Pure: true,
			Binary: func(exprID ast.ExprID, lhs, rhs values.Value) values.Value {
				r, err := fn(int64(lhs.(values.IntValue)), int64(rhs.(values.IntValue)))
				if err != nil {
					return values.NewError(exprID, "%s", err)
				}
				return values.IntValue(r)
			},
		},
	}
}

func arithmeticSpecs() []overloadSpec {
	var specs []overloadSpec

	specs = append(specs, intBinding(operators.Add, "add_int_int", values.AddInt))
	specs = append(specs, intBinding(operators.Subtract, "subtract_int_int", values.SubInt))
	specs = append(specs, intBinding(operators.Multiply, "multiply_int_int", values.MulInt))
	specs = append(specs, intBinding(operators.Divide, "divide_int_int", values.DivInt))
	specs = append(specs, intBinding(operators.Modulo, "modulo_int_int", values.ModInt))

	specs = append(specs, overloadSpec{
		fnName:   operators.Add,
		overload: binaryOverload("add_uint_uint", types.Uint, types.Uint, types.Uint, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			r, err := values.AddUint(uint64(lhs.(values.UintValue)), uint64(rhs.(values.UintValue)))
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.UintValue(r)
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Subtract,
		overload: binaryOverload("subtract_uint_uint", types.Uint, types.Uint, types.Uint, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			r, err := values.SubUint(uint64(lhs.(values.UintValue)), uint64(rhs.(values.UintValue)))
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.UintValue(r)
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Multiply,
		overload: binaryOverload("multiply_uint_uint", types.Uint, types.Uint, types.Uint, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			r, err := values.MulUint(uint64(lhs.(values.UintValue)), uint64(rhs.(values.UintValue)))
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.UintValue(r)
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Divide,
		overload: binaryOverload("divide_uint_uint", types.Uint, types.Uint, types.Uint, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			r, err := values.DivUint(uint64(lhs.(values.UintValue)), uint64(rhs.(values.UintValue)))
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.UintValue(r)
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Modulo,
		overload: binaryOverload("modulo_uint_uint", types.Uint, types.Uint, types.Uint, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			r, err := values.ModUint(uint64(lhs.(values.UintValue)), uint64(rhs.(values.UintValue)))
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.UintValue(r)
		}},
	})

	specs = append(specs, overloadSpec{
		fnName:   operators.Add,
		overload: binaryOverload("add_double_double", types.Double, types.Double, types.Double, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			return values.DoubleValue(float64(lhs.(values.DoubleValue)) + float64(rhs.(values.DoubleValue)))
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Subtract,
		overload: binaryOverload("subtract_double_double", types.Double, types.Double, types.Double, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			return values.DoubleValue(float64(lhs.(values.DoubleValue)) - float64(rhs.(values.DoubleValue)))
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Multiply,
		overload: binaryOverload("multiply_double_double", types.Double, types.Double, types.Double, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			return values.DoubleValue(float64(lhs.(values.DoubleValue)) * float64(rhs.(values.DoubleValue)))
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Divide,
		overload: binaryOverload("divide_double_double", types.Double, types.Double, types.Double, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			return values.DoubleValue(float64(lhs.(values.DoubleValue)) / float64(rhs.(values.DoubleValue)))
		}},
	})

	specs = append(specs, overloadSpec{
		fnName:   operators.Add,
		overload: binaryOverload("add_string_string", types.String, types.String, types.String, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			return values.StringValue(string(lhs.(values.StringValue)) + string(rhs.(values.StringValue)))
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Add,
		overload: binaryOverload("add_bytes_bytes", types.Bytes, types.Bytes, types.Bytes, false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			a, b := []byte(lhs.(values.BytesValue)), []byte(rhs.(values.BytesValue))
			out := make([]byte, 0, len(a)+len(b))
			out = append(out, a...)
			out = append(out, b...)
			return values.BytesValue(out)
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Add,
		overload: binaryOverload("add_list_list", types.NewList(types.Dyn), types.NewList(types.Dyn), types.NewList(types.Dyn), false),
		binding: interpreter.Binding{Pure: true, Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			a, b := lhs.(*values.ListValue), rhs.(*values.ListValue)
			out := make([]values.Value, 0, len(a.Elements)+len(b.Elements))
			out = append(out, a.Elements...)
			out = append(out, b.Elements...)
			return &values.ListValue{Elements: out}
		}},
	})

	specs = append(specs, overloadSpec{
		fnName:   operators.Negate,
		overload: unaryOverload("negate_int", types.Int, types.Int, false),
		binding: interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, arg values.Value) values.Value {
			r, err := values.NegInt(int64(arg.(values.IntValue)))
			if err != nil {
				return values.NewError(id, "%s", err)
			}
			return values.IntValue(r)
		}},
	})
	specs = append(specs, overloadSpec{
		fnName:   operators.Negate,
		overload: unaryOverload("negate_double", types.Double, types.Double, false),
		binding: interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, arg values.Value) values.Value {
			return values.DoubleValue(-float64(arg.(values.DoubleValue)))
		}},
	})

	return specs
}
