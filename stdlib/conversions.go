package stdlib

import (
	"strconv"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

func conv(fnName, id string, from, to *types.Type, fn func(ast.ExprID, values.Value) values.Value) overloadSpec {
	return overloadSpec{
		fnName:   fnName,
		overload: unaryOverload(id, from, to, false),
		binding:  interpreter.Binding{Pure: true, Unary: fn},
	}
}

// conversionSpecs declares the type-conversion functions (spec §4.3
// "if absent but the name resolves to a type, treat as one-arg type
// conversion").
func conversionSpecs() []overloadSpec {
	var specs []overloadSpec

	specs = append(specs,
		conv("int", "int_to_int", types.Int, types.Int, func(id ast.ExprID, v values.Value) values.Value { return v }),
		conv("int", "uint_to_int", types.Uint, types.Int, func(id ast.ExprID, v values.Value) values.Value {
			u := uint64(v.(values.UintValue))
			return values.IntValue(int64(u))
		}),
		conv("int", "double_to_int", types.Double, types.Int, func(id ast.ExprID, v values.Value) values.Value {
			return values.IntValue(int64(float64(v.(values.DoubleValue))))
		}),
		conv("int", "string_to_int", types.String, types.Int, func(id ast.ExprID, v values.Value) values.Value {
			n, err := strconv.ParseInt(string(v.(values.StringValue)), 10, 64)
			if err != nil {
				return values.NewError(id, "invalid int literal: %s", v)
			}
			return values.IntValue(n)
		}),
	)

	specs = append(specs,
		conv("uint", "uint_to_uint", types.Uint, types.Uint, func(id ast.ExprID, v values.Value) values.Value { return v }),
		conv("uint", "int_to_uint", types.Int, types.Uint, func(id ast.ExprID, v values.Value) values.Value {
			n := int64(v.(values.IntValue))
			if n < 0 {
				return values.NewError(id, "negative int cannot convert to uint")
			}
			return values.UintValue(uint64(n))
		}),
		conv("uint", "double_to_uint", types.Double, types.Uint, func(id ast.ExprID, v values.Value) values.Value {
			return values.UintValue(uint64(float64(v.(values.DoubleValue))))
		}),
		conv("uint", "string_to_uint", types.String, types.Uint, func(id ast.ExprID, v values.Value) values.Value {
			n, err := strconv.ParseUint(string(v.(values.StringValue)), 10, 64)
			if err != nil {
				return values.NewError(id, "invalid uint literal: %s", v)
			}
			return values.UintValue(n)
		}),
	)

	specs = append(specs,
		conv("double", "double_to_double", types.Double, types.Double, func(id ast.ExprID, v values.Value) values.Value { return v }),
		conv("double", "int_to_double", types.Int, types.Double, func(id ast.ExprID, v values.Value) values.Value {
			return values.DoubleValue(float64(v.(values.IntValue)))
		}),
		conv("double", "uint_to_double", types.Uint, types.Double, func(id ast.ExprID, v values.Value) values.Value {
			return values.DoubleValue(float64(v.(values.UintValue)))
		}),
		conv("double", "string_to_double", types.String, types.Double, func(id ast.ExprID, v values.Value) values.Value {
			f, err := strconv.ParseFloat(string(v.(values.StringValue)), 64)
			if err != nil {
				return values.NewError(id, "invalid double literal: %s", v)
			}
			return values.DoubleValue(f)
		}),
	)

	specs = append(specs,
		conv("string", "string_to_string", types.String, types.String, func(id ast.ExprID, v values.Value) values.Value { return v }),
		conv("string", "int_to_string", types.Int, types.String, func(id ast.ExprID, v values.Value) values.Value {
			return values.StringValue(strconv.FormatInt(int64(v.(values.IntValue)), 10))
		}),
		conv("string", "uint_to_string", types.Uint, types.String, func(id ast.ExprID, v values.Value) values.Value {
			return values.StringValue(strconv.FormatUint(uint64(v.(values.UintValue)), 10))
		}),
		conv("string", "double_to_string", types.Double, types.String, func(id ast.ExprID, v values.Value) values.Value {
			return values.StringValue(strconv.FormatFloat(float64(v.(values.DoubleValue)), 'g', -1, 64))
		}),
		conv("string", "bool_to_string", types.Bool, types.String, func(id ast.ExprID, v values.Value) values.Value {
			return values.StringValue(strconv.FormatBool(bool(v.(values.BoolValue))))
		}),
		conv("string", "bytes_to_string", types.Bytes, types.String, func(id ast.ExprID, v values.Value) values.Value {
			return values.StringValue(string(v.(values.BytesValue)))
		}),
	)

	specs = append(specs,
		conv("bytes", "bytes_to_bytes", types.Bytes, types.Bytes, func(id ast.ExprID, v values.Value) values.Value { return v }),
		conv("bytes", "string_to_bytes", types.String, types.Bytes, func(id ast.ExprID, v values.Value) values.Value {
			return values.BytesValue([]byte(string(v.(values.StringValue))))
		}),
	)

	specs = append(specs,
		conv("bool", "bool_to_bool", types.Bool, types.Bool, func(id ast.ExprID, v values.Value) values.Value { return v }),
		conv("bool", "string_to_bool", types.String, types.Bool, func(id ast.ExprID, v values.Value) values.Value {
			b, err := strconv.ParseBool(string(v.(values.StringValue)))
			if err != nil {
				return values.NewError(id, "invalid bool literal: %s", v)
			}
			return values.Bool(b)
		}),
	)

	specs = append(specs, overloadSpec{
		fnName:   "dyn",
		overload: unaryOverload("to_dyn", types.Dyn, types.Dyn, false),
		binding:  interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, v values.Value) values.Value { return v }},
	})
	specs = append(specs, overloadSpec{
		fnName:   "type",
		overload: unaryOverload("type", types.Dyn, types.NewMeta(nil), false),
		binding: interpreter.Binding{Pure: true, Unary: func(id ast.ExprID, v values.Value) values.Value {
			return values.TypeValue{T: v.Type()}
		}},
	})

	return specs
}
