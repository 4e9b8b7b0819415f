package stdlib

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

// comparisonPred maps a values.Compare result to the boolean the
// operator should yield.
type comparisonPred func(values.CompareResult) bool

func compareBinding(id string, fnName string, lhs, rhs *types.Type, pred comparisonPred) overloadSpec {
	return overloadSpec{
		fnName:   fnName,
		overload: binaryOverload(id, lhs, rhs, types.Bool, false),
		binding: interpreter.Binding{Pure: true, Binary: func(exprID ast.ExprID, lhs, rhs values.Value) values.Value {
			cmp, errVal := values.Compare(exprID, lhs, rhs)
			if errVal != nil {
				return errVal
			}
			return values.Bool(pred(cmp))
		}},
	}
}

// comparisonSpecs declares "<", "<=", ">", ">=" over every same-kind
// pair plus the three cross-numeric (int, uint, double) combinations,
// matching values.Compare's own cross-numeric support (spec §4.6
// "Ordering").
func comparisonSpecs() []overloadSpec {
	ops := []struct {
		id   string
		op   string
		pred comparisonPred
	}{
		{"less", operators.Less, func(c values.CompareResult) bool { return c == values.Less }},
		{"less_equals", operators.LessEquals, func(c values.CompareResult) bool { return c != values.Greater }},
		{"greater", operators.Greater, func(c values.CompareResult) bool { return c == values.Greater }},
		{"greater_equals", operators.GreaterEquals, func(c values.CompareResult) bool { return c != values.Less }},
	}
	pairs := []struct {
		suffix   string
		lhs, rhs *types.Type
	}{
		{"int_int", types.Int, types.Int},
		{"int_uint", types.Int, types.Uint},
		{"int_double", types.Int, types.Double},
		{"uint_uint", types.Uint, types.Uint},
		{"uint_int", types.Uint, types.Int},
		{"uint_double", types.Uint, types.Double},
		{"double_double", types.Double, types.Double},
		{"double_int", types.Double, types.Int},
		{"double_uint", types.Double, types.Uint},
		{"string_string", types.String, types.String},
		{"bytes_bytes", types.Bytes, types.Bytes},
		{"duration_duration", types.Duration, types.Duration},
		{"timestamp_timestamp", types.Timestamp, types.Timestamp},
	}

	var specs []overloadSpec
	for _, o := range ops {
		for _, p := range pairs {
			specs = append(specs, compareBinding(o.id+"_"+p.suffix, o.op, p.lhs, p.rhs, o.pred))
		}
	}
	return specs
}
