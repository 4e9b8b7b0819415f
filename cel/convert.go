package cel

import (
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// toValue converts a native Go value into a values.Value. Maps and
// slices convert recursively; a nested map bound (directly or
// transitively) to a declared struct-typed position converts into a
// values.StructValue instead of a values.MapValue so field selection
// and the has() macro see struct semantics, per spec §8 scenario 4.
//
// Supported native shapes: nil, bool, string, []byte, int, int32, int64,
// uint, uint32, uint64, float32/float64, map[string]interface{},
// []interface{}, and values.Value itself (passed through unconverted).
// Any other native type converts to an ErrorValue.
func toValue(native interface{}, want *types.Type, env *Env) values.Value {
	if v, ok := native.(values.Value); ok {
		return v
	}
	switch v := native.(type) {
	case nil:
		return values.Null
	case bool:
		return values.Bool(v)
	case string:
		return values.StringValue(v)
	case []byte:
		return values.BytesValue(v)
	case int:
		return values.IntValue(v)
	case int32:
		return values.IntValue(v)
	case int64:
		return values.IntValue(v)
	case uint:
		return values.UintValue(v)
	case uint32:
		return values.UintValue(v)
	case uint64:
		return values.UintValue(v)
	case float32:
		return values.DoubleValue(v)
	case float64:
		return values.DoubleValue(v)
	case map[string]interface{}:
		if want != nil && want.Kind() == types.KindStruct {
			return structFromMap(v, want.TypeName(), env)
		}
		return mapFromNative(v, env)
	case []interface{}:
		var elemType *types.Type
		if want != nil && want.Kind() == types.KindList {
			params := want.Params()
			if len(params) == 1 {
				elemType = params[0]
			}
		}
		elems := make([]values.Value, len(v))
		for i, e := range v {
			elems[i] = toValue(e, elemType, env)
		}
		return &values.ListValue{ElemType: elemType, Elements: elems}
	default:
		return values.NewError(0, "cannot convert native value of type %T", native)
	}
}

func mapFromNative(m map[string]interface{}, env *Env) *values.MapValue {
	keys := make([]values.Value, 0, len(m))
	vals := make([]values.Value, 0, len(m))
	for k, v := range m {
		keys = append(keys, values.StringValue(k))
		vals = append(vals, toValue(v, nil, env))
	}
	return values.NewMap(types.String, types.Dyn, keys, vals)
}

func structFromMap(m map[string]interface{}, typeName string, env *Env) *values.StructValue {
	decl, hasDecl := env.checkerEnv.Structs[typeName]
	fields := make(map[string]values.Value, len(m))
	present := make(map[string]bool, len(m))
	for k, v := range m {
		var fieldType *types.Type
		if hasDecl {
			fieldType, _ = decl.FieldType(k)
		}
		fields[k] = toValue(v, fieldType, env)
		present[k] = true
	}
	return &values.StructValue{TypeName: typeName, Fields: fields, Present: present}
}

// nativeActivation adapts a map/record input to an interpreter.Activation,
// resolving each declared variable's static type (if any) so nested maps
// convert to the right shape (spec §6 "input is an Activation or a
// map/record").
type nativeActivation struct {
	env    *Env
	values map[string]values.Value
}

func newNativeActivation(env *Env, input map[string]interface{}) *nativeActivation {
	a := &nativeActivation{env: env, values: make(map[string]values.Value, len(input))}
	for k, v := range input {
		var want *types.Type
		if vd, ok := env.checkerEnv.Scopes.FindVariable(k); ok {
			want = vd.Type
		}
		a.values[k] = toValue(v, want, env)
	}
	return a
}

func (a *nativeActivation) Resolve(name string) (values.Value, bool) {
	v, ok := a.values[name]
	return v, ok
}
