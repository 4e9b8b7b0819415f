package envconfig

import (
	"fmt"
	"strings"

	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

var primitiveTypes = map[string]*types.Type{
	"bool":      types.Bool,
	"int":       types.Int,
	"uint":      types.Uint,
	"double":    types.Double,
	"string":    types.String,
	"bytes":     types.Bytes,
	"null":      types.Null,
	"duration":  types.Duration,
	"timestamp": types.Timestamp,
	"dyn":       types.Dyn,
}

// parseType converts a type name as it appears in a YAML document —
// a primitive name, "list(elem)", "map(key,value)", or a bare
// identifier naming a struct declared elsewhere in the same Config —
// into a *types.Type.
func parseType(s string) (*types.Type, error) {
	s = strings.TrimSpace(s)
	if t, ok := primitiveTypes[s]; ok {
		return t, nil
	}
	if inner, ok := unwrap(s, "list("); ok {
		elem, err := parseType(inner)
		if err != nil {
			return nil, err
		}
		return types.NewList(elem), nil
	}
	if inner, ok := unwrap(s, "map("); ok {
		key, value, found := strings.Cut(inner, ",")
		if !found {
			return nil, fmt.Errorf("map type %q needs key,value", s)
		}
		keyType, err := parseType(key)
		if err != nil {
			return nil, err
		}
		valueType, err := parseType(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		return types.NewMap(keyType, valueType), nil
	}
	if s == "" {
		return nil, fmt.Errorf("empty type name")
	}
	return types.NewStruct(s), nil
}

func unwrap(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return s[len(prefix) : len(s)-1], true
}

// nativeToValue converts a YAML-decoded Go value (string, bool, int,
// float64, []interface{}, map[string]interface{}, or nil, the shapes
// gopkg.in/yaml.v3 produces when unmarshaling into interface{}) into a
// values.Value.
func nativeToValue(v interface{}) values.Value {
	switch t := v.(type) {
	case nil:
		return values.Null
	case bool:
		return values.Bool(t)
	case string:
		return values.StringValue(t)
	case int:
		return values.IntValue(t)
	case int64:
		return values.IntValue(t)
	case float64:
		return values.DoubleValue(t)
	case []interface{}:
		elems := make([]values.Value, len(t))
		for i, e := range t {
			elems[i] = nativeToValue(e)
		}
		return &values.ListValue{ElemType: types.Dyn, Elements: elems}
	case map[string]interface{}:
		keys := make([]values.Value, 0, len(t))
		vals := make([]values.Value, 0, len(t))
		for k, e := range t {
			keys = append(keys, values.StringValue(k))
			vals = append(vals, nativeToValue(e))
		}
		return values.NewMap(types.String, types.Dyn, keys, vals)
	default:
		return values.NewError(0, "envconfig: cannot convert constant value of type %T", v)
	}
}
