package jsonschemaprovider

import (
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// fieldInfo is everything the Provider needs to answer a single field's
// type, default-value, and presence questions.
type fieldInfo struct {
	typ        *types.Type
	required   bool
	defaultVal values.Value
	hasDefault bool
}

// declType is one JSON-object (or, for a map-shaped schema, an
// array/map) schema's CEL-facing declaration: its static type, and — for
// an object — its field table.
type declType struct {
	typ    *types.Type
	fields map[string]*fieldInfo // nil unless typ.Kind() == KindStruct
}

// convertSchema walks s (and, recursively, its properties/items),
// registering every named object type it discovers into reg under its
// Schema `$id` (falling back to path, the dotted property path from the
// root, when the schema carries no id) so a later FindStructType can
// resolve nested object schemas too, not just the root (spec §9 "name
// will reflect the object path where the type definition appears",
// adapted from the JSON-object-path convention).
func convertSchema(reg *Provider, s *schema, path string) *declType {
	if s == nil || s.raw == nil {
		return &declType{typ: types.Dyn}
	}

	switch s.jsonType() {
	case "object":
		if extra := s.additionalProperties(); extra != nil {
			elem := convertSchema(reg, extra, path+".@value")
			return &declType{typ: types.NewMap(types.String, elem.typ)}
		}
		props := s.properties()
		if len(props) == 0 {
			return &declType{typ: types.NewMap(types.String, types.Dyn)}
		}
		required := s.required()
		name := s.id()
		if name == "" {
			name = path
		}
		fields := make(map[string]*fieldInfo, len(props))
		for propName, propSchema := range props {
			fieldDecl := convertSchema(reg, propSchema, path+"."+propName)
			fi := &fieldInfo{typ: fieldDecl.typ, required: required[propName]}
			if dv, ok := propSchema.defaultValue(); ok {
				fi.defaultVal = nativeToValue(dv)
				fi.hasDefault = true
			}
			fields[propName] = fi
		}
		structType := types.NewStruct(name)
		reg.register(name, &declType{typ: structType, fields: fields})
		reg.fieldOrder[name] = fieldNames(props)
		return &declType{typ: structType, fields: fields}

	case "array":
		items := s.items()
		elem := convertSchema(reg, items, path+"[]")
		return &declType{typ: types.NewList(elem.typ)}

	case "string":
		switch s.format() {
		case "date", "date-time":
			return &declType{typ: types.Timestamp}
		case "duration":
			return &declType{typ: types.Duration}
		case "byte":
			return &declType{typ: types.Bytes}
		}
		return &declType{typ: types.String}

	case "number":
		return &declType{typ: types.Double}

	case "integer":
		return &declType{typ: types.Int}

	case "boolean":
		return &declType{typ: types.Bool}

	default:
		if ref := s.ref(); ref != nil {
			return convertSchema(reg, ref, path)
		}
		return &declType{typ: types.Dyn}
	}
}

func fieldNames(props map[string]*schema) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	return names
}

// nativeToValue converts a JSON-decoded Go value (as produced by
// encoding/json or a jsonschema.Schema's Default/Const/Enum fields) into
// a values.Value. JSON numbers decode as float64; an integral float
// still becomes a DoubleValue since JSON Schema alone cannot distinguish
// "integer" from "number" once unmarshaled — callers wanting int
// defaults should author the schema with "type": "integer", which this
// converter does not consult here since defaults come pre-decoded.
func nativeToValue(v interface{}) values.Value {
	switch t := v.(type) {
	case nil:
		return values.Null
	case bool:
		return values.Bool(t)
	case string:
		return values.StringValue(t)
	case float64:
		return values.DoubleValue(t)
	case int:
		return values.IntValue(t)
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
		return values.NewError(0, "jsonschemaprovider: cannot convert default value of type %T", v)
	}
}
