package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taichimaeda/cel-ts-sub000/common/types"
)

// parseVarFlags turns a list of "name=jsonvalue" strings (as collected
// by a repeated --var flag) into the native Go values the cel package's
// Program.Eval accepts, decoding each value as JSON so --var 'n=3',
// --var 's="hi"', and --var 'ok=true' all do the expected thing.
func parseVarFlags(raw []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(raw))
	for _, kv := range raw {
		name, encoded, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--var %q: expected name=value", kv)
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(encoded)))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("--var %q: %w", kv, err)
		}
		out[name] = normalizeNumber(v)
	}
	return out, nil
}

// normalizeNumber resolves json.Number into an int64 when it carries no
// fractional or exponent part, a float64 otherwise, recursing through
// slices and maps so nested values get the same treatment.
func normalizeNumber(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if i, err := t.Int64(); err == nil {
				return i
			}
		}
		f, _ := t.Float64()
		return f
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeNumber(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = normalizeNumber(e)
		}
		return out
	default:
		return v
	}
}

// inferType guesses the static type of a native Go value decoded by
// parseVarFlags, for declaring it to an Env before compilation. Nested
// collections default to dyn-elements since a single sample value can't
// establish a uniform element type the way a schema would.
func inferType(v interface{}) *types.Type {
	switch v.(type) {
	case nil:
		return types.Null
	case bool:
		return types.Bool
	case int64:
		return types.Int
	case float64:
		return types.Double
	case string:
		return types.String
	case []interface{}:
		return types.NewList(types.Dyn)
	case map[string]interface{}:
		return types.NewMap(types.String, types.Dyn)
	default:
		return types.Dyn
	}
}
