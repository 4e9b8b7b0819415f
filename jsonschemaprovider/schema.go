// Package jsonschemaprovider adapts a santhosh-tekuri/jsonschema document
// into a common/provider.TypeProvider, so an Env can declare `struct`
// and `map` types straight from a JSON Schema document instead of
// hand-writing decls.StructDecl values (spec §6 "typeProvider?", §9
// "struct ecosystems external to the core").
package jsonschemaprovider

import (
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schema wraps a santhosh-tekuri/jsonschema.Schema with the handful of
// accessors convertSchema needs, isolating the rest of this package from
// that library's pointer-heavy, union-typed field shapes.
type schema struct {
	raw *jsonschema.Schema
}

func wrap(s *jsonschema.Schema) *schema {
	if s == nil {
		return nil
	}
	return &schema{raw: s}
}

func (s *schema) jsonType() string {
	if s.raw == nil || s.raw.Types == nil || s.raw.Types.IsEmpty() {
		return ""
	}
	return s.raw.Types.ToStrings()[0]
}

func (s *schema) items() *schema {
	if s.raw == nil {
		return nil
	}
	if s.raw.Items2020 != nil {
		return wrap(s.raw.Items2020)
	}
	switch items := s.raw.Items.(type) {
	case *jsonschema.Schema:
		return wrap(items)
	case []*jsonschema.Schema:
		if len(items) == 0 {
			return nil
		}
		return wrap(items[0])
	default:
		return nil
	}
}

func (s *schema) properties() map[string]*schema {
	if s.raw == nil || s.raw.Properties == nil {
		return nil
	}
	out := make(map[string]*schema, len(s.raw.Properties))
	for name, prop := range s.raw.Properties {
		if prop == nil {
			continue
		}
		out[name] = wrap(prop)
	}
	return out
}

func (s *schema) additionalProperties() *schema {
	if s.raw == nil {
		return nil
	}
	if propSchema, ok := s.raw.AdditionalProperties.(*jsonschema.Schema); ok {
		return wrap(propSchema)
	}
	return nil
}

func (s *schema) additionalPropertiesAllowed() *bool {
	if s.raw == nil {
		return nil
	}
	if allow, ok := s.raw.AdditionalProperties.(bool); ok {
		return &allow
	}
	return nil
}

func (s *schema) required() map[string]bool {
	out := map[string]bool{}
	if s.raw == nil {
		return out
	}
	for _, name := range s.raw.Required {
		out[name] = true
	}
	return out
}

func (s *schema) enumValues() []interface{} {
	if s.raw == nil || s.raw.Enum == nil {
		return nil
	}
	return s.raw.Enum.Values
}

func (s *schema) defaultValue() (interface{}, bool) {
	if s.raw == nil || s.raw.Default == nil {
		return nil, false
	}
	return s.raw.Default, true
}

func (s *schema) format() string {
	if s.raw == nil || s.raw.Format == nil {
		return ""
	}
	return s.raw.Format.Name
}

func (s *schema) ref() *schema {
	if s.raw == nil || s.raw.Ref == nil {
		return nil
	}
	return wrap(s.raw.Ref)
}

func (s *schema) id() string {
	if s.raw == nil {
		return ""
	}
	return s.raw.ID
}
