package jsonschemaprovider

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/taichimaeda/cel-ts-sub000/common/provider"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// Provider is a common/provider.TypeProvider backed by one or more JSON
// Schema documents, compiled with santhosh-tekuri/jsonschema/v6. Each
// object schema encountered (at the root or nested) registers a struct
// type under its `$id`, or under a dotted path derived from where it
// appears if it carries no `$id` of its own.
//
// JSON Schema has no concept of a discrete enum *type* — its `enum`
// keyword only restricts a scalar's literal values — so FindEnumType and
// FindEnumValue always report not-found; a `const`/`enum`-restricted
// field is still typed as its underlying scalar. Likewise JSON Schema
// has no proto concept and no oneof, so FieldProtoType always reports
// not-found and FieldIsOneof is always false. FieldHasPresence reports
// true for every field NOT listed in the enclosing object's `required`,
// mirroring proto3's "optional" presence semantics for the fields a
// schema author chose to make optional.
type Provider struct {
	compiler   *jsonschema.Compiler
	types      map[string]*declType
	fieldOrder map[string][]string
}

// New returns a Provider with no schemas registered yet.
func New() *Provider {
	return &Provider{
		compiler:   jsonschema.NewCompiler(),
		types:      map[string]*declType{},
		fieldOrder: map[string][]string{},
	}
}

// AddResource makes a JSON Schema document (already unmarshaled into
// Go's generic interface{} shape, e.g. via encoding/json.Unmarshal or
// yaml.v3) available to later Compile calls under url, the same
// identifier the schema's own `$ref`s resolve against.
func (p *Provider) AddResource(url string, doc interface{}) error {
	if err := p.compiler.AddResource(url, doc); err != nil {
		return fmt.Errorf("jsonschemaprovider: adding resource %s: %w", url, err)
	}
	return nil
}

// Compile resolves the schema registered under url and converts it (and
// every object schema reachable from it) into struct declarations this
// Provider can answer FindStructType/FindStructFieldType/etc. for. name
// is the CEL-facing type name to register the root schema under when
// the schema itself carries no `$id`.
func (p *Provider) Compile(url, name string) (*types.Type, error) {
	compiled, err := p.compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("jsonschemaprovider: compiling %s: %w", url, err)
	}
	decl := convertSchema(p, wrap(compiled), name)
	return decl.typ, nil
}

func (p *Provider) register(name string, decl *declType) {
	p.types[name] = decl
}

func (p *Provider) FindStructType(name string) (*types.Type, bool) {
	decl, ok := p.types[name]
	if !ok {
		return nil, false
	}
	return decl.typ, true
}

func (p *Provider) FindEnumType(string) (*types.Type, bool) {
	return nil, false
}

func (p *Provider) FindStructFieldType(structType, field string) (*types.Type, bool) {
	decl, ok := p.types[structType]
	if !ok {
		return nil, false
	}
	fi, ok := decl.fields[field]
	if !ok {
		return nil, false
	}
	return fi.typ, true
}

func (p *Provider) StructFieldNames(structType string) ([]string, bool) {
	names, ok := p.fieldOrder[structType]
	return names, ok
}

func (p *Provider) FindEnumValue(string, string) (int64, bool) {
	return 0, false
}

func (p *Provider) FieldProtoType(string, string) (string, bool) {
	return "", false
}

func (p *Provider) FieldIsOneof(string, string) bool {
	return false
}

func (p *Provider) FieldHasPresence(structType, field string) bool {
	decl, ok := p.types[structType]
	if !ok {
		return false
	}
	fi, ok := decl.fields[field]
	if !ok {
		return false
	}
	return !fi.required
}

func (p *Provider) FindStructFieldDefaultValue(structType, field string) (values.Value, bool) {
	decl, ok := p.types[structType]
	if !ok {
		return nil, false
	}
	fi, ok := decl.fields[field]
	if !ok || !fi.hasDefault {
		return nil, false
	}
	return fi.defaultVal, true
}

var _ provider.TypeProvider = (*Provider)(nil)
