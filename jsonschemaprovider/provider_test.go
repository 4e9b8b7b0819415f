package jsonschemaprovider

import (
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	celpkg "github.com/taichimaeda/cel-ts-sub000/cel"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

func unmarshalJSON(src string) (interface{}, error) {
	return jsonschema.UnmarshalJSON(strings.NewReader(src))
}

const personSchema = `{
	"$id": "Person",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "default": 0},
		"nickname": {"type": "string"}
	}
}`

func newPersonProvider(t *testing.T) (*Provider, *types.Type) {
	t.Helper()
	p := New()
	require.NoError(t, p.AddResource("Person.json", decodeJSON(t, personSchema)))
	typ, err := p.Compile("Person.json", "Person")
	require.NoError(t, err)
	return p, typ
}

func decodeJSON(t *testing.T, src string) interface{} {
	t.Helper()
	doc, err := unmarshalJSON(src)
	require.NoError(t, err)
	return doc
}

func TestFindStructType(t *testing.T) {
	p, typ := newPersonProvider(t)
	found, ok := p.FindStructType("Person")
	require.True(t, ok)
	assert.Equal(t, typ.TypeName(), found.TypeName())
	assert.Equal(t, types.KindStruct, found.Kind())
}

func TestFindStructFieldType(t *testing.T) {
	p, _ := newPersonProvider(t)

	nameType, ok := p.FindStructFieldType("Person", "name")
	require.True(t, ok)
	assert.Equal(t, types.String, nameType)

	ageType, ok := p.FindStructFieldType("Person", "age")
	require.True(t, ok)
	assert.Equal(t, types.Int, ageType)

	_, ok = p.FindStructFieldType("Person", "nonexistent")
	assert.False(t, ok)
}

func TestStructFieldNames(t *testing.T) {
	p, _ := newPersonProvider(t)
	names, ok := p.StructFieldNames("Person")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"name", "age", "nickname"}, names)
}

func TestFieldHasPresence(t *testing.T) {
	p, _ := newPersonProvider(t)
	assert.False(t, p.FieldHasPresence("Person", "name"), "required fields have no optional presence")
	assert.True(t, p.FieldHasPresence("Person", "nickname"), "non-required fields behave like proto3 optional")
}

func TestFindStructFieldDefaultValue(t *testing.T) {
	p, _ := newPersonProvider(t)
	dv, ok := p.FindStructFieldDefaultValue("Person", "age")
	require.True(t, ok)
	assert.Equal(t, values.DoubleValue(0), dv)

	_, ok = p.FindStructFieldDefaultValue("Person", "name")
	assert.False(t, ok)
}

func TestEnumAndProtoAreAlwaysNotFound(t *testing.T) {
	p, _ := newPersonProvider(t)
	_, ok := p.FindEnumType("Person")
	assert.False(t, ok)
	_, ok = p.FindEnumValue("Person", "name")
	assert.False(t, ok)
	_, ok = p.FieldProtoType("Person", "name")
	assert.False(t, ok)
	assert.False(t, p.FieldIsOneof("Person", "name"))
}

// Integration: a schema-declared struct type-checks and evaluates field
// selection through the cel package exactly like an explicitly declared
// decls.StructDecl.
func TestWiredIntoEnv(t *testing.T) {
	p, _ := newPersonProvider(t)

	env, err := celpkg.NewEnv(
		celpkg.CustomTypeProvider(p),
		celpkg.Variable("person", types.NewStruct("Person")),
	)
	require.NoError(t, err)

	a, cerr := env.Compile(`person.name == "Ada"`)
	require.Nil(t, cerr, "%v", cerr)

	prog := env.Program(a)
	result, everr := prog.Eval(map[string]interface{}{
		"person": map[string]interface{}{"name": "Ada", "age": 36},
	})
	require.Nil(t, everr)
	assert.Equal(t, values.True, result)
}
