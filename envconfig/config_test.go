package envconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	celpkg "github.com/taichimaeda/cel-ts-sub000/cel"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

const sampleConfig = `
container: myapp
structTypes:
  - name: Person
    fields:
      - name: name
        type: string
      - name: age
        type: int
variables:
  - name: person
    type: Person
  - name: tags
    type: list(string)
constants:
  - name: ANSWER
    type: int
    value: 42
`

func TestLoadAndApply(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "myapp", cfg.Container)

	opts, err := cfg.ToEnvOptions()
	require.NoError(t, err)

	env, err := celpkg.NewEnv(opts...)
	require.NoError(t, err)

	a, cerr := env.Compile(`person.age >= 21 && ANSWER == 42`)
	require.Nil(t, cerr, "%v", cerr)

	prog := env.Program(a)
	result, everr := prog.Eval(map[string]interface{}{
		"person": map[string]interface{}{"name": "Ada", "age": 36},
	})
	require.Nil(t, everr)
	assert.Equal(t, values.True, result)
}

func TestParseTypeCollections(t *testing.T) {
	lt, err := parseType("list(int)")
	require.NoError(t, err)
	assert.Equal(t, "int", lt.Params()[0].TypeName())

	mt, err := parseType("map(string,double)")
	require.NoError(t, err)
	assert.Len(t, mt.Params(), 2)
}

func TestParseTypeUnknownNameIsStruct(t *testing.T) {
	typ, err := parseType("Widget")
	require.NoError(t, err)
	assert.Equal(t, "Widget", typ.TypeName())
}
