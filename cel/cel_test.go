package cel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

func mustCompile(t *testing.T, env *Env, src string) *Ast {
	t.Helper()
	a, err := env.Compile(src)
	require.Nil(t, err, "%v", err)
	return a
}

// Scenario 1: Env {x:int}, expression x + 1, input {x:2} -> int 3.
func TestScenarioVariableArithmetic(t *testing.T) {
	env, err := NewEnv(Variable("x", types.Int))
	require.NoError(t, err)

	a := mustCompile(t, env, "x + 1")
	prog := env.Program(a)
	result, evalErr := prog.Eval(map[string]interface{}{"x": 2})
	require.Nil(t, evalErr)
	assert.Equal(t, values.IntValue(3), result)
}

// Scenario 2: Env with constant ANSWER:int=42, expression ANSWER + 1, no
// input -> int 43.
func TestScenarioConstantFolding(t *testing.T) {
	env, err := NewEnv(Constant("ANSWER", types.Int, values.IntValue(42)))
	require.NoError(t, err)

	a := mustCompile(t, env, "ANSWER + 1")
	prog := env.Program(a)
	result, evalErr := prog.Eval(nil)
	require.Nil(t, evalErr)
	assert.Equal(t, values.IntValue(43), result)
}

// Scenario 3: Env {nums:list(int)}, expression nums.exists(n, n % 2 ==
// 0), input {nums:[1,3,4]} -> bool true.
func TestScenarioExistsMacro(t *testing.T) {
	env, err := NewEnv(Variable("nums", types.NewList(types.Int)))
	require.NoError(t, err)

	a := mustCompile(t, env, "nums.exists(n, n % 2 == 0)")
	prog := env.Program(a)
	result, evalErr := prog.Eval(map[string]interface{}{
		"nums": []interface{}{1, 3, 4},
	})
	require.Nil(t, evalErr)
	assert.Equal(t, values.True, result)
}

// Scenario 4: Env declaring struct Person{name:string, age:int},
// expression person.age >= 21 && person.name != "", input
// {person:{name:"Ada", age:36}} -> bool true.
func TestScenarioStructFieldAccess(t *testing.T) {
	env, err := NewEnv(
		StructType("Person",
			decls.Field{Name: "name", Type: types.String},
			decls.Field{Name: "age", Type: types.Int},
		),
		Variable("person", types.NewStruct("Person")),
	)
	require.NoError(t, err)

	a := mustCompile(t, env, `person.age >= 21 && person.name != ""`)
	prog := env.Program(a)
	result, evalErr := prog.Eval(map[string]interface{}{
		"person": map[string]interface{}{"name": "Ada", "age": 36},
	})
	require.Nil(t, evalErr)
	assert.Equal(t, values.True, result)
}

// Scenario 5: Env {x:bool, y:bool}, expression x && y, with a partial
// activation marking x and y unknown -> unknown.
func TestScenarioPartialActivationYieldsUnknown(t *testing.T) {
	env, err := NewEnv(Variable("x", types.Bool), Variable("y", types.Bool))
	require.NoError(t, err)

	a := mustCompile(t, env, "x && y")
	prog := env.Program(a)

	var nextAttr int64
	unknownNames := map[string]bool{"x": true, "y": true}
	act := interpreter.NewPartialActivation(interpreter.Empty, unknownNames, func() int64 {
		nextAttr++
		return nextAttr
	})
	result, evalErr := prog.Eval(act)
	require.Nil(t, evalErr)
	assert.True(t, values.IsUnknown(result))
}

// Scenario 6: Expression 1/0 at compile succeeds (types check); at eval
// -> error "division by zero".
func TestScenarioDivisionByZeroErrorsAtEvalOnly(t *testing.T) {
	env, err := NewEnv()
	require.NoError(t, err)

	a, compileErr := env.Compile("1 / 0")
	require.Nil(t, compileErr)

	prog := env.Program(a)
	result, evalErr := prog.Eval(nil)
	require.NotNil(t, evalErr)
	assert.Contains(t, evalErr.Message, "division by zero")
	assert.True(t, values.IsError(result))
}

// Scenario 7: Expression [1,2,3].map(i, i*i).filter(i, i>4) -> list [9].
func TestScenarioMapThenFilter(t *testing.T) {
	env, err := NewEnv()
	require.NoError(t, err)

	a := mustCompile(t, env, "[1,2,3].map(i, i*i).filter(i, i>4)")
	prog := env.Program(a)
	result, evalErr := prog.Eval(nil)
	require.Nil(t, evalErr)

	list, ok := result.(*values.ListValue)
	require.True(t, ok, "expected a list result, got %T", result)
	require.Len(t, list.Elements, 1)
	assert.Equal(t, values.IntValue(9), list.Elements[0])
}

func TestExtendIndependence(t *testing.T) {
	parent, err := NewEnv()
	require.NoError(t, err)

	child, err := parent.Extend(Variable("x", types.Int))
	require.NoError(t, err)

	_, childErr := child.Compile("x + 1")
	require.Nil(t, childErr)

	_, parentErr := parent.Compile("x + 1")
	require.NotNil(t, parentErr, "parent should not see the child's declaration")
}

func TestUserDefinedFunction(t *testing.T) {
	env, err := NewEnv(Function("double",
		FunctionOverload{
			ID:         "double_int",
			ArgTypes:   []*types.Type{types.Int},
			ResultType: types.Int,
			Unary: func(id ast.ExprID, arg values.Value) values.Value {
				return values.IntValue(2 * int64(arg.(values.IntValue)))
			},
		},
	))
	require.NoError(t, err)

	a := mustCompile(t, env, "double(21)")
	prog := env.Program(a)
	result, evalErr := prog.Eval(nil)
	require.Nil(t, evalErr)
	assert.Equal(t, values.IntValue(42), result)
}
