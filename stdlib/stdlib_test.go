package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	celast "github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/checker"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

func newEnvWithStdlib(t *testing.T) *checker.Env {
	t.Helper()
	env := checker.NewEnv()
	require.NoError(t, AddToScopes(env.Scopes))
	return env
}

func newDispatcher() *interpreter.Dispatcher {
	d := interpreter.NewDispatcher()
	RegisterDispatcher(d)
	return d
}

func checkAndEval(t *testing.T, env *checker.Env, root celast.Expr, act interpreter.Activation) values.Value {
	t.Helper()
	tree := celast.NewAST(root, celast.NewSourceInfo("test", ""))
	issues := checker.Check(env, tree)
	require.False(t, issues.HasErrors(), "%v", issues.All())
	program := interpreter.Plan(tree, newDispatcher(), nil)
	return program.Eval(act)
}

func intLit(id int64, v int64) celast.Expr {
	return celast.NewLiteral(celast.ExprID(id), celast.Literal{Kind: celast.LitInt, Int: v})
}

func strLit(id int64, v string) celast.Expr {
	return celast.NewLiteral(celast.ExprID(id), celast.Literal{Kind: celast.LitString, Str: v})
}

func TestStdlibAddIntInt(t *testing.T) {
	env := newEnvWithStdlib(t)
	root := celast.NewCall(3, nil, "+", []celast.Expr{intLit(1, 2), intLit(2, 3)})
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.Equal(t, values.IntValue(5), got)
}

func TestStdlibAddIntIntOverflowsToError(t *testing.T) {
	env := newEnvWithStdlib(t)
	root := celast.NewCall(3, nil, "+", []celast.Expr{
		celast.NewLiteral(1, celast.Literal{Kind: celast.LitInt, Int: 9223372036854775807}),
		intLit(2, 1),
	})
	// Constant folding would evaluate this eagerly at plan time; either
	// way the result must be an ErrorValue, never a panic.
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.True(t, values.IsError(got))
}

func TestStdlibEqualsCrossNumeric(t *testing.T) {
	env := newEnvWithStdlib(t)
	root := celast.NewCall(3, nil, "==", []celast.Expr{intLit(1, 3), celast.NewLiteral(2, celast.Literal{Kind: celast.LitDouble, Double: 3.0})})
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.Equal(t, values.True, got)
}

func TestStdlibStringConcat(t *testing.T) {
	env := newEnvWithStdlib(t)
	root := celast.NewCall(3, nil, "+", []celast.Expr{strLit(1, "foo"), strLit(2, "bar")})
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.Equal(t, values.StringValue("foobar"), got)
}

func TestStdlibContainsMemberCall(t *testing.T) {
	env := newEnvWithStdlib(t)
	target := strLit(1, "hello world")
	root := celast.NewCall(2, &target, "contains", []celast.Expr{strLit(3, "world")})
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.Equal(t, values.True, got)
}

func TestStdlibSizeGlobalAndMember(t *testing.T) {
	env := newEnvWithStdlib(t)
	s := strLit(1, "hello")
	globalRoot := celast.NewCall(2, nil, "size", []celast.Expr{s})
	got := checkAndEval(t, env, globalRoot, interpreter.Empty)
	assert.Equal(t, values.IntValue(5), got)

	target := strLit(3, "hello")
	memberRoot := celast.NewCall(4, &target, "size", nil)
	got2 := checkAndEval(t, env, memberRoot, interpreter.Empty)
	assert.Equal(t, values.IntValue(5), got2)
}

func TestStdlibInList(t *testing.T) {
	env := newEnvWithStdlib(t)
	list := celast.NewList(1, []celast.Expr{intLit(2, 1), intLit(3, 2), intLit(4, 3)}, nil)
	root := celast.NewCall(5, nil, "in", []celast.Expr{intLit(6, 2), list})
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.Equal(t, values.True, got)
}

func TestStdlibIntToStringConversion(t *testing.T) {
	env := newEnvWithStdlib(t)
	root := celast.NewCall(2, nil, "string", []celast.Expr{intLit(1, 42)})
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.Equal(t, values.StringValue("42"), got)
}

func TestStdlibDurationAddTimestamp(t *testing.T) {
	env := newEnvWithStdlib(t)
	durLit := celast.NewCall(2, nil, "duration", []celast.Expr{strLit(1, "1h")})
	tsLit := celast.NewCall(4, nil, "timestamp", []celast.Expr{strLit(3, "2020-01-01T00:00:00Z")})
	root := celast.NewCall(5, nil, "+", []celast.Expr{tsLit, durLit})
	got := checkAndEval(t, env, root, interpreter.Empty)
	ts, ok := got.(values.TimestampValue)
	require.True(t, ok)
	assert.Equal(t, "2020-01-01T01:00:00Z", ts.Time().Format("2006-01-02T15:04:05Z07:00"))
}

func TestStdlibNotStrictlyFalseAbsorbsError(t *testing.T) {
	env := newEnvWithStdlib(t)
	errExpr := celast.NewCall(1, nil, "/", []celast.Expr{intLit(2, 1), intLit(3, 0)})
	root := celast.NewCall(4, nil, "@not_strictly_false", []celast.Expr{errExpr})
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.Equal(t, values.True, got, "an errored predicate must not be strictly false")
}

func TestStdlibNotStrictlyFalseOnLiteralFalse(t *testing.T) {
	env := newEnvWithStdlib(t)
	root := celast.NewCall(1, nil, "@not_strictly_false", []celast.Expr{celast.NewLiteral(2, celast.Literal{Kind: celast.LitBool, Bool: false})})
	got := checkAndEval(t, env, root, interpreter.Empty)
	assert.Equal(t, values.False, got)
}

func TestAddToScopesIsAdditiveWithUserFunctions(t *testing.T) {
	env := checker.NewEnv()
	custom := decls.NewFunctionDecl("double_it")
	require.NoError(t, custom.AddOverload(&decls.Overload{ID: "double_it_int", ArgTypes: []*types.Type{types.Int}, ResultType: types.Int}))
	require.NoError(t, env.Scopes.AddFunction(custom))
	require.NoError(t, AddToScopes(env.Scopes))

	fd, ok := env.Scopes.FindFunction("double_it")
	require.True(t, ok)
	assert.Len(t, fd.Overloads(), 1, "stdlib registration must not clobber a pre-existing user function")

	fd, ok = env.Scopes.FindFunction("+")
	require.True(t, ok)
	assert.Greater(t, len(fd.Overloads()), 1)
}
