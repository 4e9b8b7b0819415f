package decls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taichimaeda/cel-ts-sub000/common/types"
)

func TestScopesShadowing(t *testing.T) {
	s := NewScopes()
	s.AddVariable(&VariableDecl{Name: "x", Type: types.Int})

	s.EnterScope()
	s.AddVariable(&VariableDecl{Name: "x", Type: types.String})

	v, ok := s.FindVariable("x")
	require.True(t, ok)
	assert.True(t, v.Type.Equal(types.String), "inner scope shadows outer")

	s.ExitScope()
	v, ok = s.FindVariable("x")
	require.True(t, ok)
	assert.True(t, v.Type.Equal(types.Int), "outer binding restored after ExitScope")
}

func TestScopesExitScopeNoopAtRoot(t *testing.T) {
	s := NewScopes()
	s.AddVariable(&VariableDecl{Name: "only", Type: types.Bool})
	s.ExitScope()
	_, ok := s.FindVariable("only")
	assert.True(t, ok, "ExitScope must not pop the root layer")
}

func TestScopesFindConstantOuterWalk(t *testing.T) {
	s := NewScopes()
	s.AddConstant(&ConstantDecl{Name: "ANSWER", Type: types.Int})
	s.EnterScope()
	s.EnterScope()
	c, ok := s.FindConstant("ANSWER")
	require.True(t, ok)
	assert.Equal(t, "ANSWER", c.Name)
}

func TestScopesAddFunctionMergesWithOuter(t *testing.T) {
	s := NewScopes()
	outer := NewFunctionDecl("size")
	require.NoError(t, outer.AddOverload(&Overload{ID: "size_list", ArgTypes: []*types.Type{types.NewList(types.Dyn)}, ResultType: types.Int}))
	require.NoError(t, s.AddFunction(outer))

	s.EnterScope()
	inner := NewFunctionDecl("size")
	require.NoError(t, inner.AddOverload(&Overload{ID: "size_string", ArgTypes: []*types.Type{types.String}, ResultType: types.Int}))
	require.NoError(t, s.AddFunction(inner))

	merged, ok := s.FindFunction("size")
	require.True(t, ok)
	assert.Len(t, merged.Overloads(), 2, "inner declaration must additively merge outer overloads")

	s.ExitScope()
	outerAgain, ok := s.FindFunction("size")
	require.True(t, ok)
	assert.Len(t, outerAgain.Overloads(), 1, "popping the inner scope must not leak its overload into the outer copy")
}

func TestScopesCloneIndependence(t *testing.T) {
	s := NewScopes()
	s.AddVariable(&VariableDecl{Name: "x", Type: types.Int})

	clone := s.Clone()
	clone.AddVariable(&VariableDecl{Name: "y", Type: types.String})

	_, ok := s.FindVariable("y")
	assert.False(t, ok, "mutating a clone must not affect the original")

	_, ok = clone.FindVariable("x")
	assert.True(t, ok, "clone must retain the original's bindings")
}
