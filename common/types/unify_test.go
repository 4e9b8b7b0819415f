package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignable(t *testing.T) {
	tests := []struct {
		name  string
		param *Type
		arg   *Type
		want  bool
	}{
		{"identical primitives", Int, Int, true},
		{"dyn absorbs anything", Dyn, NewList(String), true},
		{"anything absorbs dyn", NewList(String), Dyn, true},
		{"error absorbs anything", Error, Int, true},
		{"null into struct", NewStruct("pkg.Foo"), Null, true},
		{"null into duration", Duration, Null, true},
		{"null not into int", Int, Null, false},
		{"enum into int", NewOpaque("pkg.Color"), Int, true},
		{"mismatched kind", Int, String, false},
		{"list element recurse ok", NewList(Int), NewList(Int), true},
		{"list element recurse fail", NewList(Int), NewList(String), false},
		{"map pairwise", NewMap(String, Int), NewMap(String, Int), true},
		{"struct name mismatch", NewStruct("pkg.A"), NewStruct("pkg.B"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMapping()
			assert.Equal(t, tc.want, Assignable(m, tc.param, tc.arg))
		})
	}
}

func TestAssignableTypeParamBinding(t *testing.T) {
	m := NewMapping()
	tp := NewTypeParam("T")
	require.True(t, Assignable(m, tp, Int))
	bound, ok := m.Resolve("T")
	require.True(t, ok)
	assert.True(t, bound.Equal(Int))

	// Once bound, T must agree with further uses.
	assert.True(t, Assignable(m, tp, Int))
	assert.False(t, Assignable(m, tp, String))
}

func TestAssignableOccursCheck(t *testing.T) {
	m := NewMapping()
	tp := NewTypeParam("T")
	// Binding T to list(T) would be cyclic.
	assert.False(t, Assignable(m, tp, NewList(tp)))
}

func TestSubstitute(t *testing.T) {
	m := NewMapping()
	tp := NewTypeParam("T")
	require.True(t, Assignable(m, tp, String))
	got := Substitute(m, NewList(tp))
	assert.True(t, got.Equal(NewList(String)))
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		a, b *Type
		want *Type
	}{
		{"equal", Int, Int, Int},
		{"dyn dominates", Dyn, Int, Dyn},
		{"error dominates", Error, Int, Error},
		{"null with nullable", Null, Duration, Duration},
		{"mismatched kinds widen to dyn", Int, String, Dyn},
		{"list element-wise", NewList(Int), NewList(Int), NewList(Int)},
		{"list element mismatch widens param", NewList(Int), NewList(String), NewList(Dyn)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Join(tc.a, tc.b)
			assert.True(t, got.Equal(tc.want), "Join(%v,%v) = %v, want %v", tc.a, tc.b, got, tc.want)
		})
	}
}

func TestKindHelpers(t *testing.T) {
	assert.True(t, NewOpaque("pkg.Color").IsEnum())
	assert.False(t, NewOptional(Int).IsEnum())
	assert.True(t, NewOptional(Int).IsOptional())
	assert.True(t, Duration.IsNullable())
	assert.False(t, Int.IsNullable())
}
