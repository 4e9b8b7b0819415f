package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualCrossNumeric(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int==uint equal nonneg", IntValue(5), UintValue(5), true},
		{"int==uint negative never equal", IntValue(-1), UintValue(1), false},
		{"int==double", IntValue(3), DoubleValue(3.0), true},
		{"uint==double", UintValue(3), DoubleValue(3.0), true},
		{"different kinds false not error", IntValue(1), StringValue("1"), false},
		{"string equal", StringValue("a"), StringValue("a"), true},
		{"bytes equal", BytesValue("ab"), BytesValue("ab"), true},
		{"null equal", Null, Null, true},
		{"enum equals int", EnumValue{TypeName: "pkg.Color", Value: 2}, IntValue(2), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Equal(0, tc.a, tc.b)
			b, ok := got.(BoolValue)
			assert.True(t, ok, "expected bool result, got %T", got)
			assert.Equal(t, tc.want, bool(b))
		})
	}
}

func TestEqualErrorOverUnknown(t *testing.T) {
	errVal := NewError(1, "boom")
	unkVal := NewUnknown(2)

	got := Equal(0, errVal, unkVal)
	assert.Same(t, errVal, got, "error must win over unknown")

	got = Equal(0, unkVal, errVal)
	assert.Same(t, errVal, got, "error must win regardless of operand order")
}

func TestEqualUnknownMerge(t *testing.T) {
	u1 := NewUnknown(1)
	u2 := NewUnknown(2)
	got := Equal(0, u1, u2)
	u, ok := got.(*UnknownValue)
	assert.True(t, ok)
	assert.True(t, u.AttributeIDs[1])
	assert.True(t, u.AttributeIDs[2])
}

func TestCompareNaNErrors(t *testing.T) {
	_, errVal := Compare(0, DoubleValue(1), DoubleValue(nan()))
	assert.NotNil(t, errVal)
	assert.True(t, IsError(errVal))
}

func TestCompareCrossNumeric(t *testing.T) {
	res, errVal := Compare(0, IntValue(1), UintValue(2))
	assert.Nil(t, errVal)
	assert.Equal(t, Less, res)
}

func TestCompareBytesLexicographic(t *testing.T) {
	res, errVal := Compare(0, BytesValue("ab"), BytesValue("ac"))
	assert.Nil(t, errVal)
	assert.Equal(t, Less, res)
}

func nan() float64 {
	var zero float64
	return zero / zero
}
