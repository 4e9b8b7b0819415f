package values

import (
	"bytes"
	"math"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
)

// propagateNonValue returns the absorbing non-value state for a binary
// operation given both operand results, or (nil, false) if neither
// operand is error/unknown. Error wins over unknown (spec §4.6/§7/§8
// "Error over Unknown"); concurrent unknowns merge by attribute-id union.
func propagateNonValue(id ast.ExprID, a, b Value) (Value, bool) {
	ae, aIsErr := a.(*ErrorValue)
	be, bIsErr := b.(*ErrorValue)
	if aIsErr {
		return ae, true
	}
	if bIsErr {
		return be, true
	}
	au, aIsUnk := a.(*UnknownValue)
	bu, bIsUnk := b.(*UnknownValue)
	if aIsUnk && bIsUnk {
		return MergeUnknowns(au, bu), true
	}
	if aIsUnk {
		return au, true
	}
	if bIsUnk {
		return bu, true
	}
	return nil, false
}

// Equal implements CEL equality: cross-numeric types compare by numeric
// value, error/unknown propagate, and equality between incompatible
// kinds is false rather than an error (spec §4.6, §8).
func Equal(id ast.ExprID, a, b Value) Value {
	if nv, ok := propagateNonValue(id, a, b); ok {
		return nv
	}
	eq, comparable := rawEqual(a, b)
	if !comparable {
		return False
	}
	return Bool(eq)
}

// NotEqual is Equal negated, with the same propagation semantics.
func NotEqual(id ast.ExprID, a, b Value) Value {
	r := Equal(id, a, b)
	if b, ok := r.(BoolValue); ok {
		return Bool(!bool(b))
	}
	return r
}

func rawEqual(a, b Value) (eq bool, comparable bool) {
	switch av := a.(type) {
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv, ok
	case IntValue:
		switch bv := b.(type) {
		case IntValue:
			return av == bv, true
		case UintValue:
			return int64(av) >= 0 && uint64(av) == uint64(bv), true
		case DoubleValue:
			return float64(av) == float64(bv), true
		}
		return false, false
	case UintValue:
		switch bv := b.(type) {
		case UintValue:
			return av == bv, true
		case IntValue:
			return int64(bv) >= 0 && uint64(bv) == uint64(av), true
		case DoubleValue:
			return float64(av) == float64(bv), true
		}
		return false, false
	case DoubleValue:
		switch bv := b.(type) {
		case DoubleValue:
			return float64(av) == float64(bv), true
		case IntValue:
			return float64(av) == float64(bv), true
		case UintValue:
			return float64(av) == float64(bv), true
		}
		return false, false
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv, ok
	case BytesValue:
		bv, ok := b.(BytesValue)
		return ok && bytes.Equal(av, bv), ok
	case NullValue:
		_, ok := b.(NullValue)
		return ok, ok
	case EnumValue:
		switch bv := b.(type) {
		case EnumValue:
			return av.TypeName == bv.TypeName && av.Value == bv.Value, true
		case IntValue:
			return av.Value == int64(bv), true
		}
		return false, false
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false, ok
		}
		for i := range av.Elements {
			eq, cmp := rawEqual(av.Elements[i], bv.Elements[i])
			if !cmp || !eq {
				return false, true
			}
		}
		return true, true
	case *MapValue:
		bv, ok := b.(*MapValue)
		if !ok || av.Len() != bv.Len() {
			return false, ok
		}
		for i, k := range av.Keys {
			other, found := bv.Get(k)
			if !found {
				return false, true
			}
			eq, cmp := rawEqual(av.vals[i], other)
			if !cmp || !eq {
				return false, true
			}
		}
		return true, true
	case *StructValue:
		bv, ok := b.(*StructValue)
		if !ok || av.TypeName != bv.TypeName {
			return false, ok && av.TypeName == bv.TypeName
		}
		if len(av.Fields) != len(bv.Fields) {
			return false, true
		}
		for k, v := range av.Fields {
			other, found := bv.Fields[k]
			if !found {
				return false, true
			}
			eq, cmp := rawEqual(v, other)
			if !cmp || !eq {
				return false, true
			}
		}
		return true, true
	case DurationValue:
		bv, ok := b.(DurationValue)
		return ok && av == bv, ok
	case TimestampValue:
		bv, ok := b.(TimestampValue)
		return ok && av == bv, ok
	case *OptionalValue:
		bv, ok := b.(*OptionalValue)
		if !ok || av.HasValue != bv.HasValue {
			return false, ok
		}
		if !av.HasValue {
			return true, true
		}
		return rawEqual(av.Val, bv.Val)
	}
	return false, false
}

// CompareResult is the outcome of Compare: one of Less, EqualOrdering,
// Greater, or an error for NaN/incomparable operands.
type CompareResult int

const (
	Less CompareResult = iota - 1
	EqualOrdering
	Greater
)

// Compare implements CEL ordering: numeric cross-comparison, lexical
// bytes/strings, and NaN producing an error rather than a boolean
// (spec §4.6 "Ordering").
func Compare(id ast.ExprID, a, b Value) (CompareResult, Value) {
	if nv, ok := propagateNonValue(id, a, b); ok {
		return 0, nv
	}
	switch av := a.(type) {
	case IntValue:
		switch bv := b.(type) {
		case IntValue:
			return compareOrdered(int64(av), int64(bv)), nil
		case UintValue:
			return compareFloat(float64(av), float64(bv)), nil
		case DoubleValue:
			if math.IsNaN(float64(bv)) {
				return 0, NewError(id, "NaN is not comparable")
			}
			return compareFloat(float64(av), float64(bv)), nil
		}
	case UintValue:
		switch bv := b.(type) {
		case UintValue:
			return compareOrdered(uint64(av), uint64(bv)), nil
		case IntValue:
			return compareFloat(float64(av), float64(bv)), nil
		case DoubleValue:
			if math.IsNaN(float64(bv)) {
				return 0, NewError(id, "NaN is not comparable")
			}
			return compareFloat(float64(av), float64(bv)), nil
		}
	case DoubleValue:
		if math.IsNaN(float64(av)) {
			return 0, NewError(id, "NaN is not comparable")
		}
		switch bv := b.(type) {
		case DoubleValue:
			if math.IsNaN(float64(bv)) {
				return 0, NewError(id, "NaN is not comparable")
			}
			return compareFloat(float64(av), float64(bv)), nil
		case IntValue, UintValue:
			return compareFloat(float64(av), toFloat(bv)), nil
		}
	case StringValue:
		if bv, ok := b.(StringValue); ok {
			return compareOrdered(string(av), string(bv)), nil
		}
	case BytesValue:
		if bv, ok := b.(BytesValue); ok {
			return CompareResult(bytes.Compare(av, bv)), nil
		}
	case DurationValue:
		if bv, ok := b.(DurationValue); ok {
			return compareOrdered(av.Nanos, bv.Nanos), nil
		}
	case TimestampValue:
		if bv, ok := b.(TimestampValue); ok {
			return compareOrdered(av.Nanos, bv.Nanos), nil
		}
	}
	return 0, NewError(id, "no such overload: comparison between %T and %T", a, b)
}

func toFloat(v Value) float64 {
	switch t := v.(type) {
	case IntValue:
		return float64(t)
	case UintValue:
		return float64(t)
	case DoubleValue:
		return float64(t)
	}
	return math.NaN()
}

func compareFloat(a, b float64) CompareResult {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return EqualOrdering
	}
}

func compareOrdered[T int64 | uint64 | string](a, b T) CompareResult {
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return EqualOrdering
	}
}
