package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

func constOf(id ast.ExprID, v values.Value) Interpretable {
	return &constNode{baseNode{id}, v}
}

// fnNode wraps an arbitrary closure as an Interpretable, used in tests to
// hand-assemble a comprehension's condition/step without a full planner.
type fnNode struct {
	id ast.ExprID
	fn func(Activation) values.Value
}

func (n *fnNode) ID() ast.ExprID             { return n.id }
func (n *fnNode) Eval(act Activation) values.Value { return n.fn(act) }

func TestShortCircuitAndAbsorbsError(t *testing.T) {
	falseLit := constOf(1, values.False)
	errLit := constOf(2, values.NewError(2, "boom"))
	n := &andNode{baseNode{3}, falseLit, errLit}

	got := n.Eval(Empty)
	assert.Equal(t, values.False, got, "False && anything must be False even if anything errors")
}

func TestShortCircuitOrAbsorbsUnknown(t *testing.T) {
	trueLit := constOf(1, values.True)
	unk := constOf(2, values.NewUnknown(2))
	n := &orNode{baseNode{3}, trueLit, unk}

	got := n.Eval(Empty)
	assert.Equal(t, values.True, got, "True || anything must be True even if anything is unknown")
}

func TestAndPropagatesErrorOverUnknownWhenNeitherShortCircuits(t *testing.T) {
	unk := constOf(1, values.NewUnknown(1))
	errVal := values.NewError(2, "boom")
	errLit := constOf(2, errVal)
	n := &andNode{baseNode{3}, unk, errLit}

	got := n.Eval(Empty)
	assert.Same(t, errVal, got)
}

func TestTernarySelectsOnlyOneBranch(t *testing.T) {
	cond := constOf(1, values.True)
	then := constOf(2, values.IntValue(1))
	els := constOf(3, values.NewError(3, "must not evaluate"))
	n := &ternaryNode{baseNode{4}, cond, then, els}

	got := n.Eval(Empty)
	assert.Equal(t, values.IntValue(1), got)
}

func TestTernaryPropagatesConditionError(t *testing.T) {
	errVal := values.NewError(1, "bad cond")
	cond := constOf(1, errVal)
	then := constOf(2, values.IntValue(1))
	els := constOf(3, values.IntValue(2))
	n := &ternaryNode{baseNode{4}, cond, then, els}

	got := n.Eval(Empty)
	assert.Same(t, errVal, got)
}

func TestEqualityCrossNumeric(t *testing.T) {
	n := &equalityNode{baseNode{1}, constOf(2, values.IntValue(3)), constOf(3, values.DoubleValue(3.0)), false}
	assert.Equal(t, values.True, n.Eval(Empty))
}

func TestIndexListOutOfBounds(t *testing.T) {
	list := &values.ListValue{Elements: []values.Value{values.IntValue(1)}}
	n := &indexNode{baseNode{1}, constOf(2, list), constOf(3, values.IntValue(5)), false}
	got := n.Eval(Empty)
	require.True(t, values.IsError(got))
}

func TestIndexErrorContainerPropagatesOverValidKey(t *testing.T) {
	errVal := values.NewError(1, "bad container")
	n := &indexNode{baseNode{2}, constOf(1, errVal), constOf(3, values.IntValue(0)), false}
	got := n.Eval(Empty)
	assert.Same(t, errVal, got)
}

func TestIndexErrorKeyPropagatesOverValidContainer(t *testing.T) {
	list := &values.ListValue{Elements: []values.Value{values.IntValue(1)}}
	errVal := values.NewError(1, "bad key")
	n := &indexNode{baseNode{2}, constOf(1, list), constOf(3, errVal), false}
	got := n.Eval(Empty)
	assert.Same(t, errVal, got)
}

func TestOptIndexMissingKeyIsNoneNotError(t *testing.T) {
	m := values.NewMap(nil, nil, []values.Value{values.StringValue("a")}, []values.Value{values.IntValue(1)})
	n := &indexNode{baseNode{1}, constOf(2, m), constOf(3, values.StringValue("missing")), true}
	got := n.Eval(Empty)
	opt, ok := got.(*values.OptionalValue)
	require.True(t, ok)
	assert.False(t, opt.HasValue)
}

func TestComprehensionExistsStopsEarly(t *testing.T) {
	// Manually wires the exists(v,p) desugaring over [1,4,3] looking for
	// an even element; must stop as soon as it finds one.
	list := &values.ListValue{ElemType: nil, Elements: []values.Value{values.IntValue(1), values.IntValue(4), values.IntValue(3)}}

	rangeNode := constOf(1, list)
	accuInit := constOf(2, values.False)

	evalCount := 0
	predicate := &fnNode{id: 3, fn: func(act Activation) values.Value {
		evalCount++
		v, _ := act.Resolve("n")
		n := int64(v.(values.IntValue))
		return values.Bool(n%2 == 0)
	}}

	cond := &fnNode{id: 4, fn: func(act Activation) values.Value {
		v, _ := act.Resolve("accu")
		b := bool(v.(values.BoolValue))
		return values.Bool(!b)
	}}
	step := &fnNode{id: 5, fn: func(act Activation) values.Value {
		av, _ := act.Resolve("accu")
		pv := predicate.Eval(act)
		return values.Bool(bool(av.(values.BoolValue)) || bool(pv.(values.BoolValue)))
	}}
	result := &varNode{baseNode{6}, "accu"}

	comp := &comprehensionNode{
		baseNode:      baseNode{7},
		iterRange:     rangeNode,
		iterVar:       "n",
		accuVar:       "accu",
		accuInit:      accuInit,
		loopCondition: cond,
		loopStep:      step,
		result:        result,
	}

	got := comp.Eval(Empty)
	assert.Equal(t, values.True, got)
	assert.Equal(t, 2, evalCount, "must stop after the first even element (4 at index 1), not evaluate index 2 too")
}

func TestComprehensionPropagatesRangeErrorWithoutLooping(t *testing.T) {
	errVal := values.NewError(1, "bad range")
	comp := &comprehensionNode{
		baseNode:  baseNode{2},
		iterRange: constOf(1, errVal),
		iterVar:   "n",
		accuVar:   "accu",
		accuInit:  constOf(3, values.False),
		loopCondition: &fnNode{id: 4, fn: func(Activation) values.Value {
			t.Fatal("loop condition must not be evaluated when the range itself errors")
			return nil
		}},
		loopStep: constOf(5, values.False),
		result:   constOf(6, values.False),
	}
	got := comp.Eval(Empty)
	assert.Same(t, errVal, got)
}

func TestDispatcherArityRouting(t *testing.T) {
	d := NewDispatcher()
	d.Register("add_int_int", Binding{
		Binary: func(id ast.ExprID, lhs, rhs values.Value) values.Value {
			return values.IntValue(int64(lhs.(values.IntValue)) + int64(rhs.(values.IntValue)))
		},
		Pure: true,
	})
	node := &dispatchNode{baseNode{1}, []string{"add_int_int"}, []Interpretable{constOf(2, values.IntValue(2)), constOf(3, values.IntValue(3))}, d}
	got := node.Eval(Empty)
	assert.Equal(t, values.IntValue(5), got)
	assert.True(t, d.IsPure([]string{"add_int_int"}))
}
