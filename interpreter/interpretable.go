package interpreter

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// Interpretable is a planned, directly evaluable node. The planner
// (planner.go) builds a tree of these from a checked ast.AST; Eval never
// panics for language-level errors, returning an ErrorValue instead
// (spec §4.6).
type Interpretable interface {
	ID() ast.ExprID
	Eval(act Activation) values.Value
}

type baseNode struct{ id ast.ExprID }

func (b baseNode) ID() ast.ExprID { return b.id }

// constNode evaluates to a fixed, pre-converted Value — used for
// literals and for folded pure calls (spec §4.4).
type constNode struct {
	baseNode
	val values.Value
}

func (n *constNode) Eval(Activation) values.Value { return n.val }

// varNode resolves a name against the activation, yielding an
// "undeclared reference" error on miss. A StrictActivation never misses:
// it returns its own "undeclared variable" error value, which varNode
// passes through.
type varNode struct {
	baseNode
	name string
}

func (n *varNode) Eval(act Activation) values.Value {
	if v, ok := act.Resolve(n.name); ok {
		return v
	}
	return values.NewError(n.id, "undeclared reference to %q", n.name)
}

// andNode implements short-circuit &&: false on either side wins even
// over an error/unknown on the other side (spec §4.6, §8).
type andNode struct {
	baseNode
	lhs, rhs Interpretable
}

func (n *andNode) Eval(act Activation) values.Value {
	l := n.lhs.Eval(act)
	if isFalse(l) {
		return values.False
	}
	r := n.rhs.Eval(act)
	if isFalse(r) {
		return values.False
	}
	return shortCircuitResult(l, r, values.True)
}

// orNode implements short-circuit ||: true on either side wins even over
// an error/unknown on the other side.
type orNode struct {
	baseNode
	lhs, rhs Interpretable
}

func (n *orNode) Eval(act Activation) values.Value {
	l := n.lhs.Eval(act)
	if isTrue(l) {
		return values.True
	}
	r := n.rhs.Eval(act)
	if isTrue(r) {
		return values.True
	}
	return shortCircuitResult(l, r, values.False)
}

func isFalse(v values.Value) bool { b, ok := v.(values.BoolValue); return ok && !bool(b) }
func isTrue(v values.Value) bool  { b, ok := v.(values.BoolValue); return ok && bool(b) }

// shortCircuitResult is reached only when neither operand short-circuits:
// propagate error over unknown, merge unknowns, else fall back to
// identity (both operands were the same plain bool, so the identity
// value is the correct boolean result).
func shortCircuitResult(l, r, identity values.Value) values.Value {
	if e, ok := errorOf(l, r); ok {
		return e
	}
	if u, ok := unknownOf(l, r); ok {
		return u
	}
	return identity
}

func errorOf(vs ...values.Value) (values.Value, bool) {
	for _, v := range vs {
		if values.IsError(v) {
			return v, true
		}
	}
	return nil, false
}

func unknownOf(vs ...values.Value) (values.Value, bool) {
	var unknowns []*values.UnknownValue
	for _, v := range vs {
		if u, ok := v.(*values.UnknownValue); ok {
			unknowns = append(unknowns, u)
		}
	}
	if len(unknowns) == 0 {
		return nil, false
	}
	if len(unknowns) == 1 {
		return unknowns[0], true
	}
	return values.MergeUnknowns(unknowns...), true
}

// ternaryNode evaluates the condition; an error/unknown there propagates,
// otherwise only the selected branch runs (spec §4.6).
type ternaryNode struct {
	baseNode
	cond, then, els Interpretable
}

func (n *ternaryNode) Eval(act Activation) values.Value {
	c := n.cond.Eval(act)
	if values.IsError(c) || values.IsUnknown(c) {
		return c
	}
	if isTrue(c) {
		return n.then.Eval(act)
	}
	if isFalse(c) {
		return n.els.Eval(act)
	}
	return values.NewError(n.id, "ternary condition is not bool: %s", c)
}

// equalityNode implements == / != using values.Equal/NotEqual.
type equalityNode struct {
	baseNode
	lhs, rhs Interpretable
	negate   bool
}

func (n *equalityNode) Eval(act Activation) values.Value {
	l, r := n.lhs.Eval(act), n.rhs.Eval(act)
	if n.negate {
		return values.NotEqual(n.id, l, r)
	}
	return values.Equal(n.id, l, r)
}

// notStrictlyFalseNode implements @not_strictly_false(x): true unless x
// is exactly the literal false, absorbing error/unknown into true so a
// failing predicate does not stop a comprehension's loop condition from
// evaluating (spec §4.1 macro desugaring). This needs its own node
// rather than a Dispatcher binding because dispatchNode returns on the
// first erroring argument before any binding runs.
type notStrictlyFalseNode struct {
	baseNode
	arg Interpretable
}

func (n *notStrictlyFalseNode) Eval(act Activation) values.Value {
	v := n.arg.Eval(act)
	if isFalse(v) {
		return values.False
	}
	return values.True
}

// dispatchNode evaluates its args in order and dispatches to the
// Dispatcher by overload id.
type dispatchNode struct {
	baseNode
	overloadIDs []string
	args        []Interpretable
	dispatcher  *Dispatcher
}

func (n *dispatchNode) Eval(act Activation) values.Value {
	argVals := make([]values.Value, len(n.args))
	for i, a := range n.args {
		v := a.Eval(act)
		if values.IsError(v) {
			return v
		}
		argVals[i] = v
	}
	if u, ok := unknownOf(argVals...); ok {
		return u
	}
	return n.dispatcher.Dispatch(n.id, n.overloadIDs, argVals)
}

// indexNode implements list[i] / map[k], preserving the tie-break that an
// error on either side propagates regardless of which side produced it
// (spec §4.6).
type indexNode struct {
	baseNode
	container, key Interpretable
	optional       bool
}

func (n *indexNode) Eval(act Activation) values.Value {
	c := n.container.Eval(act)
	if values.IsError(c) {
		return c
	}
	k := n.key.Eval(act)
	if values.IsError(k) {
		return k
	}
	if values.IsUnknown(c) {
		return c
	}
	if values.IsUnknown(k) {
		return k
	}

	result, missing := indexInto(n.id, c, k)
	if n.optional {
		if missing {
			return values.OptionalNone
		}
		if values.IsError(result) {
			return result
		}
		return values.OptionalOf(result)
	}
	return result
}

// indexInto performs the actual list/map lookup, reporting whether the
// key was simply absent (as opposed to any other error) for the
// optional-index variant's none-vs-error distinction.
func indexInto(id ast.ExprID, container, key values.Value) (result values.Value, missing bool) {
	switch c := container.(type) {
	case *values.ListValue:
		iv, ok := key.(values.IntValue)
		if !ok {
			return values.NewError(id, "list index must be int, got %s", key.Type()), false
		}
		i := int64(iv)
		if i < 0 || i >= int64(len(c.Elements)) {
			return values.NewError(id, "index %d out of bounds (len %d)", i, len(c.Elements)), true
		}
		return c.Elements[i], false
	case *values.MapValue:
		v, ok := c.Get(key)
		if !ok {
			return values.NewError(id, "no such key: %s", key), true
		}
		return v, false
	default:
		return values.NewError(id, "type %s does not support indexing", container.Type()), false
	}
}

// selectNode implements field access, presence tests, and optional
// navigation (spec §4.6 "Select").
type selectNode struct {
	baseNode
	operand          Interpretable
	field            string
	testOnly         bool
	optional         bool
	fieldHasPresence func(structType, field string) bool
	fieldDefault     func(structType, field string) (values.Value, bool)
}

func (n *selectNode) Eval(act Activation) values.Value {
	base := n.operand.Eval(act)
	if values.IsError(base) || values.IsUnknown(base) {
		return base
	}

	if opt, ok := base.(*values.OptionalValue); ok {
		if !opt.HasValue {
			if n.testOnly {
				return values.False
			}
			return values.OptionalNone
		}
		base = opt.Val
	}

	switch v := base.(type) {
	case *values.MapValue:
		if n.testOnly {
			_, ok := v.Get(values.StringValue(n.field))
			return values.Bool(ok)
		}
		val, ok := v.Get(values.StringValue(n.field))
		if !ok {
			if n.optional {
				return values.OptionalNone
			}
			return values.NewError(n.id, "no such key: %s", n.field)
		}
		if n.optional {
			return values.OptionalOf(val)
		}
		return val
	case *values.StructValue:
		return n.evalStructSelect(v)
	default:
		return values.NewError(n.id, "type %s does not support field selection", base.Type())
	}
}

func (n *selectNode) evalStructSelect(v *values.StructValue) values.Value {
	if n.testOnly {
		if v.Present[n.field] {
			return values.True
		}
		if n.fieldHasPresence != nil && n.fieldHasPresence(v.TypeName, n.field) {
			return values.False
		}
		_, ok := v.Fields[n.field]
		return values.Bool(ok)
	}
	val, ok := v.Fields[n.field]
	if !ok {
		if n.fieldDefault != nil {
			if def, ok := n.fieldDefault(v.TypeName, n.field); ok {
				val = def
			} else {
				return values.NewError(n.id, "undefined field %q", n.field)
			}
		} else {
			return values.NewError(n.id, "undefined field %q", n.field)
		}
	}
	if n.optional {
		return values.OptionalOf(val)
	}
	return val
}

// listNode builds a ListValue from its evaluated elements in order.
type listNode struct {
	baseNode
	elems           []Interpretable
	optionalIndices map[int]bool
}

func (n *listNode) Eval(act Activation) values.Value {
	elems := make([]values.Value, 0, len(n.elems))
	for i, e := range n.elems {
		v := e.Eval(act)
		if values.IsError(v) || values.IsUnknown(v) {
			return v
		}
		if n.optionalIndices[i] {
			opt, ok := v.(*values.OptionalValue)
			if !ok {
				return values.NewError(n.id, "optional list element is not optional(T)")
			}
			if !opt.HasValue {
				continue
			}
			v = opt.Val
		}
		elems = append(elems, v)
	}
	return &values.ListValue{ElemType: nil, Elements: elems}
}

// mapNode builds a MapValue from its evaluated entries in order.
type mapNode struct {
	baseNode
	keys       []Interpretable
	vals       []Interpretable
	optionalAt map[int]bool
}

func (n *mapNode) Eval(act Activation) values.Value {
	keys := make([]values.Value, 0, len(n.keys))
	vals := make([]values.Value, 0, len(n.vals))
	for i := range n.keys {
		k := n.keys[i].Eval(act)
		if values.IsError(k) || values.IsUnknown(k) {
			return k
		}
		v := n.vals[i].Eval(act)
		if values.IsError(v) || values.IsUnknown(v) {
			return v
		}
		if n.optionalAt[i] {
			opt, ok := v.(*values.OptionalValue)
			if !ok {
				return values.NewError(n.id, "optional map value is not optional(T)")
			}
			if !opt.HasValue {
				continue
			}
			v = opt.Val
		}
		keys = append(keys, k)
		vals = append(vals, v)
	}
	return values.NewMap(nil, nil, keys, vals)
}

// structNode builds a StructValue from its evaluated field initializers.
type structNode struct {
	baseNode
	typeName string
	names    []string
	vals     []Interpretable
	optional []bool
	schema   values.StructSchema
}

func (n *structNode) Eval(act Activation) values.Value {
	fields := map[string]values.Value{}
	present := map[string]bool{}
	for i, name := range n.names {
		v := n.vals[i].Eval(act)
		if values.IsError(v) || values.IsUnknown(v) {
			return v
		}
		if n.optional[i] {
			opt, ok := v.(*values.OptionalValue)
			if !ok {
				return values.NewError(n.id, "optional field initializer is not optional(T)")
			}
			if !opt.HasValue {
				continue
			}
			v = opt.Val
		}
		fields[name] = v
		present[name] = true
	}
	return &values.StructValue{TypeName: n.typeName, Fields: fields, Present: present, Schema: n.schema}
}

// comprehensionNode implements the fold loop shared by all macros (spec
// §4.6 "Comprehensions"): sequential, terminates with the range, and
// propagates without looping if the range is error/unknown.
type comprehensionNode struct {
	baseNode
	iterRange         Interpretable
	iterVar, iterVar2 string
	accuVar           string
	accuInit          Interpretable
	loopCondition     Interpretable
	loopStep          Interpretable
	result            Interpretable
}

func (n *comprehensionNode) Eval(act Activation) values.Value {
	rangeVal := n.iterRange.Eval(act)
	if values.IsError(rangeVal) || values.IsUnknown(rangeVal) {
		return rangeVal
	}

	frame := NewMutableActivation(act)
	scoped := NewHierarchicalActivation(act, frame)
	frame.Set(n.accuVar, n.accuInit.Eval(scoped))

	runStep := func(iterVal, iterVal2 values.Value, hasIterVal2 bool) (stop bool, abort values.Value) {
		frame.Set(n.iterVar, iterVal)
		if hasIterVal2 {
			frame.Set(n.iterVar2, iterVal2)
		}
		cond := n.loopCondition.Eval(scoped)
		if values.IsError(cond) || values.IsUnknown(cond) {
			return true, cond
		}
		if isFalse(cond) {
			return true, nil
		}
		stepVal := n.loopStep.Eval(scoped)
		if values.IsError(stepVal) || values.IsUnknown(stepVal) {
			return true, stepVal
		}
		frame.Set(n.accuVar, stepVal)
		return false, nil
	}

	hasIterVar2 := n.iterVar2 != ""
	switch rv := rangeVal.(type) {
	case *values.ListValue:
		for i, elem := range rv.Elements {
			var stop bool
			var abort values.Value
			if hasIterVar2 {
				stop, abort = runStep(values.IntValue(int64(i)), elem, true)
			} else {
				stop, abort = runStep(elem, nil, false)
			}
			if abort != nil {
				return abort
			}
			if stop {
				break
			}
		}
	case *values.MapValue:
		for _, k := range rv.Keys {
			v, _ := rv.Get(k)
			stop, abort := runStep(k, v, hasIterVar2)
			if abort != nil {
				return abort
			}
			if stop {
				break
			}
		}
	default:
		return values.NewError(n.id, "comprehension range is not list or map: %s", rangeVal.Type())
	}

	return n.result.Eval(scoped)
}
