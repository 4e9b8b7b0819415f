package interpreter

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// UnaryBinding implements a one-argument overload.
type UnaryBinding func(id ast.ExprID, arg values.Value) values.Value

// BinaryBinding implements a two-argument overload.
type BinaryBinding func(id ast.ExprID, lhs, rhs values.Value) values.Value

// NaryBinding implements an overload of any other arity.
type NaryBinding func(id ast.ExprID, args []values.Value) values.Value

// Binding is any of the three arity-specific function shapes, tagged so
// the Dispatcher can keep per-arity tables for direct calls without a
// slice allocation on the hot path (spec §4.5 "kept for performance").
type Binding struct {
	Unary  UnaryBinding
	Binary BinaryBinding
	Nary   NaryBinding
	// Pure marks an overload eligible for constant folding (spec §4.4):
	// the planner only folds calls whose dispatched overload is Pure.
	Pure bool
}

// Dispatcher is the overload-id-keyed registry of built-in and
// user-registered function implementations (spec §4.5). Registration is
// append-only in the sense that callers only ever add bindings;
// redefining an id replaces the prior one.
type Dispatcher struct {
	bindings map[string]Binding
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{bindings: map[string]Binding{}}
}

// Register installs (or replaces) the binding for overloadID.
func (d *Dispatcher) Register(overloadID string, b Binding) {
	d.bindings[overloadID] = b
}

// Lookup returns the binding registered for overloadID.
func (d *Dispatcher) Lookup(overloadID string) (Binding, bool) {
	b, ok := d.bindings[overloadID]
	return b, ok
}

// Clone returns an independent copy, used when an Env extends its
// dispatcher with additional user-registered functions without mutating
// the parent's (spec §5 "extend-independence").
func (d *Dispatcher) Clone() *Dispatcher {
	cp := make(map[string]Binding, len(d.bindings))
	for k, v := range d.bindings {
		cp[k] = v
	}
	return &Dispatcher{bindings: cp}
}

// Dispatch invokes the first binding among overloadIDs whose arity
// matches len(args), returning an error Value naming the id if none of
// them are registered (should not happen for a checked program, since
// the checker only attaches ids the Dispatcher's corresponding Env
// actually holds).
func (d *Dispatcher) Dispatch(id ast.ExprID, overloadIDs []string, args []values.Value) values.Value {
	for _, oid := range overloadIDs {
		b, ok := d.bindings[oid]
		if !ok {
			continue
		}
		switch {
		case len(args) == 1 && b.Unary != nil:
			return b.Unary(id, args[0])
		case len(args) == 2 && b.Binary != nil:
			return b.Binary(id, args[0], args[1])
		case b.Nary != nil:
			return b.Nary(id, args)
		}
	}
	return values.NewError(id, "unbound overload: %v", overloadIDs)
}

// IsPure reports whether every overload id in overloadIDs is registered
// and marked pure, the condition under which the planner may constant
// fold the call (spec §4.4).
func (d *Dispatcher) IsPure(overloadIDs []string) bool {
	if len(overloadIDs) == 0 {
		return false
	}
	for _, oid := range overloadIDs {
		b, ok := d.bindings[oid]
		if !ok || !b.Pure {
			return false
		}
	}
	return true
}
