// Package interpreter evaluates a planned Interpretable tree against an
// Activation (spec §4.6, §4.7).
package interpreter

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// Activation is the polymorphic variable-resolution capability an
// Interpretable evaluates against. The interface has only
// Resolve(name) -> (Value, bool) and no Parent accessor; variants that
// delegate hold their parent or delegate in an exported field. Every
// variant below implements it.
type Activation interface {
	// Resolve returns the value bound to name in this activation or any
	// of its ancestors, and whether a binding was found at all.
	Resolve(name string) (values.Value, bool)
}

// EmptyActivation resolves nothing; used for expressions with no free
// variables.
type EmptyActivation struct{}

func (EmptyActivation) Resolve(string) (values.Value, bool) { return nil, false }

// Empty is the interned EmptyActivation singleton.
var Empty Activation = EmptyActivation{}

// MapActivation resolves from a fixed map of already-converted values,
// then delegates to Parent.
type MapActivation struct {
	Bindings map[string]values.Value
	Parent   Activation
}

// NewMapActivation returns a MapActivation with no parent.
func NewMapActivation(bindings map[string]values.Value) *MapActivation {
	return &MapActivation{Bindings: bindings, Parent: Empty}
}

func (a *MapActivation) Resolve(name string) (values.Value, bool) {
	if v, ok := a.Bindings[name]; ok {
		return v, true
	}
	if a.Parent != nil {
		return a.Parent.Resolve(name)
	}
	return nil, false
}

// Converter turns an arbitrary host value into a Value, for LazyActivation.
type Converter func(native interface{}) values.Value

// LazyActivation converts native host values to Value on first access,
// memoizing the result so repeated reads of the same name never re-convert.
type LazyActivation struct {
	raw       map[string]interface{}
	convert   Converter
	memo      map[string]values.Value
	Parent    Activation
}

// NewLazyActivation wraps raw host bindings with a conversion function.
func NewLazyActivation(raw map[string]interface{}, convert Converter) *LazyActivation {
	return &LazyActivation{raw: raw, convert: convert, memo: map[string]values.Value{}, Parent: Empty}
}

func (a *LazyActivation) Resolve(name string) (values.Value, bool) {
	if v, ok := a.memo[name]; ok {
		return v, true
	}
	if raw, ok := a.raw[name]; ok {
		v := a.convert(raw)
		a.memo[name] = v
		return v, true
	}
	if a.Parent != nil {
		return a.Parent.Resolve(name)
	}
	return nil, false
}

// HierarchicalActivation checks Child first, falling back to Parent —
// used to layer a comprehension's loop-local bindings over the ambient
// activation without mutating it.
type HierarchicalActivation struct {
	Parent Activation
	Child  Activation
}

// NewHierarchicalActivation returns an Activation that tries child first.
func NewHierarchicalActivation(parent, child Activation) *HierarchicalActivation {
	return &HierarchicalActivation{Parent: parent, Child: child}
}

func (a *HierarchicalActivation) Resolve(name string) (values.Value, bool) {
	if v, ok := a.Child.Resolve(name); ok {
		return v, true
	}
	if a.Parent != nil {
		return a.Parent.Resolve(name)
	}
	return nil, false
}

// PartialActivation yields UnknownValue for any name declared unknown,
// otherwise delegates (spec §4.7, backs PartialActivation/unknowns).
type PartialActivation struct {
	Delegate      Activation
	UnknownNames  map[string]bool
	nextAttrID    func() int64
}

// NewPartialActivation wraps delegate, treating every name in
// unknownNames as an UnknownValue. idGen mints the attribute id attached
// to each produced unknown (the caller's expression-id source).
func NewPartialActivation(delegate Activation, unknownNames map[string]bool, idGen func() int64) *PartialActivation {
	return &PartialActivation{Delegate: delegate, UnknownNames: unknownNames, nextAttrID: idGen}
}

func (a *PartialActivation) Resolve(name string) (values.Value, bool) {
	if a.UnknownNames[name] {
		var id int64
		if a.nextAttrID != nil {
			id = a.nextAttrID()
		}
		return values.NewUnknown(ast.ExprID(id)), true
	}
	return a.Delegate.Resolve(name)
}

// MutableActivation supports in-place Set/Clear, used for a
// comprehension's per-iteration scope whose lifetime is strictly
// contained within one evaluation frame (spec §4.7, §5).
type MutableActivation struct {
	bindings map[string]values.Value
	Parent   Activation
}

// NewMutableActivation returns an empty MutableActivation over parent.
func NewMutableActivation(parent Activation) *MutableActivation {
	return &MutableActivation{bindings: map[string]values.Value{}, Parent: parent}
}

// Set binds name to v in this frame only.
func (a *MutableActivation) Set(name string, v values.Value) { a.bindings[name] = v }

// Clear removes every binding made in this frame, letting the frame be
// reused across loop iterations without reallocating.
func (a *MutableActivation) Clear() {
	for k := range a.bindings {
		delete(a.bindings, k)
	}
}

func (a *MutableActivation) Resolve(name string) (values.Value, bool) {
	if v, ok := a.bindings[name]; ok {
		return v, true
	}
	if a.Parent != nil {
		return a.Parent.Resolve(name)
	}
	return nil, false
}

// StrictActivation turns an undefined lookup into an error instead of a
// (Value, false) miss, per spec §4.7's `Strict` variant.
type StrictActivation struct {
	Delegate Activation
}

func (a *StrictActivation) Resolve(name string) (values.Value, bool) {
	if v, ok := a.Delegate.Resolve(name); ok {
		return v, true
	}
	return values.NewError(0, "undeclared variable: %s", name), true
}

// ActivationCache memoizes the MapActivation built from repeatedly
// evaluating the same native-binding shape, so a program invoked many
// times with structurally identical inputs skips reconversion (spec
// §4.7 "ActivationCache").
type ActivationCache struct {
	entries map[string]*MapActivation
}

// NewActivationCache returns an empty cache.
func NewActivationCache() *ActivationCache {
	return &ActivationCache{entries: map[string]*MapActivation{}}
}

// GetOrBuild returns the cached MapActivation for key, building and
// storing it via build if absent.
func (c *ActivationCache) GetOrBuild(key string, build func() *MapActivation) *MapActivation {
	if a, ok := c.entries[key]; ok {
		return a
	}
	a := build()
	c.entries[key] = a
	return a
}
