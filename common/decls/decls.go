// Package decls holds the declaration model the checker and planner
// consult: variables, folded constants, struct/enum schemas, and
// multi-overload function declarations, plus the scope stack used for
// comprehension-local bindings (spec §3 "Declarations", §4.2 "Scopes").
package decls

import (
	"fmt"

	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// VariableDecl declares a named input of a given static type.
type VariableDecl struct {
	Name string
	Type *types.Type
}

// ConstantDecl declares a named value folded into the AST at type-check
// time (spec §3 "Constant(name,Type,Value)").
type ConstantDecl struct {
	Name  string
	Type  *types.Type
	Value values.Value
}

// Field describes one field of a declared struct type.
type Field struct {
	Name string
	Type *types.Type
}

// StructDecl declares a nominal struct type's fields.
type StructDecl struct {
	Name   string
	Fields []Field
}

// FieldType returns the type of the named field, or (nil, false).
func (s *StructDecl) FieldType(name string) (*types.Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// FieldNames returns the declared field names in declaration order.
func (s *StructDecl) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// EnumDecl declares an enum type's named integer constants.
type EnumDecl struct {
	Name   string
	Values map[string]int64
}

// Overload is one typed signature of a function.
type Overload struct {
	ID         string
	ArgTypes   []*types.Type
	ResultType *types.Type
	TypeParams []string
	IsMember   bool
}

// FunctionDecl holds one function's overloads in insertion order, plus a
// set of overload ids disabled by feature-gating (spec §3).
type FunctionDecl struct {
	Name      string
	overloads []*Overload
	byID      map[string]*Overload
	disabled  map[string]bool
}

// NewFunctionDecl constructs an empty function declaration.
func NewFunctionDecl(name string) *FunctionDecl {
	return &FunctionDecl{Name: name, byID: map[string]*Overload{}, disabled: map[string]bool{}}
}

// AddOverload appends an overload, erroring if its id is already used by
// a different signature (redeclaration of the *same* id is idempotent).
func (f *FunctionDecl) AddOverload(o *Overload) error {
	if existing, ok := f.byID[o.ID]; ok {
		if !sameSignature(existing, o) {
			return fmt.Errorf("overload id %q redeclared with a different signature", o.ID)
		}
		return nil
	}
	f.byID[o.ID] = o
	f.overloads = append(f.overloads, o)
	return nil
}

func sameSignature(a, b *Overload) bool {
	if len(a.ArgTypes) != len(b.ArgTypes) || a.IsMember != b.IsMember {
		return false
	}
	if !a.ResultType.Equal(b.ResultType) {
		return false
	}
	for i := range a.ArgTypes {
		if !a.ArgTypes[i].Equal(b.ArgTypes[i]) {
			return false
		}
	}
	return true
}

// Overloads returns the enabled overloads in insertion order.
func (f *FunctionDecl) Overloads() []*Overload {
	if len(f.disabled) == 0 {
		return f.overloads
	}
	out := make([]*Overload, 0, len(f.overloads))
	for _, o := range f.overloads {
		if !f.disabled[o.ID] {
			out = append(out, o)
		}
	}
	return out
}

// Disable feature-gates an overload id without removing its declaration.
func (f *FunctionDecl) Disable(overloadID string) {
	f.disabled[overloadID] = true
}

// Merge adds another FunctionDecl's overloads into f (additive, never
// shadowing per-overload-id), used when an outer-scope function and an
// inner-scope function of the same name combine (spec §4.2).
func (f *FunctionDecl) Merge(other *FunctionDecl) error {
	for _, o := range other.overloads {
		if err := f.AddOverload(o); err != nil {
			return err
		}
	}
	return nil
}

// Clone deep-copies the declaration so extending an environment never
// mutates the parent's.
func (f *FunctionDecl) Clone() *FunctionDecl {
	clone := NewFunctionDecl(f.Name)
	for _, o := range f.overloads {
		_ = clone.AddOverload(o)
	}
	for id := range f.disabled {
		clone.disabled[id] = true
	}
	return clone
}
