// Package checker implements the bottom-up, recursive-descent type
// checker: given a parsed AST and an Env of declarations, it fills the
// AST's TypeMap and RefMap and returns an Issues collection (spec §4.3).
package checker

import (
	"github.com/taichimaeda/cel-ts-sub000/common/containers"
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/provider"
)

// Env bundles the declarations and resolution context the checker
// consults: the scope stack (variables/constants/functions), the
// container used to resolve relative names, any locally declared struct
// schemas, and an optional host TypeProvider (spec §4.2, §6).
type Env struct {
	Scopes    *decls.Scopes
	Container *containers.Container
	Provider  provider.TypeProvider

	// Structs holds ad hoc struct declarations made directly on this Env
	// (e.g. via options, as opposed to a TypeProvider-backed schema).
	Structs map[string]*decls.StructDecl

	// EnumValuesAsInt records the enum-ordinal-as-int compatibility mode
	// (spec §6 Env::new options). The checker does not read it: enums are
	// always assignable to int (see types.Assignable).
	EnumValuesAsInt bool
}

// NewEnv returns an Env with an empty root scope and no provider.
func NewEnv() *Env {
	return &Env{
		Scopes:    decls.NewScopes(),
		Container: containers.NewContainer(""),
		Provider:  provider.Empty{},
		Structs:   map[string]*decls.StructDecl{},
	}
}

// Extend returns an independent deep copy so new declarations on the
// child never leak back to the parent (spec §5 "extend-independence").
func (e *Env) Extend() *Env {
	structs := make(map[string]*decls.StructDecl, len(e.Structs))
	for k, v := range e.Structs {
		fields := make([]decls.Field, len(v.Fields))
		copy(fields, v.Fields)
		structs[k] = &decls.StructDecl{Name: v.Name, Fields: fields}
	}
	return &Env{
		Scopes:          e.Scopes.Clone(),
		Container:       e.Container,
		Provider:        e.Provider,
		Structs:         structs,
		EnumValuesAsInt: e.EnumValuesAsInt,
	}
}

func (e *Env) findStruct(name string) (*decls.StructDecl, bool) {
	if s, ok := e.Structs[name]; ok {
		return s, true
	}
	return nil, false
}
