// Package stdlib registers the standard library of built-in operators
// and functions: arithmetic, comparison, string/collection methods, type
// conversions, and temporal arithmetic, both as FunctionDecls (so the
// checker resolves and types calls to them) and as Dispatcher bindings
// (so the interpreter actually evaluates them) (spec §4.8).
package stdlib

import (
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

// overloadSpec is one entry in the registration table: a FunctionDecl
// overload plus the Dispatcher binding that implements it.
type overloadSpec struct {
	fnName   string
	overload *decls.Overload
	binding  interpreter.Binding
}

// AddToScopes declares every standard function/overload in the root
// layer of scopes, merging additively with anything already declared
// there (e.g. user-registered functions added before this call).
func AddToScopes(scopes *decls.Scopes) error {
	byName := map[string]*decls.FunctionDecl{}
	for _, spec := range allSpecs() {
		fd, ok := byName[spec.fnName]
		if !ok {
			fd = decls.NewFunctionDecl(spec.fnName)
			byName[spec.fnName] = fd
		}
		if err := fd.AddOverload(spec.overload); err != nil {
			return err
		}
	}
	for _, fd := range byName {
		if err := scopes.AddFunction(fd); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDispatcher installs every standard overload's binding into d.
func RegisterDispatcher(d *interpreter.Dispatcher) {
	for _, spec := range allSpecs() {
		d.Register(spec.overload.ID, spec.binding)
	}
}

func allSpecs() []overloadSpec {
	var specs []overloadSpec
	specs = append(specs, arithmeticSpecs()...)
	specs = append(specs, comparisonSpecs()...)
	specs = append(specs, logicalSpecs()...)
	specs = append(specs, equalitySpecs()...)
	specs = append(specs, membershipSpecs()...)
	specs = append(specs, sizeSpecs()...)
	specs = append(specs, stringMethodSpecs()...)
	specs = append(specs, conversionSpecs()...)
	specs = append(specs, temporalSpecs()...)
	specs = append(specs, macroSupportSpecs()...)
	return specs
}

func unaryOverload(id string, argType, resultType *types.Type, isMember bool) *decls.Overload {
	return &decls.Overload{ID: id, ArgTypes: []*types.Type{argType}, ResultType: resultType, IsMember: isMember}
}

func binaryOverload(id string, lhs, rhs, resultType *types.Type, isMember bool) *decls.Overload {
	return &decls.Overload{ID: id, ArgTypes: []*types.Type{lhs, rhs}, ResultType: resultType, IsMember: isMember}
}
