package checker

import (
	"strings"

	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
)

// identKind discriminates what lookupIdent found for a candidate name.
type identKind int

const (
	identNone identKind = iota
	identConstant
	identVariable
	identBuiltinType
	identStructType
	identEnumType
	identEnumValue
)

// identResult is the resolved meaning of an identifier, used both to
// type the node and to fill in its ast.Reference.
type identResult struct {
	kind     identKind
	name     string // fully-qualified resolved name
	typ      *types.Type
	constant *decls.ConstantDecl
	enumVal  int64
}

// builtinTypeNames are the primitive/well-known type names usable as
// identifiers, e.g. as the target of a one-arg conversion call.
var builtinTypeNames = map[string]*types.Type{
	"bool":      types.Bool,
	"int":       types.Int,
	"uint":      types.Uint,
	"double":    types.Double,
	"string":    types.String,
	"bytes":     types.Bytes,
	"null_type": types.Null,
	"duration":  types.Duration,
	"timestamp": types.Timestamp,
	"dyn":       types.Dyn,
}

// lookupIdent walks the container's candidate names in decreasing
// specificity and returns the first hit among: constants → scoped
// variables → builtin type names → provider struct types → provider enum
// types → enum-value names split on the last dot (spec §4.2).
func (e *Env) lookupIdent(name string) (identResult, bool) {
	for _, candidate := range e.Container.ResolveCandidateNames(name) {
		if c, ok := e.Scopes.FindConstant(candidate); ok {
			return identResult{kind: identConstant, name: candidate, typ: c.Type, constant: c}, true
		}
		if v, ok := e.Scopes.FindVariable(candidate); ok {
			return identResult{kind: identVariable, name: candidate, typ: v.Type}, true
		}
		if t, ok := builtinTypeNames[candidate]; ok {
			return identResult{kind: identBuiltinType, name: candidate, typ: types.NewMeta(t)}, true
		}
		if s, ok := e.findStruct(candidate); ok {
			return identResult{kind: identStructType, name: candidate, typ: types.NewMeta(types.NewStruct(s.Name))}, true
		}
		if e.Provider != nil {
			if st, ok := e.Provider.FindStructType(candidate); ok {
				return identResult{kind: identStructType, name: candidate, typ: types.NewMeta(st)}, true
			}
			if et, ok := e.Provider.FindEnumType(candidate); ok {
				return identResult{kind: identEnumType, name: candidate, typ: types.NewMeta(et)}, true
			}
		}
		if idx := strings.LastIndex(candidate, "."); idx >= 0 && e.Provider != nil {
			enumType, valueName := candidate[:idx], candidate[idx+1:]
			if v, ok := e.Provider.FindEnumValue(enumType, valueName); ok {
				return identResult{kind: identEnumValue, name: candidate, typ: types.NewOpaque(enumType), enumVal: v}, true
			}
		}
	}
	return identResult{}, false
}
