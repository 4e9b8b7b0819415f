package checker

import (
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
)

// resolveOverload runs spec §4.3's overload-resolution algorithm over fd's
// enabled overloads filtered to isMember, returning the (possibly
// dyn-widened) result type and the ids of every overload whose signature
// matched the call. freshen mints a call-site-unique name for a declared
// type parameter so unrelated calls never share a binding.
func resolveOverload(fd *decls.FunctionDecl, argTypes []*types.Type, isMember bool, freshen func(string) string) (*types.Type, []string, bool) {
	var matchedIDs []string
	var resultType *types.Type

	for _, o := range fd.Overloads() {
		if o.IsMember != isMember || len(o.ArgTypes) != len(argTypes) {
			continue
		}
		renamed := make(map[string]*types.Type, len(o.TypeParams))
		for _, p := range o.TypeParams {
			renamed[p] = types.NewTypeParam(freshen(p))
		}

		m := types.NewMapping()
		ok := true
		for i, at := range argTypes {
			pt := renameParams(o.ArgTypes[i], renamed)
			if !types.Assignable(m, pt, at) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		rt := types.Substitute(m, renameParams(o.ResultType, renamed))
		matchedIDs = append(matchedIDs, o.ID)
		switch {
		case resultType == nil:
			resultType = rt
		case !resultType.Equal(rt):
			resultType = types.Dyn
		}
	}

	if len(matchedIDs) == 0 {
		return nil, nil, false
	}
	return resultType, matchedIDs, true
}

// renameParams rewrites any type_param occurring (recursively) in t that
// is a key of renamed, leaving every other type untouched.
func renameParams(t *types.Type, renamed map[string]*types.Type) *types.Type {
	if t == nil {
		return types.Dyn
	}
	if t.Kind() == types.KindTypeParam {
		if fresh, ok := renamed[t.TypeName()]; ok {
			return fresh
		}
		return t
	}
	params := t.Params()
	if len(params) == 0 {
		return t
	}
	newParams := make([]*types.Type, len(params))
	changed := false
	for i, p := range params {
		np := renameParams(p, renamed)
		newParams[i] = np
		if np != p {
			changed = true
		}
	}
	if !changed {
		return t
	}
	switch t.Kind() {
	case types.KindList:
		return types.NewList(newParams[0])
	case types.KindMap:
		return types.NewMap(newParams[0], newParams[1])
	case types.KindOpaque:
		return types.NewOpaque(t.TypeName(), newParams...)
	case types.KindType:
		return types.NewMeta(newParams[0])
	}
	return t
}
