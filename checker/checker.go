package checker

import (
	"fmt"

	celast "github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
)

// Check type-checks tree against env, filling tree.TypeMap and
// tree.RefMap in place, and returns the accumulated diagnostics. Check
// never throws; callers inspect the returned Issues.HasErrors().
func Check(env *Env, tree *celast.AST) *Issues {
	c := &checker{env: env, tree: tree, issues: newIssues()}
	c.check(tree.Expr)
	return c.issues
}

type checker struct {
	env        *Env
	tree       *celast.AST
	issues     *Issues
	freshCount int
}

func (c *checker) freshen(base string) string {
	c.freshCount++
	return fmt.Sprintf("%s#%d", base, c.freshCount)
}

func (c *checker) errorf(e celast.Expr, format string, args ...interface{}) *types.Type {
	c.issues.add(e.ID(), c.tree.SourceInfo, format, args...)
	return c.assign(e, types.Error)
}

func (c *checker) assign(e celast.Expr, t *types.Type) *types.Type {
	c.tree.TypeMap[e.ID()] = t
	return t
}

func (c *checker) setRef(e celast.Expr, ref *celast.Reference) {
	c.tree.RefMap[e.ID()] = ref
}

// check dispatches on e.Kind() and returns (and records) e's type.
func (c *checker) check(e celast.Expr) *types.Type {
	switch e.Kind() {
	case celast.LiteralKind:
		return c.checkLiteral(e)
	case celast.IdentKind:
		return c.checkIdent(e)
	case celast.SelectKind:
		return c.checkSelect(e)
	case celast.CallKind:
		return c.checkCall(e)
	case celast.ListKind:
		return c.checkList(e)
	case celast.MapKind:
		return c.checkMap(e)
	case celast.StructKind:
		return c.checkStruct(e)
	case celast.ComprehensionKind:
		return c.checkComprehension(e)
	}
	return c.errorf(e, "unrecognized expression kind")
}

func (c *checker) checkLiteral(e celast.Expr) *types.Type {
	switch e.AsLiteral().Kind {
	case celast.LitBool:
		return c.assign(e, types.Bool)
	case celast.LitInt:
		return c.assign(e, types.Int)
	case celast.LitUint:
		return c.assign(e, types.Uint)
	case celast.LitDouble:
		return c.assign(e, types.Double)
	case celast.LitString:
		return c.assign(e, types.String)
	case celast.LitBytes:
		return c.assign(e, types.Bytes)
	case celast.LitNull:
		return c.assign(e, types.Null)
	}
	return c.errorf(e, "unrecognized literal kind")
}

func (c *checker) checkIdent(e celast.Expr) *types.Type {
	name := e.AsIdent()
	res, ok := c.env.lookupIdent(name)
	if !ok {
		c.setRef(e, &celast.Reference{Kind: celast.VariableReference, Name: name})
		return c.errorf(e, "undeclared reference to %q", name)
	}
	ref := &celast.Reference{Kind: celast.VariableReference, Name: res.name}
	switch res.kind {
	case identConstant:
		ref.ConstantValue = res.constant.Value
	case identEnumValue:
		v := res.enumVal
		ref.EnumValue = &v
	}
	c.setRef(e, ref)
	return c.assign(e, res.typ)
}

// identChainName reconstructs the dotted name of a chain of plain
// Ident/Select nodes (no calls, no test-only/optional selects), used to
// re-interpret a select or a member-call target as a qualified name.
func identChainName(e celast.Expr) (string, bool) {
	switch e.Kind() {
	case celast.IdentKind:
		return e.AsIdent(), true
	case celast.SelectKind:
		sel := e.AsSelect()
		if sel.TestOnly || sel.Optional {
			return "", false
		}
		base, ok := identChainName(sel.Operand)
		if !ok {
			return "", false
		}
		return base + "." + sel.Field, true
	}
	return "", false
}

func (c *checker) checkSelect(e celast.Expr) *types.Type {
	sel := e.AsSelect()

	if !sel.TestOnly {
		if qualName, ok := identChainName(e); ok {
			if res, ok := c.env.lookupIdent(qualName); ok {
				ref := &celast.Reference{Kind: celast.VariableReference, Name: res.name}
				switch res.kind {
				case identEnumValue:
					v := res.enumVal
					ref.EnumValue = &v
				case identConstant:
					ref.ConstantValue = res.constant.Value
				}
				c.setRef(e, ref)
				return c.assign(e, res.typ)
			}
		}
	}

	operandType := c.check(sel.Operand)
	wasOptional := false
	if operandType.IsOptional() {
		operandType = operandType.Params()[0]
		wasOptional = true
	}

	var resultType *types.Type
	switch operandType.Kind() {
	case types.KindMap:
		resultType = operandType.Params()[1]
	case types.KindStruct:
		resultType = c.lookupFieldType(e, operandType.TypeName(), sel.Field)
	case types.KindTypeParam:
		resultType = types.Dyn
	case types.KindDyn, types.KindError:
		resultType = types.Dyn
	default:
		return c.errorf(e, "type %s does not support field selection", operandType)
	}

	if sel.TestOnly {
		return c.assign(e, types.Bool)
	}
	if wasOptional || sel.Optional {
		resultType = types.NewOptional(resultType)
	}
	return c.assign(e, resultType)
}

func (c *checker) lookupFieldType(e celast.Expr, structName, field string) *types.Type {
	if s, ok := c.env.findStruct(structName); ok {
		if t, ok := s.FieldType(field); ok {
			return t
		}
		c.issues.add(e.ID(), c.tree.SourceInfo, "undefined field %q on type %s", field, structName)
		return types.Error
	}
	if c.env.Provider != nil {
		if t, ok := c.env.Provider.FindStructFieldType(structName, field); ok {
			return t
		}
	}
	c.issues.add(e.ID(), c.tree.SourceInfo, "undefined field %q on type %s", field, structName)
	return types.Error
}

func (c *checker) checkCall(e celast.Expr) *types.Type {
	call := e.AsCall()

	switch call.Func {
	case operators.Conditional:
		return c.checkTernary(e, call)
	case operators.LogicalAnd, operators.LogicalOr:
		return c.checkLogical(e, call)
	case operators.Index, operators.OptIndex:
		return c.checkIndex(e, call)
	}

	if call.Target != nil {
		return c.checkMemberCall(e, call)
	}
	return c.checkGlobalCall(e, call)
}

func (c *checker) checkTernary(e celast.Expr, call celast.Call) *types.Type {
	condType := c.check(call.Args[0])
	if !condType.IsDyn() && !condType.IsError() && !condType.Equal(types.Bool) {
		c.issues.add(e.ID(), c.tree.SourceInfo, "ternary condition must be bool, got %s", condType)
	}
	thenType := c.check(call.Args[1])
	elseType := c.check(call.Args[2])
	c.setRef(e, &celast.Reference{Kind: celast.FunctionReference, ResolvedName: operators.Conditional})
	return c.assign(e, types.Join(thenType, elseType))
}

func (c *checker) checkLogical(e celast.Expr, call celast.Call) *types.Type {
	for _, arg := range call.Args {
		t := c.check(arg)
		if !t.IsDyn() && !t.IsError() && !t.Equal(types.Bool) {
			c.issues.add(e.ID(), c.tree.SourceInfo, "%s operand must be bool, got %s", call.Func, t)
		}
	}
	c.setRef(e, &celast.Reference{Kind: celast.FunctionReference, ResolvedName: call.Func})
	return c.assign(e, types.Bool)
}

func (c *checker) checkIndex(e celast.Expr, call celast.Call) *types.Type {
	containerType := c.check(call.Args[0])
	keyType := c.check(call.Args[1])
	_ = keyType

	var elemType *types.Type
	switch containerType.Kind() {
	case types.KindList:
		elemType = containerType.Params()[0]
	case types.KindMap:
		elemType = containerType.Params()[1]
	case types.KindDyn, types.KindError:
		elemType = types.Dyn
	default:
		return c.errorf(e, "type %s does not support indexing", containerType)
	}
	c.setRef(e, &celast.Reference{Kind: celast.FunctionReference, ResolvedName: call.Func})
	if call.Func == operators.OptIndex {
		return c.assign(e, types.NewOptional(elemType))
	}
	return c.assign(e, elemType)
}

func (c *checker) checkGlobalCall(e celast.Expr, call celast.Call) *types.Type {
	argTypes := make([]*types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = c.check(a)
	}

	if fd, ok := c.env.Scopes.FindFunction(call.Func); ok {
		if rt, ids, ok := resolveOverload(fd, argTypes, false, c.freshen); ok {
			c.setRef(e, &celast.Reference{Kind: celast.FunctionReference, OverloadIDs: ids, ResolvedName: call.Func})
			return c.assign(e, rt)
		}
	}

	if t, ok := builtinTypeNames[call.Func]; ok && len(call.Args) == 1 {
		c.setRef(e, &celast.Reference{Kind: celast.FunctionReference, ResolvedName: call.Func})
		return c.assign(e, t)
	}
	if _, ok := c.env.findStruct(call.Func); ok && len(call.Args) == 1 {
		c.setRef(e, &celast.Reference{Kind: celast.FunctionReference, ResolvedName: call.Func})
		return c.assign(e, types.NewStruct(call.Func))
	}

	return c.errorf(e, "no matching overload for %q", call.Func)
}

func (c *checker) checkMemberCall(e celast.Expr, call celast.Call) *types.Type {
	if qualName, ok := identChainName(*call.Target); ok {
		fullName := qualName + "." + call.Func
		if fd, ok := c.env.Scopes.FindFunction(fullName); ok {
			argTypes := make([]*types.Type, len(call.Args))
			for i, a := range call.Args {
				argTypes[i] = c.check(a)
			}
			if rt, ids, ok := resolveOverload(fd, argTypes, false, c.freshen); ok {
				c.setRef(e, &celast.Reference{Kind: celast.FunctionReference, OverloadIDs: ids, ResolvedName: fullName})
				return c.assign(e, rt)
			}
		}
	}

	targetType := c.check(*call.Target)
	argTypes := make([]*types.Type, len(call.Args)+1)
	argTypes[0] = targetType
	for i, a := range call.Args {
		argTypes[i+1] = c.check(a)
	}

	if fd, ok := c.env.Scopes.FindFunction(call.Func); ok {
		if rt, ids, ok := resolveOverload(fd, argTypes, true, c.freshen); ok {
			c.setRef(e, &celast.Reference{Kind: celast.FunctionReference, OverloadIDs: ids, ResolvedName: call.Func})
			return c.assign(e, rt)
		}
	}

	return c.errorf(e, "no matching overload for %q on %s", call.Func, targetType)
}

func (c *checker) checkList(e celast.Expr) *types.Type {
	list := e.AsList()
	var elemType *types.Type
	for i, el := range list.Elements {
		t := c.check(el)
		if list.OptionalIndices[i] {
			if t.IsOptional() {
				t = t.Params()[0]
			} else if !t.IsDyn() && !t.IsError() {
				c.issues.add(el.ID(), c.tree.SourceInfo, "optional list element must have type optional(T), got %s", t)
			}
		}
		elemType = types.Join(elemType, t)
	}
	if elemType == nil {
		elemType = types.NewTypeParam(c.freshen("_list"))
	}
	return c.assign(e, types.NewList(elemType))
}

func (c *checker) checkMap(e celast.Expr) *types.Type {
	entries := e.AsMapEntries()
	var keyType, valType *types.Type
	for _, entry := range entries {
		kt := c.check(entry.Key)
		vt := c.check(entry.Value)
		if entry.Optional {
			if vt.IsOptional() {
				vt = vt.Params()[0]
			} else if !vt.IsDyn() && !vt.IsError() {
				c.issues.add(entry.Value.ID(), c.tree.SourceInfo, "optional map value must have type optional(T), got %s", vt)
			}
		}
		keyType = types.Join(keyType, kt)
		valType = types.Join(valType, vt)
	}
	if keyType == nil {
		keyType, valType = types.Dyn, types.Dyn
	}
	return c.assign(e, types.NewMap(keyType, valType))
}

func (c *checker) checkStruct(e celast.Expr) *types.Type {
	st := e.AsStruct()

	structDecl, hasDecl := c.env.findStruct(st.TypeName)
	for _, f := range st.Fields {
		vt := c.check(f.Value)
		if !hasDecl {
			continue
		}
		fieldType, ok := structDecl.FieldType(f.Name)
		if !ok {
			c.issues.add(e.ID(), c.tree.SourceInfo, "undefined field %q on type %s", f.Name, st.TypeName)
			continue
		}
		checkType := vt
		if f.Optional {
			if vt.IsOptional() {
				checkType = vt.Params()[0]
			} else if !vt.IsDyn() && !vt.IsError() {
				c.issues.add(f.Value.ID(), c.tree.SourceInfo, "optional field initializer must have type optional(T), got %s", vt)
				continue
			}
		}
		m := types.NewMapping()
		if !types.Assignable(m, fieldType, checkType) {
			c.issues.add(f.Value.ID(), c.tree.SourceInfo, "field %q: cannot assign %s to %s", f.Name, vt, fieldType)
		}
	}
	if !hasDecl && c.env.Provider != nil {
		if _, ok := c.env.Provider.FindStructType(st.TypeName); !ok {
			c.issues.add(e.ID(), c.tree.SourceInfo, "undeclared struct type %q", st.TypeName)
		}
	}
	return c.assign(e, types.NewStruct(st.TypeName))
}

func (c *checker) checkComprehension(e celast.Expr) *types.Type {
	comp := e.AsComprehension()
	rangeType := c.check(comp.IterRange)

	var iterVarType, iterVar2Type *types.Type
	switch rangeType.Kind() {
	case types.KindList:
		elem := rangeType.Params()[0]
		if comp.IterVar2 != "" {
			iterVarType, iterVar2Type = types.Int, elem
		} else {
			iterVarType = elem
		}
	case types.KindMap:
		k, v := rangeType.Params()[0], rangeType.Params()[1]
		if comp.IterVar2 != "" {
			iterVarType, iterVar2Type = k, v
		} else {
			iterVarType = k
		}
	case types.KindDyn, types.KindError:
		iterVarType = types.Dyn
		if comp.IterVar2 != "" {
			iterVar2Type = types.Dyn
		}
	default:
		c.issues.add(e.ID(), c.tree.SourceInfo, "comprehension range must be list or map, got %s", rangeType)
		iterVarType = types.Error
	}

	c.env.Scopes.EnterScope()
	defer c.env.Scopes.ExitScope()

	c.env.Scopes.AddVariable(&decls.VariableDecl{Name: comp.IterVar, Type: iterVarType})
	if comp.IterVar2 != "" {
		c.env.Scopes.AddVariable(&decls.VariableDecl{Name: comp.IterVar2, Type: iterVar2Type})
	}

	accuType := c.check(comp.AccuInit)
	c.env.Scopes.AddVariable(&decls.VariableDecl{Name: comp.AccuVar, Type: accuType})

	condType := c.check(comp.LoopCondition)
	if !condType.IsDyn() && !condType.IsError() && !condType.Equal(types.Bool) {
		c.issues.add(comp.LoopCondition.ID(), c.tree.SourceInfo, "loop condition must be bool, got %s", condType)
	}

	stepType := c.check(comp.LoopStep)
	m := types.NewMapping()
	if !types.Assignable(m, accuType, stepType) {
		c.issues.add(comp.LoopStep.ID(), c.tree.SourceInfo, "loop step type %s not assignable to accumulator type %s", stepType, accuType)
	}

	resultType := c.check(comp.Result)
	return c.assign(e, resultType)
}
