package interpreter

import (
	"strings"

	celast "github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
	"github.com/taichimaeda/cel-ts-sub000/common/provider"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// Planner converts a checked or unchecked AST into a tree of
// Interpretable nodes (spec §4.4).
type Planner struct {
	tree       *celast.AST
	dispatcher *Dispatcher
	provider   provider.TypeProvider
}

// Plan builds the Interpretable tree for tree using dispatcher for
// overload bindings and prov for struct field defaults/presence. A
// checked tree (non-empty TypeMap/RefMap) enables overload dispatch and
// type-directed struct defaults; an unchecked tree still plans, but a
// call with no Reference carries no overload ids, so evaluating it yields
// an "unbound overload" error. Only the calls planned as dedicated nodes
// (&&, ||, ?:, ==, !=, indexing, @not_strictly_false) evaluate without a
// Reference; there is no dispatch by function name.
func Plan(tree *celast.AST, dispatcher *Dispatcher, prov provider.TypeProvider) Interpretable {
	if prov == nil {
		prov = provider.Empty{}
	}
	p := &Planner{tree: tree, dispatcher: dispatcher, provider: prov}
	return p.plan(tree.Expr)
}

func (p *Planner) plan(e celast.Expr) Interpretable {
	switch e.Kind() {
	case celast.LiteralKind:
		return &constNode{baseNode{e.ID()}, literalValue(e.AsLiteral())}
	case celast.IdentKind:
		return p.planIdentLike(e, e.AsIdent())
	case celast.SelectKind:
		return p.planSelect(e)
	case celast.CallKind:
		return p.planCall(e)
	case celast.ListKind:
		return p.planList(e)
	case celast.MapKind:
		return p.planMap(e)
	case celast.StructKind:
		return p.planStruct(e)
	case celast.ComprehensionKind:
		return p.planComprehension(e)
	}
	return &constNode{baseNode{e.ID()}, values.NewError(e.ID(), "unplannable expression kind")}
}

// planIdentLike handles both a bare Ident and a Select the checker
// re-resolved as a qualified identifier (same Reference shape either
// way): a folded constant, an enum value, or a plain variable reference.
func (p *Planner) planIdentLike(e celast.Expr, fallbackName string) Interpretable {
	ref, ok := p.tree.RefMap[e.ID()]
	if !ok {
		return &varNode{baseNode{e.ID()}, fallbackName}
	}
	if ref.ConstantValue != nil {
		if v, ok := ref.ConstantValue.(values.Value); ok {
			return &constNode{baseNode{e.ID()}, v}
		}
	}
	if ref.EnumValue != nil {
		typeName := ref.Name
		if idx := strings.LastIndex(ref.Name, "."); idx >= 0 {
			typeName = ref.Name[:idx]
		}
		return &constNode{baseNode{e.ID()}, values.EnumValue{TypeName: typeName, Value: *ref.EnumValue}}
	}
	return &varNode{baseNode{e.ID()}, ref.Name}
}

func (p *Planner) planSelect(e celast.Expr) Interpretable {
	if _, ok := p.tree.RefMap[e.ID()]; ok {
		return p.planIdentLike(e, "")
	}
	sel := e.AsSelect()
	return &selectNode{
		baseNode:         baseNode{e.ID()},
		operand:          p.plan(sel.Operand),
		field:            sel.Field,
		testOnly:         sel.TestOnly,
		optional:         sel.Optional,
		fieldHasPresence: p.provider.FieldHasPresence,
		fieldDefault:     p.provider.FindStructFieldDefaultValue,
	}
}

func (p *Planner) planCall(e celast.Expr) Interpretable {
	call := e.AsCall()

	switch call.Func {
	case operators.Conditional:
		return &ternaryNode{baseNode{e.ID()}, p.plan(call.Args[0]), p.plan(call.Args[1]), p.plan(call.Args[2])}
	case operators.LogicalAnd:
		return &andNode{baseNode{e.ID()}, p.plan(call.Args[0]), p.plan(call.Args[1])}
	case operators.LogicalOr:
		return &orNode{baseNode{e.ID()}, p.plan(call.Args[0]), p.plan(call.Args[1])}
	case operators.Equals:
		return &equalityNode{baseNode{e.ID()}, p.plan(call.Args[0]), p.plan(call.Args[1]), false}
	case operators.NotEquals:
		return &equalityNode{baseNode{e.ID()}, p.plan(call.Args[0]), p.plan(call.Args[1]), true}
	case operators.Index, operators.OptIndex:
		return &indexNode{baseNode{e.ID()}, p.plan(call.Args[0]), p.plan(call.Args[1]), call.Func == operators.OptIndex}
	case operators.NotStrictlyFalse:
		return &notStrictlyFalseNode{baseNode{e.ID()}, p.plan(call.Args[0])}
	}

	argExprs := call.Args
	if call.Target != nil {
		argExprs = append([]celast.Expr{*call.Target}, call.Args...)
	}
	plannedArgs := make([]Interpretable, len(argExprs))
	for i, a := range argExprs {
		plannedArgs[i] = p.plan(a)
	}

	var overloadIDs []string
	if ref, ok := p.tree.RefMap[e.ID()]; ok {
		overloadIDs = ref.OverloadIDs
	}

	node := &dispatchNode{baseNode{e.ID()}, overloadIDs, plannedArgs, p.dispatcher}
	return p.maybeFold(e.ID(), node, overloadIDs, plannedArgs)
}

// maybeFold replaces a call whose arguments are all constants and whose
// dispatched overload is marked pure with its evaluated result (spec
// §4.4). Errors raised by the fold are captured as constant-error nodes,
// never panicking the plan step.
func (p *Planner) maybeFold(id celast.ExprID, node *dispatchNode, overloadIDs []string, args []Interpretable) Interpretable {
	if !p.dispatcher.IsPure(overloadIDs) {
		return node
	}
	for _, a := range args {
		if _, ok := a.(*constNode); !ok {
			return node
		}
	}
	return &constNode{baseNode{id}, node.Eval(Empty)}
}

func (p *Planner) planList(e celast.Expr) Interpretable {
	list := e.AsList()
	elems := make([]Interpretable, len(list.Elements))
	for i, el := range list.Elements {
		elems[i] = p.plan(el)
	}
	return &listNode{baseNode{e.ID()}, elems, list.OptionalIndices}
}

func (p *Planner) planMap(e celast.Expr) Interpretable {
	entries := e.AsMapEntries()
	keys := make([]Interpretable, len(entries))
	vals := make([]Interpretable, len(entries))
	optionalAt := map[int]bool{}
	for i, entry := range entries {
		keys[i] = p.plan(entry.Key)
		vals[i] = p.plan(entry.Value)
		if entry.Optional {
			optionalAt[i] = true
		}
	}
	return &mapNode{baseNode{e.ID()}, keys, vals, optionalAt}
}

func (p *Planner) planStruct(e celast.Expr) Interpretable {
	st := e.AsStruct()
	names := make([]string, len(st.Fields))
	vals := make([]Interpretable, len(st.Fields))
	optional := make([]bool, len(st.Fields))
	for i, f := range st.Fields {
		names[i] = f.Name
		vals[i] = p.plan(f.Value)
		optional[i] = f.Optional
	}
	return &structNode{
		baseNode: baseNode{e.ID()},
		typeName: st.TypeName,
		names:    names,
		vals:     vals,
		optional: optional,
		schema:   providerSchema{typeName: st.TypeName, provider: p.provider},
	}
}

func (p *Planner) planComprehension(e celast.Expr) Interpretable {
	comp := e.AsComprehension()
	return &comprehensionNode{
		baseNode:      baseNode{e.ID()},
		iterRange:     p.plan(comp.IterRange),
		iterVar:       comp.IterVar,
		iterVar2:      comp.IterVar2,
		accuVar:       comp.AccuVar,
		accuInit:      p.plan(comp.AccuInit),
		loopCondition: p.plan(comp.LoopCondition),
		loopStep:      p.plan(comp.LoopStep),
		result:        p.plan(comp.Result),
	}
}

func literalValue(lit celast.Literal) values.Value {
	switch lit.Kind {
	case celast.LitBool:
		return values.Bool(lit.Bool)
	case celast.LitInt:
		return values.IntValue(lit.Int)
	case celast.LitUint:
		return values.UintValue(lit.Uint)
	case celast.LitDouble:
		return values.DoubleValue(lit.Double)
	case celast.LitString:
		return values.StringValue(lit.Str)
	case celast.LitBytes:
		return values.BytesValue(lit.Bytes)
	case celast.LitNull:
		return values.Null
	}
	return values.NewError(0, "unrecognized literal kind")
}

// providerSchema adapts a TypeProvider to the per-value StructSchema
// interface a StructValue carries, bound to one struct type name.
type providerSchema struct {
	typeName string
	provider provider.TypeProvider
}

func (s providerSchema) FieldDefault(field string) (values.Value, bool) {
	return s.provider.FindStructFieldDefaultValue(s.typeName, field)
}

func (s providerSchema) FieldHasPresence(field string) bool {
	return s.provider.FieldHasPresence(s.typeName, field)
}
