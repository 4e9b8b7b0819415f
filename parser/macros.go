package parser

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
)

// accumulatorVar is the reserved name bound to a comprehension's fold
// accumulator. A macro's iteration variable may not shadow it (spec §4.1).
const accumulatorVar = "__result__"

// macroExpander rewrites the fixed macro call forms into Select (has) or
// Comprehension (all/exists/exists_one/map/filter) nodes, recording every
// pre-expansion call into SourceInfo.MacroCalls. IDs fabricated during
// expansion continue from the parser's highest assigned id so they never
// collide with a surface-syntax node.
type macroExpander struct {
	info   *ast.SourceInfo
	issues *Issues
	nextID ast.ExprID
}

func expandMacros(tree *ast.AST, issues *Issues) {
	m := &macroExpander{info: tree.SourceInfo, issues: issues, nextID: maxExprID(tree.Expr)}
	tree.Expr = m.expand(tree.Expr)
}

func maxExprID(e ast.Expr) ast.ExprID {
	max := e.ID()
	update := func(child ast.Expr) {
		if id := maxExprID(child); id > max {
			max = id
		}
	}
	switch e.Kind() {
	case ast.SelectKind:
		update(e.AsSelect().Operand)
	case ast.CallKind:
		call := e.AsCall()
		if call.Target != nil {
			update(*call.Target)
		}
		for _, a := range call.Args {
			update(a)
		}
	case ast.ListKind:
		for _, el := range e.AsList().Elements {
			update(el)
		}
	case ast.MapKind:
		for _, entry := range e.AsMapEntries() {
			update(entry.Key)
			update(entry.Value)
		}
	case ast.StructKind:
		for _, f := range e.AsStruct().Fields {
			update(f.Value)
		}
	}
	return max
}

func (m *macroExpander) newID(pos Position) ast.ExprID {
	m.nextID++
	m.info.SetPosition(m.nextID, pos)
	return m.nextID
}

func (m *macroExpander) posOf(id ast.ExprID) Position {
	p := m.info.PositionOf(id)
	return Position{p.Start, p.End}
}

// expand walks e bottom-up, rewriting any macro-shaped call it finds.
func (m *macroExpander) expand(e ast.Expr) ast.Expr {
	switch e.Kind() {
	case ast.SelectKind:
		sel := e.AsSelect()
		return ast.NewSelect(e.ID(), m.expand(sel.Operand), sel.Field, sel.TestOnly, sel.Optional)
	case ast.CallKind:
		return m.expandCall(e)
	case ast.ListKind:
		l := e.AsList()
		elems := make([]ast.Expr, len(l.Elements))
		for i, el := range l.Elements {
			elems[i] = m.expand(el)
		}
		return ast.NewList(e.ID(), elems, l.OptionalIndices)
	case ast.MapKind:
		entries := e.AsMapEntries()
		out := make([]ast.MapEntry, len(entries))
		for i, entry := range entries {
			out[i] = ast.MapEntry{Key: m.expand(entry.Key), Value: m.expand(entry.Value), Optional: entry.Optional}
		}
		return ast.NewMap(e.ID(), out)
	case ast.StructKind:
		s := e.AsStruct()
		fields := make([]ast.StructField, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = ast.StructField{Name: f.Name, Value: m.expand(f.Value), Optional: f.Optional}
		}
		return ast.NewStruct(e.ID(), s.TypeName, fields)
	default:
		return e
	}
}

func (m *macroExpander) expandCall(e ast.Expr) ast.Expr {
	call := e.AsCall()

	var target *ast.Expr
	if call.Target != nil {
		t := m.expand(*call.Target)
		target = &t
	}
	args := make([]ast.Expr, len(call.Args))
	for i, a := range call.Args {
		args[i] = m.expand(a)
	}
	expandedCall := ast.NewCall(e.ID(), target, call.Func, args)

	if target == nil && call.Func == "has" {
		return m.expandHas(e, expandedCall, args)
	}
	if target != nil {
		switch call.Func {
		case "all":
			return m.expandFold(e, expandedCall, *target, args, true)
		case "exists":
			return m.expandFold(e, expandedCall, *target, args, false)
		case "exists_one":
			return m.expandExistsOne(e, expandedCall, *target, args)
		case "map":
			return m.expandMap(e, expandedCall, *target, args)
		case "filter":
			return m.expandFilter(e, expandedCall, *target, args)
		}
	}
	return expandedCall
}

func (m *macroExpander) recordMacroCall(newID ast.ExprID, original ast.Expr) {
	m.info.MacroCalls[newID] = original
}

func (m *macroExpander) expandHas(original, expandedCall ast.Expr, args []ast.Expr) ast.Expr {
	if len(args) != 1 || args[0].Kind() != ast.SelectKind {
		m.issues.add(original.ID(), m.info, m.posOf(original.ID()), "has() requires a single field-selection argument")
		return expandedCall
	}
	sel := args[0].AsSelect()
	result := ast.NewSelect(original.ID(), sel.Operand, sel.Field, true, sel.Optional)
	m.recordMacroCall(original.ID(), expandedCall)
	return result
}

// iterVarName validates that args[0] is a bare identifier not shadowing
// the accumulator, reporting an issue otherwise. It returns "" when
// args[0] is not an identifier; a name that shadows the accumulator is
// reported and still returned.
func (m *macroExpander) iterVarName(original ast.Expr, args []ast.Expr) string {
	if args[0].Kind() != ast.IdentKind {
		m.issues.add(original.ID(), m.info, m.posOf(original.ID()), "iteration variable must be a simple identifier")
		return ""
	}
	v := args[0].AsIdent()
	if v == accumulatorVar {
		m.issues.add(original.ID(), m.info, m.posOf(original.ID()), "iteration variable must not shadow the accumulator")
	}
	return v
}

func (m *macroExpander) expandFold(original, expandedCall, iterRange ast.Expr, args []ast.Expr, isAll bool) ast.Expr {
	if len(args) != 2 {
		m.issues.add(original.ID(), m.info, m.posOf(original.ID()), "expected 2 arguments")
		return expandedCall
	}
	v := m.iterVarName(original, args)
	pred := args[1]
	pos := m.posOf(original.ID())

	accuInit := ast.NewLiteral(m.newID(pos), ast.Literal{Kind: ast.LitBool, Bool: isAll})
	accuRef := func() ast.Expr { return ast.NewIdent(m.newID(pos), accumulatorVar) }

	var cond, step ast.Expr
	if isAll {
		cond = ast.NewCall(m.newID(pos), nil, operators.NotStrictlyFalse, []ast.Expr{accuRef()})
		step = ast.NewCall(m.newID(pos), nil, operators.LogicalAnd, []ast.Expr{accuRef(), pred})
	} else {
		notAccu := ast.NewCall(m.newID(pos), nil, operators.LogicalNot, []ast.Expr{accuRef()})
		cond = ast.NewCall(m.newID(pos), nil, operators.NotStrictlyFalse, []ast.Expr{notAccu})
		step = ast.NewCall(m.newID(pos), nil, operators.LogicalOr, []ast.Expr{accuRef(), pred})
	}
	result := accuRef()

	comp := ast.NewComprehension(original.ID(), iterRange, v, "", accumulatorVar, accuInit, cond, step, result)
	m.recordMacroCall(original.ID(), expandedCall)
	return comp
}

func (m *macroExpander) expandExistsOne(original, expandedCall, iterRange ast.Expr, args []ast.Expr) ast.Expr {
	if len(args) != 2 {
		m.issues.add(original.ID(), m.info, m.posOf(original.ID()), "expected 2 arguments")
		return expandedCall
	}
	v := m.iterVarName(original, args)
	pred := args[1]
	pos := m.posOf(original.ID())

	accuInit := ast.NewLiteral(m.newID(pos), ast.Literal{Kind: ast.LitInt, Int: 0})
	cond := ast.NewLiteral(m.newID(pos), ast.Literal{Kind: ast.LitBool, Bool: true})
	accuRef := ast.NewIdent(m.newID(pos), accumulatorVar)
	incremented := ast.NewCall(m.newID(pos), nil, operators.Add, []ast.Expr{accuRef, ast.NewLiteral(m.newID(pos), ast.Literal{Kind: ast.LitInt, Int: 1})})
	step := ast.NewCall(m.newID(pos), nil, operators.Conditional, []ast.Expr{pred, incremented, ast.NewIdent(m.newID(pos), accumulatorVar)})
	result := ast.NewCall(m.newID(pos), nil, operators.Equals, []ast.Expr{
		ast.NewIdent(m.newID(pos), accumulatorVar), ast.NewLiteral(m.newID(pos), ast.Literal{Kind: ast.LitInt, Int: 1}),
	})

	comp := ast.NewComprehension(original.ID(), iterRange, v, "", accumulatorVar, accuInit, cond, step, result)
	m.recordMacroCall(original.ID(), expandedCall)
	return comp
}

func (m *macroExpander) expandMap(original, expandedCall, iterRange ast.Expr, args []ast.Expr) ast.Expr {
	if len(args) != 2 && len(args) != 3 {
		m.issues.add(original.ID(), m.info, m.posOf(original.ID()), "map() expects 2 or 3 arguments")
		return expandedCall
	}
	v := m.iterVarName(original, args)
	pos := m.posOf(original.ID())

	var transform ast.Expr
	var filterPred ast.Expr
	if len(args) == 2 {
		transform = args[1]
	} else {
		filterPred = args[1]
		transform = args[2]
	}

	accuInit := ast.NewList(m.newID(pos), nil, nil)
	cond := ast.NewLiteral(m.newID(pos), ast.Literal{Kind: ast.LitBool, Bool: true})
	accuRef := func() ast.Expr { return ast.NewIdent(m.newID(pos), accumulatorVar) }
	appended := ast.NewCall(m.newID(pos), nil, operators.Add, []ast.Expr{accuRef(), ast.NewList(m.newID(pos), []ast.Expr{transform}, nil)})

	var step ast.Expr
	if filterPred == nil {
		step = appended
	} else {
		step = ast.NewCall(m.newID(pos), nil, operators.Conditional, []ast.Expr{filterPred, appended, accuRef()})
	}
	result := accuRef()

	comp := ast.NewComprehension(original.ID(), iterRange, v, "", accumulatorVar, accuInit, cond, step, result)
	m.recordMacroCall(original.ID(), expandedCall)
	return comp
}

func (m *macroExpander) expandFilter(original, expandedCall, iterRange ast.Expr, args []ast.Expr) ast.Expr {
	if len(args) != 2 {
		m.issues.add(original.ID(), m.info, m.posOf(original.ID()), "expected 2 arguments")
		return expandedCall
	}
	v := m.iterVarName(original, args)
	pred := args[1]
	pos := m.posOf(original.ID())

	accuInit := ast.NewList(m.newID(pos), nil, nil)
	cond := ast.NewLiteral(m.newID(pos), ast.Literal{Kind: ast.LitBool, Bool: true})
	accuRef := func() ast.Expr { return ast.NewIdent(m.newID(pos), accumulatorVar) }
	appended := ast.NewCall(m.newID(pos), nil, operators.Add, []ast.Expr{accuRef(), ast.NewList(m.newID(pos), []ast.Expr{ast.NewIdent(m.newID(pos), v)}, nil)})
	step := ast.NewCall(m.newID(pos), nil, operators.Conditional, []ast.Expr{pred, appended, accuRef()})
	result := accuRef()

	comp := ast.NewComprehension(original.ID(), iterRange, v, "", accumulatorVar, accuInit, cond, step, result)
	m.recordMacroCall(original.ID(), expandedCall)
	return comp
}
