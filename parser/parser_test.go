package parser

import (
	"testing"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	tree, issues := Parse(src, "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, issues.All())
	}
	return tree.Expr
}

func TestParseArithmeticPrecedence(t *testing.T) {
	e := parseExpr(t, "1 + 2 * 3")
	call := e.AsCall()
	if call.Func != operators.Add {
		t.Fatalf("expected top-level +, got %s", call.Func)
	}
	rhs := call.Args[1].AsCall()
	if rhs.Func != operators.Multiply {
		t.Fatalf("expected right operand to be *, got %s", rhs.Func)
	}
}

func TestParseUnaryPrecedence(t *testing.T) {
	e := parseExpr(t, "-1 + 2")
	call := e.AsCall()
	if call.Func != operators.Add {
		t.Fatalf("expected +, got %s", call.Func)
	}
	lhs := call.Args[0].AsCall()
	if lhs.Func != operators.Negate {
		t.Fatalf("expected left operand to be unary -, got %s", lhs.Func)
	}
}

func TestParseLogicalAndOrPrecedence(t *testing.T) {
	e := parseExpr(t, "a || b && c")
	call := e.AsCall()
	if call.Func != operators.LogicalOr {
		t.Fatalf("expected ||, got %s", call.Func)
	}
	rhs := call.Args[1].AsCall()
	if rhs.Func != operators.LogicalAnd {
		t.Fatalf("expected right operand to be &&, got %s", rhs.Func)
	}
}

func TestParseTernary(t *testing.T) {
	e := parseExpr(t, "a ? 1 : 2")
	call := e.AsCall()
	if call.Func != operators.Conditional || len(call.Args) != 3 {
		t.Fatalf("expected ternary conditional call, got %+v", call)
	}
}

func TestParseSelectAndIndex(t *testing.T) {
	e := parseExpr(t, "a.b[0]")
	call := e.AsCall()
	if call.Func != operators.Index {
		t.Fatalf("expected index call, got %s", call.Func)
	}
	sel := call.Args[0].AsSelect()
	if sel.Field != "b" {
		t.Fatalf("expected select field b, got %s", sel.Field)
	}
}

func TestParseOptionalSelectAndIndex(t *testing.T) {
	e := parseExpr(t, "a.?b")
	sel := e.AsSelect()
	if !sel.Optional || sel.Field != "b" {
		t.Fatalf("expected optional select on b, got %+v", sel)
	}

	e2 := parseExpr(t, "a[?0]")
	call := e2.AsCall()
	if call.Func != operators.OptIndex {
		t.Fatalf("expected opt-index call, got %s", call.Func)
	}
}

func TestParseGlobalAndMemberCall(t *testing.T) {
	e := parseExpr(t, "size(x)")
	call := e.AsCall()
	if call.Target != nil || call.Func != "size" {
		t.Fatalf("expected global call size(x), got %+v", call)
	}

	e2 := parseExpr(t, "x.size()")
	call2 := e2.AsCall()
	if call2.Target == nil || call2.Func != "size" {
		t.Fatalf("expected member call x.size(), got %+v", call2)
	}
}

func TestParseListLiteralWithOptionalElement(t *testing.T) {
	e := parseExpr(t, "[1, ?x, 3]")
	list := e.AsList()
	if len(list.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(list.Elements))
	}
	if !list.OptionalIndices[1] {
		t.Fatalf("expected element 1 to be optional")
	}
}

func TestParseMapLiteral(t *testing.T) {
	e := parseExpr(t, `{"a": 1, "b": 2}`)
	entries := e.AsMapEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestParseStructLiteral(t *testing.T) {
	e := parseExpr(t, "pkg.Foo{bar: 1, ?baz: x}")
	s := e.AsStruct()
	if s.TypeName != "pkg.Foo" {
		t.Fatalf("expected type name pkg.Foo, got %s", s.TypeName)
	}
	if len(s.Fields) != 2 || s.Fields[0].Name != "bar" || !s.Fields[1].Optional {
		t.Fatalf("unexpected struct fields: %+v", s.Fields)
	}
}

func TestParseIntOverflowsToUint(t *testing.T) {
	e := parseExpr(t, "18446744073709551615")
	lit := e.AsLiteral()
	if lit.Kind != ast.LitUint || lit.Uint != 18446744073709551615 {
		t.Fatalf("expected uint literal, got %+v", lit)
	}
}

func TestParseTrailingUForcesUnsigned(t *testing.T) {
	e := parseExpr(t, "5u")
	lit := e.AsLiteral()
	if lit.Kind != ast.LitUint || lit.Uint != 5 {
		t.Fatalf("expected uint(5), got %+v", lit)
	}
}

func TestParseReportsIncompleteExpression(t *testing.T) {
	_, issues := Parse("1 +", "test")
	if !issues.HasErrors() {
		t.Fatal("expected a parse error for incomplete expression")
	}
}
