package parser

import (
	"testing"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/operators"
)

func TestExpandHas(t *testing.T) {
	tree, issues := Parse("has(x.f)", "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected errors: %v", issues.All())
	}
	sel := tree.Expr.AsSelect()
	if !sel.TestOnly || sel.Field != "f" {
		t.Fatalf("expected testOnly select on f, got %+v", sel)
	}
	if len(tree.SourceInfo.MacroCalls) != 1 {
		t.Fatalf("expected the original has() call to be recorded, got %d entries", len(tree.SourceInfo.MacroCalls))
	}
}

func TestExpandHasRejectsNonSelectArgument(t *testing.T) {
	_, issues := Parse("has(1 + 1)", "test")
	if !issues.HasErrors() {
		t.Fatal("expected an error for has() with a non-select argument")
	}
}

func TestExpandAll(t *testing.T) {
	tree, issues := Parse("nums.all(n, n > 0)", "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected errors: %v", issues.All())
	}
	comp := tree.Expr.AsComprehension()
	if comp.IterVar != "n" || comp.AccuVar != accumulatorVar {
		t.Fatalf("unexpected comprehension vars: %+v", comp)
	}
	if comp.AccuInit.AsLiteral().Bool != true {
		t.Fatalf("expected accuInit = true for all(), got %+v", comp.AccuInit.AsLiteral())
	}
	cond := comp.LoopCondition.AsCall()
	if cond.Func != operators.NotStrictlyFalse {
		t.Fatalf("expected @not_strictly_false condition, got %s", cond.Func)
	}
	step := comp.LoopStep.AsCall()
	if step.Func != operators.LogicalAnd {
		t.Fatalf("expected && step, got %s", step.Func)
	}
}

func TestExpandExists(t *testing.T) {
	tree, issues := Parse("nums.exists(n, n % 2 == 0)", "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected errors: %v", issues.All())
	}
	comp := tree.Expr.AsComprehension()
	if comp.AccuInit.AsLiteral().Bool != false {
		t.Fatalf("expected accuInit = false for exists(), got %+v", comp.AccuInit.AsLiteral())
	}
	step := comp.LoopStep.AsCall()
	if step.Func != operators.LogicalOr {
		t.Fatalf("expected || step, got %s", step.Func)
	}
}

func TestExpandExistsOne(t *testing.T) {
	tree, issues := Parse("nums.exists_one(n, n == 1)", "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected errors: %v", issues.All())
	}
	comp := tree.Expr.AsComprehension()
	result := comp.Result.AsCall()
	if result.Func != operators.Equals {
		t.Fatalf("expected accu == 1 result, got %s", result.Func)
	}
}

func TestExpandMapTwoArg(t *testing.T) {
	tree, issues := Parse("nums.map(n, n * n)", "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected errors: %v", issues.All())
	}
	comp := tree.Expr.AsComprehension()
	if comp.AccuInit.Kind() != ast.ListKind {
		t.Fatalf("expected accuInit = [], got kind %d", comp.AccuInit.Kind())
	}
	step := comp.LoopStep.AsCall()
	if step.Func != operators.Add {
		t.Fatalf("expected accu + [t] step, got %s", step.Func)
	}
}

func TestExpandMapThreeArg(t *testing.T) {
	tree, issues := Parse("nums.map(n, n % 2 == 0, n * n)", "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected errors: %v", issues.All())
	}
	comp := tree.Expr.AsComprehension()
	step := comp.LoopStep.AsCall()
	if step.Func != operators.Conditional {
		t.Fatalf("expected filtered map to use a conditional step, got %s", step.Func)
	}
}

func TestExpandFilter(t *testing.T) {
	tree, issues := Parse("nums.filter(n, n > 4)", "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected errors: %v", issues.All())
	}
	comp := tree.Expr.AsComprehension()
	step := comp.LoopStep.AsCall()
	if step.Func != operators.Conditional {
		t.Fatalf("expected conditional step, got %s", step.Func)
	}
}

func TestExpandRejectsNonIdentIterVar(t *testing.T) {
	_, issues := Parse("nums.all(1, true)", "test")
	if !issues.HasErrors() {
		t.Fatal("expected an error for non-identifier iteration variable")
	}
}

func TestExpandRejectsShadowedAccumulator(t *testing.T) {
	_, issues := Parse("nums.all(__result__, true)", "test")
	if !issues.HasErrors() {
		t.Fatal("expected an error for an iteration variable shadowing the accumulator")
	}
}

func TestExpandNestedMacro(t *testing.T) {
	tree, issues := Parse("nums.map(n, nums.filter(m, m > n))", "test")
	if issues.HasErrors() {
		t.Fatalf("unexpected errors: %v", issues.All())
	}
	outer := tree.Expr.AsComprehension()
	step := outer.LoopStep.AsCall() // accu + [t]
	listElem := step.Args[1].AsList().Elements[0]
	if listElem.Kind() != ast.ComprehensionKind {
		t.Fatalf("expected nested filter() to expand into a comprehension, got kind %d", listElem.Kind())
	}
}
