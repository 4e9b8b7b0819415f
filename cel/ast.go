package cel

import (
	"github.com/taichimaeda/cel-ts-sub000/common/ast"
)

// Ast bundles a parsed (and possibly type-checked) expression tree with
// a flag recording whether it was checked. Env.Program only logs the
// flag; the planner works from the tree's RefMap (spec §6
// "Env::program(ast)").
type Ast struct {
	tree    *ast.AST
	checked bool
}

// IsChecked reports whether this Ast passed Env.Check (or Env.Compile
// with type checking enabled).
func (a *Ast) IsChecked() bool { return a.checked }

// NativeRep exposes the underlying common/ast.AST for callers that need
// to walk or pretty-print it directly (e.g. a formatter tool).
func (a *Ast) NativeRep() *ast.AST { return a.tree }
