package parser

import (
	"fmt"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
)

// Issue is one syntax diagnostic, resolved to a source line/column (spec §7).
type Issue struct {
	ExprID  ast.ExprID
	Line    int
	Column  int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%d:%d: %s", i.Line, i.Column, i.Message)
}

// Issues accumulates diagnostics over one Parse call. The parser never
// panics on malformed input; callers inspect HasErrors/All after Parse
// returns (mirroring checker.Issues).
type Issues struct {
	items []Issue
}

func newIssues() *Issues { return &Issues{} }

func (is *Issues) add(id ast.ExprID, info *ast.SourceInfo, pos Position, format string, args ...interface{}) {
	loc := ast.Location{}
	if info != nil {
		loc = info.GetLocation(pos.Start)
	}
	is.items = append(is.items, Issue{
		ExprID:  id,
		Line:    loc.Line,
		Column:  loc.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any diagnostic was recorded.
func (is *Issues) HasErrors() bool { return len(is.items) > 0 }

// All returns the recorded diagnostics in report order.
func (is *Issues) All() []Issue { return is.items }
