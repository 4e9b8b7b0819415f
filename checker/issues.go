package checker

import (
	"fmt"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
)

// Issue is one type-check diagnostic, resolved to a source line/column per
// spec §7 ("Static errors ... reported as one exception").
type Issue struct {
	ExprID  ast.ExprID
	Line    int
	Column  int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%d:%d: %s", i.Line, i.Column, i.Message)
}

// Issues accumulates diagnostics over one Check call. The checker never
// throws; callers inspect HasErrors/All after Check returns.
type Issues struct {
	items []Issue
}

func newIssues() *Issues { return &Issues{} }

func (is *Issues) add(id ast.ExprID, info *ast.SourceInfo, format string, args ...interface{}) {
	loc := ast.Location{}
	if info != nil {
		loc = info.GetLocation(info.PositionOf(id).Start)
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
