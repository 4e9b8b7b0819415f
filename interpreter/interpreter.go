package interpreter

import "github.com/taichimaeda/cel-ts-sub000/common/values"

// Eval runs a planned tree against act. It never panics for
// language-level errors; any ErrorValue produced carries the offending
// expression id (spec §4.6).
func Eval(program Interpretable, act Activation) values.Value {
	return program.Eval(act)
}
