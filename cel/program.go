package cel

import (
	"github.com/go-logr/logr"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
)

// Program is a planned, evaluation-ready Ast, bound to the Dispatcher
// and TypeProvider of the Env that produced it (spec §6
// "Env::program(ast)"). A Program is immutable and safe to evaluate
// concurrently from multiple goroutines provided each call supplies its
// own input (spec §5 "core is single-threaded and cooperative-
// synchronous ... multiple programs may evaluate concurrently across
// threads provided each uses its own Activation").
type Program struct {
	env    *Env
	tree   *ast.AST
	plan   interpreter.Interpretable
	logger logr.Logger
}

// Eval runs the program against input, which may be an
// interpreter.Activation directly or a map[string]interface{} of native
// Go values (spec §6 "Program::eval(input) → Value"). The returned Value
// is the language-level result, which may itself be an ErrorValue or
// UnknownValue — those are not thrown, per spec §7's "Runtime errors ...
// never thrown inside evaluation". err is non-nil only when the result
// is an ErrorValue, giving callers that want a plain Go error a
// source-positioned EvaluationError without having to type-switch on
// Value themselves.
func (p *Program) Eval(input interface{}) (values.Value, *EvaluationError) {
	act := p.activationFor(input)
	result := interpreter.Eval(p.plan, act)
	if errVal, ok := result.(*values.ErrorValue); ok {
		loc := p.tree.SourceInfo.GetLocation(p.tree.SourceInfo.PositionOf(errVal.ExprID).Start)
		p.logger.V(1).Info("eval errored", "message", errVal.Message, "line", loc.Line, "column", loc.Column)
		return result, &EvaluationError{Message: errVal.Message, Line: loc.Line, Column: loc.Column}
	}
	p.logger.V(1).Info("evaluated", "kind", result.Kind())
	return result, nil
}

func (p *Program) activationFor(input interface{}) interpreter.Activation {
	switch v := input.(type) {
	case nil:
		return interpreter.Empty
	case interpreter.Activation:
		return v
	case map[string]interface{}:
		return newNativeActivation(p.env, v)
	case map[string]values.Value:
		return interpreter.NewMapActivation(v)
	default:
		return interpreter.Empty
	}
}
