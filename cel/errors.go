package cel

import (
	"fmt"
	"strings"
)

// Issue is one diagnostic resolved to a source line:column, the common
// shape ParseError and CompileError both carry (spec §6 "Issues").
type Issue struct {
	Line    int
	Column  int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%d:%d: %s", i.Line, i.Column, i.Message)
}

func joinIssues(issues []Issue) string {
	parts := make([]string, len(issues))
	for i, is := range issues {
		parts[i] = is.String()
	}
	return strings.Join(parts, "\n")
}

// ParseError reports that Env.Parse found one or more syntax errors.
type ParseError struct {
	Issues []Issue
}

func (e *ParseError) Error() string {
	return "parse error:\n" + joinIssues(e.Issues)
}

// CompileError reports that Env.Compile or Env.Check found one or more
// syntax or type errors (spec §7 "Static errors ... reported as one
// exception").
type CompileError struct {
	Issues []Issue
}

func (e *CompileError) Error() string {
	return "compile error:\n" + joinIssues(e.Issues)
}

// EvaluationError wraps an ErrorValue that escaped evaluation, carrying
// the source position resolved from the expression id that produced it
// (spec §6 "rewrapped with a formatted message carrying source
// position"). Program.Eval returns one exactly when the result Value is
// an ErrorValue (callers inspecting that Value directly see the
// ErrorValue too); EvaluationError exists so a caller that only wants a
// Go error doesn't have to type-switch on Value.
type EvaluationError struct {
	Message string
	Line    int
	Column  int
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
