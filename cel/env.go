// Package cel is the embedding surface that wires the parser, checker,
// planner, and interpreter packages together behind the small API an
// embedder actually calls: build an Env, compile source into an Ast,
// plan the Ast into a Program, and evaluate the Program against an
// input (spec §6 "External interfaces").
package cel

import (
	"github.com/go-logr/logr"

	"github.com/taichimaeda/cel-ts-sub000/checker"
	"github.com/taichimaeda/cel-ts-sub000/common/containers"
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/provider"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
	"github.com/taichimaeda/cel-ts-sub000/interpreter"
	"github.com/taichimaeda/cel-ts-sub000/parser"
	"github.com/taichimaeda/cel-ts-sub000/stdlib"
)

// Env holds the declarations (variables, constants, functions, structs),
// the container used to resolve relative names, the dispatcher bindings,
// and the handful of compatibility flags an embedder configures once at
// construction (spec §6 "Env::new(options)"). An Env is immutable after
// construction; Extend returns an independent child.
type Env struct {
	checkerEnv  *checker.Env
	dispatcher  *interpreter.Dispatcher
	description string
	logger      logr.Logger

	disableStandardLibrary bool
	disableTypeChecking    bool
}

// EnvOption configures an Env under construction or extension.
type EnvOption func(*Env) error

// NewEnv builds an Env with the standard library wired in (unless
// DisableStandardLibrary is among opts) and applies every option in
// order.
func NewEnv(opts ...EnvOption) (*Env, error) {
	e := &Env{
		checkerEnv:  checker.NewEnv(),
		dispatcher:  interpreter.NewDispatcher(),
		description: "<input>",
		logger:      logr.Discard(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if !e.disableStandardLibrary {
		if err := stdlib.AddToScopes(e.checkerEnv.Scopes); err != nil {
			return nil, err
		}
		stdlib.RegisterDispatcher(e.dispatcher)
	}
	return e, nil
}

// Extend returns an independent child Env: its own deep copy of scopes
// and structs, and its own clone of the dispatcher, so declarations
// added to the child never leak back into e (spec §8
// "extend-independence"). Extend never wires the standard library in
// itself: a child has it exactly when the parent does, so
// DisableStandardLibrary has no effect on a child.
func (e *Env) Extend(opts ...EnvOption) (*Env, error) {
	child := &Env{
		checkerEnv:             e.checkerEnv.Extend(),
		dispatcher:             e.dispatcher.Clone(),
		description:            e.description,
		logger:                 e.logger,
		disableStandardLibrary: e.disableStandardLibrary,
		disableTypeChecking:    e.disableTypeChecking,
	}
	for _, opt := range opts {
		if err := opt(child); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// Parse turns source into an unchecked Ast, failing with a ParseError
// carrying every syntax issue found (spec §6 "Env::parse(source)").
func (e *Env) Parse(source string) (*Ast, *ParseError) {
	tree, issues := parser.Parse(source, e.description)
	if issues.HasErrors() {
		e.logger.V(1).Info("parse failed", "source", source, "issues", len(issues.All()))
		return nil, &ParseError{Issues: convertParserIssues(issues.All())}
	}
	e.logger.V(1).Info("parsed", "source", source)
	return &Ast{tree: tree}, nil
}

// Check type-checks a (not necessarily freshly-parsed) Ast against e's
// declarations, failing with a CompileError (spec §6 "Env::check(ast)").
func (e *Env) Check(a *Ast) (*Ast, *CompileError) {
	issues := checker.Check(e.checkerEnv, a.tree)
	if issues.HasErrors() {
		e.logger.V(1).Info("check failed", "issues", len(issues.All()))
		return nil, &CompileError{Issues: convertCheckerIssues(issues.All())}
	}
	e.logger.V(1).Info("checked")
	return &Ast{tree: a.tree, checked: true}, nil
}

// Compile parses and (unless DisableTypeChecking was set) type-checks
// source in one step (spec §6 "Env::compile(source)").
func (e *Env) Compile(source string) (*Ast, *CompileError) {
	parsed, perr := e.Parse(source)
	if perr != nil {
		return nil, &CompileError{Issues: perr.Issues}
	}
	if e.disableTypeChecking {
		return parsed, nil
	}
	return e.Check(parsed)
}

// Program plans a into an Interpretable tree. A checked Ast enables
// overload dispatch and type-directed struct defaults; an unchecked one
// still plans, but only the operators the planner builds as dedicated
// nodes (&&, ||, ?:, ==, !=, indexing, @not_strictly_false) evaluate. Any
// other function call has no overload ids and evaluates to an "unbound
// overload" error; there is no dispatch by function name (spec §6
// "Env::program(ast)").
func (e *Env) Program(a *Ast) *Program {
	plan := interpreter.Plan(a.tree, e.dispatcher, e.checkerEnv.Provider)
	e.logger.V(1).Info("planned", "checked", a.checked)
	return &Program{env: e, tree: a.tree, plan: plan, logger: e.logger}
}

func convertParserIssues(items []parser.Issue) []Issue {
	out := make([]Issue, len(items))
	for i, is := range items {
		out[i] = Issue{Line: is.Line, Column: is.Column, Message: is.Message}
	}
	return out
}

func convertCheckerIssues(items []checker.Issue) []Issue {
	out := make([]Issue, len(items))
	for i, is := range items {
		out[i] = Issue{Line: is.Line, Column: is.Column, Message: is.Message}
	}
	return out
}

// --- Options ---

// Variable declares a named input of the given static type.
func Variable(name string, t *types.Type) EnvOption {
	return func(e *Env) error {
		e.checkerEnv.Scopes.AddVariable(&decls.VariableDecl{Name: name, Type: t})
		return nil
	}
}

// Constant declares a named value folded into the AST at type-check
// time (spec §8 scenario 2, "ANSWER:int=42").
func Constant(name string, t *types.Type, v values.Value) EnvOption {
	return func(e *Env) error {
		e.checkerEnv.Scopes.AddConstant(&decls.ConstantDecl{Name: name, Type: t, Value: v})
		return nil
	}
}

// StructType declares an ad hoc nominal struct type with the given
// fields (spec §8 scenario 4, "struct Person{name:string, age:int}").
func StructType(name string, fields ...decls.Field) EnvOption {
	return func(e *Env) error {
		e.checkerEnv.Structs[name] = &decls.StructDecl{Name: name, Fields: fields}
		return nil
	}
}

// FunctionOverload pairs one typed call signature with the
// implementation bound to it; exactly one of Unary/Binary/Nary should be
// set, matching the arity of ArgTypes.
type FunctionOverload struct {
	ID         string
	ArgTypes   []*types.Type
	ResultType *types.Type
	TypeParams []string
	IsMember   bool

	Unary  interpreter.UnaryBinding
	Binary interpreter.BinaryBinding
	Nary   interpreter.NaryBinding

	// Pure marks the overload eligible for constant folding (spec §4.4).
	Pure bool
}

// Function declares name with one or more overloads, both as a
// FunctionDecl the checker resolves and types calls against, and as
// Dispatcher bindings the interpreter evaluates.
func Function(name string, overloads ...FunctionOverload) EnvOption {
	return func(e *Env) error {
		fd := decls.NewFunctionDecl(name)
		for _, ov := range overloads {
			decl := &decls.Overload{
				ID:         ov.ID,
				ArgTypes:   ov.ArgTypes,
				ResultType: ov.ResultType,
				TypeParams: ov.TypeParams,
				IsMember:   ov.IsMember,
			}
			if err := fd.AddOverload(decl); err != nil {
				return err
			}
			e.dispatcher.Register(ov.ID, interpreter.Binding{
				Unary: ov.Unary, Binary: ov.Binary, Nary: ov.Nary, Pure: ov.Pure,
			})
		}
		return e.checkerEnv.Scopes.AddFunction(fd)
	}
}

// Container sets the dotted namespace used to resolve relative names
// (spec §4.2).
func Container(name string) EnvOption {
	return func(e *Env) error {
		e.checkerEnv.Container = containers.NewContainer(name)
		return nil
	}
}

// CustomTypeProvider installs a TypeProvider the checker and planner
// consult for struct/enum ecosystems beyond what StructType declares
// directly (spec §6 "typeProvider?").
func CustomTypeProvider(p provider.TypeProvider) EnvOption {
	return func(e *Env) error {
		e.checkerEnv.Provider = p
		return nil
	}
}

// Logger installs a logr.Logger that Parse, Check, Program, and
// Program.Eval emit V(1) traces to (parse/check outcomes, plan
// construction, dispatch results). Defaults to logr.Discard(); never
// consulted for control flow.
func Logger(l logr.Logger) EnvOption {
	return func(e *Env) error {
		e.logger = l
		return nil
	}
}

// Description names the source for error messages (e.g. a file path),
// defaulting to "<input>".
func Description(desc string) EnvOption {
	return func(e *Env) error {
		e.description = desc
		return nil
	}
}

// DisableStandardLibrary skips wiring in arithmetic, comparison,
// logical, string, collection, conversion, and temporal built-ins.
func DisableStandardLibrary() EnvOption {
	return func(e *Env) error {
		e.disableStandardLibrary = true
		return nil
	}
}

// DisableTypeChecking makes Compile skip Check, planning straight off
// the parsed Ast, so function calls other than the planner's dedicated
// operator nodes evaluate to an "unbound overload" error (see Program).
func DisableTypeChecking() EnvOption {
	return func(e *Env) error {
		e.disableTypeChecking = true
		return nil
	}
}

// EnumValuesAsInt sets the checker's enum-as-int flag, the
// compatibility mode spec §6 names "enumValuesAsInt?". The checker does
// not read the flag: enum-typed expressions are assignable to int
// whether or not it is set.
func EnumValuesAsInt() EnvOption {
	return func(e *Env) error {
		e.checkerEnv.EnumValuesAsInt = true
		return nil
	}
}
