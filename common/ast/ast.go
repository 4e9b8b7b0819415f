// Package ast defines the expression tree the parser produces, the macro
// expander rewrites, and the checker/planner annotate. Nodes are owned
// exclusively by their parent; cross-cutting annotations (types,
// references, positions, macro call back-references) live in side tables
// keyed by ExprID rather than on the nodes themselves, so an AST stays
// cheap to clone and safe to share across goroutines once built.
package ast

import "github.com/taichimaeda/cel-ts-sub000/common/types"

// ExprID is a dense, source-unique identifier assigned during parsing and
// never reused within one AST.
type ExprID int64

// Kind discriminates the Expr variants.
type Kind int

const (
	LiteralKind Kind = iota
	IdentKind
	SelectKind
	CallKind
	ListKind
	MapKind
	StructKind
	ComprehensionKind
)

// LiteralKindValue discriminates the scalar kinds a Literal may carry.
type LiteralKindValue int

const (
	LitBool LiteralKindValue = iota
	LitInt
	LitUint
	LitDouble
	LitString
	LitBytes
	LitNull
)

// Literal is a constant scalar value attached directly to the AST node
// (as opposed to runtime values, which live in common/values).
type Literal struct {
	Kind  LiteralKindValue
	Bool  bool
	Int   int64
	Uint  uint64
	Double float64
	Str   string
	Bytes []byte
}

// MapEntry is one key/value pair of a Map expression.
type MapEntry struct {
	Key      Expr
	Value    Expr
	Optional bool
}

// StructField is one field initializer of a Struct expression.
type StructField struct {
	Name     string
	Value    Expr
	Optional bool
}

// Expr is a single node of the expression tree. Exactly one of the
// Kind-specific accessor groups below is meaningful, selected by Kind().
type Expr struct {
	id   ExprID
	kind Kind

	literal Literal

	ident string

	selOperand  Expr
	selField    string
	selTestOnly bool
	selOptional bool

	callTarget *Expr
	callFunc   string
	callArgs   []Expr

	listElems     []Expr
	listOptionals map[int]bool

	mapEntries []MapEntry

	structType   string
	structFields []StructField

	compIterRange     Expr
	compIterVar       string
	compIterVar2      string
	compAccuVar       string
	compAccuInit      Expr
	compLoopCondition Expr
	compLoopStep      Expr
	compResult        Expr
}

// ID returns the node's unique identifier.
func (e Expr) ID() ExprID { return e.id }

// Kind returns the node's variant discriminant.
func (e Expr) Kind() Kind { return e.kind }

// AsLiteral returns the Literal payload; valid only when Kind() == LiteralKind.
func (e Expr) AsLiteral() Literal { return e.literal }

// AsIdent returns the identifier name; valid only when Kind() == IdentKind.
func (e Expr) AsIdent() string { return e.ident }

// Select groups the accessors for a Select node.
type Select struct {
	Operand  Expr
	Field    string
	TestOnly bool
	Optional bool
}

// AsSelect returns the Select payload; valid only when Kind() == SelectKind.
func (e Expr) AsSelect() Select {
	return Select{Operand: e.selOperand, Field: e.selField, TestOnly: e.selTestOnly, Optional: e.selOptional}
}

// Call groups the accessors for a Call node. Target is nil for a free
// function call, non-nil for a member-style call (`target.Func(args)`).
type Call struct {
	Target *Expr
	Func   string
	Args   []Expr
}

// AsCall returns the Call payload; valid only when Kind() == CallKind.
func (e Expr) AsCall() Call { return Call{Target: e.callTarget, Func: e.callFunc, Args: e.callArgs} }

// List groups the accessors for a List node.
type List struct {
	Elements        []Expr
	OptionalIndices map[int]bool
}

// AsList returns the List payload; valid only when Kind() == ListKind.
func (e Expr) AsList() List { return List{Elements: e.listElems, OptionalIndices: e.listOptionals} }

// AsMapEntries returns the Map payload; valid only when Kind() == MapKind.
func (e Expr) AsMapEntries() []MapEntry { return e.mapEntries }

// Struct groups the accessors for a Struct node.
type Struct struct {
	TypeName string
	Fields   []StructField
}

// AsStruct returns the Struct payload; valid only when Kind() == StructKind.
func (e Expr) AsStruct() Struct { return Struct{TypeName: e.structType, Fields: e.structFields} }

// Comprehension groups the accessors for a Comprehension (fold) node.
// IterVar2 is empty for single-variable iteration.
type Comprehension struct {
	IterRange     Expr
	IterVar       string
	IterVar2      string
	AccuVar       string
	AccuInit      Expr
	LoopCondition Expr
	LoopStep      Expr
	Result        Expr
}

// AsComprehension returns the Comprehension payload; valid only when
// Kind() == ComprehensionKind.
func (e Expr) AsComprehension() Comprehension {
	return Comprehension{
		IterRange: e.compIterRange, IterVar: e.compIterVar, IterVar2: e.compIterVar2,
		AccuVar: e.compAccuVar, AccuInit: e.compAccuInit,
		LoopCondition: e.compLoopCondition, LoopStep: e.compLoopStep, Result: e.compResult,
	}
}

// --- Constructors used by the parser, macro expander, and planner. ---

func NewLiteral(id ExprID, lit Literal) Expr { return Expr{id: id, kind: LiteralKind, literal: lit} }

func NewIdent(id ExprID, name string) Expr { return Expr{id: id, kind: IdentKind, ident: name} }

func NewSelect(id ExprID, operand Expr, field string, testOnly, optional bool) Expr {
	return Expr{id: id, kind: SelectKind, selOperand: operand, selField: field, selTestOnly: testOnly, selOptional: optional}
}

func NewCall(id ExprID, target *Expr, fn string, args []Expr) Expr {
	return Expr{id: id, kind: CallKind, callTarget: target, callFunc: fn, callArgs: args}
}

func NewList(id ExprID, elems []Expr, optionalIndices map[int]bool) Expr {
	return Expr{id: id, kind: ListKind, listElems: elems, listOptionals: optionalIndices}
}

func NewMap(id ExprID, entries []MapEntry) Expr {
	return Expr{id: id, kind: MapKind, mapEntries: entries}
}

func NewStruct(id ExprID, typeName string, fields []StructField) Expr {
	return Expr{id: id, kind: StructKind, structType: typeName, structFields: fields}
}

func NewComprehension(id ExprID, iterRange Expr, iterVar, iterVar2, accuVar string, accuInit, cond, step, result Expr) Expr {
	return Expr{
		id: id, kind: ComprehensionKind,
		compIterRange: iterRange, compIterVar: iterVar, compIterVar2: iterVar2,
		compAccuVar: accuVar, compAccuInit: accuInit,
		compLoopCondition: cond, compLoopStep: step, compResult: result,
	}
}

// ReferenceKind discriminates what a checker Reference resolves to.
type ReferenceKind int

const (
	VariableReference ReferenceKind = iota
	FunctionReference
)

// Reference is the checker's annotation of what an Ident, Select, or Call
// node resolved to (spec §3 "Reference").
type Reference struct {
	Kind ReferenceKind

	// VariableReference fields.
	Name          string
	EnumValue     *int64 // non-nil when Name denotes an enum constant
	ConstantValue interface{} // non-nil when Name denotes a folded constant; holds a values.Value

	// FunctionReference fields.
	OverloadIDs  []string
	ResolvedName string
}

// AST bundles a checked (or merely parsed) tree with its side tables.
type AST struct {
	Expr       Expr
	SourceInfo *SourceInfo

	TypeMap map[ExprID]*types.Type
	RefMap  map[ExprID]*Reference
}

// NewAST wraps a parsed root expression with empty annotation tables.
func NewAST(root Expr, info *SourceInfo) *AST {
	return &AST{
		Expr:       root,
		SourceInfo: info,
		TypeMap:    map[ExprID]*types.Type{},
		RefMap:     map[ExprID]*Reference{},
	}
}

// TypeOf returns the checked type of id, or dyn if unchecked/unknown.
func (a *AST) TypeOf(id ExprID) *types.Type {
	if t, ok := a.TypeMap[id]; ok {
		return t
	}
	return types.Dyn
}
