// Package types implements the static type system of the expression
// language: a closed, tagged-variant type lattice together with the
// assignability and join algebra the checker drives its inference with.
//
// Runtime values live in common/values; this package never depends on it.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the variants of Type. Kind is closed: every
// operation in this package and in checker switches on it exhaustively.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindDouble
	KindString
	KindBytes
	KindNull
	KindDuration
	KindTimestamp
	KindList
	KindMap
	KindStruct
	KindOpaque
	KindDyn
	KindError
	KindTypeParam
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindNull:
		return "null_type"
	case KindDuration:
		return "duration"
	case KindTimestamp:
		return "timestamp"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindOpaque:
		return "opaque"
	case KindDyn:
		return "dyn"
	case KindError:
		return "error"
	case KindTypeParam:
		return "type_param"
	case KindType:
		return "type"
	}
	return "unknown"
}

// Type is the closed tagged variant described in spec §3. Zero value is
// not a valid Type; always construct via the constructors below.
type Type struct {
	kind byte // storing Kind to keep the struct small and comparable-ish
	// name carries the struct's qualified name, the opaque's name, or the
	// type_param's binding name, depending on kind.
	name string
	// params carries List's element type, Map's [key, value], Opaque's
	// type arguments, or Type(T)'s parameter - one element.
	params []*Type
}

func newType(k Kind, name string, params ...*Type) *Type {
	return &Type{kind: byte(k), name: name, params: params}
}

// Kind returns the discriminant of t.
func (t *Type) Kind() Kind {
	if t == nil {
		return KindDyn
	}
	return Kind(t.kind)
}

// TypeName returns the nominal name for struct/opaque/type_param types and
// the Kind's string form otherwise.
func (t *Type) TypeName() string {
	if t == nil {
		return KindDyn.String()
	}
	switch t.Kind() {
	case KindStruct, KindOpaque, KindTypeParam:
		return t.name
	default:
		return t.Kind().String()
	}
}

// Params returns the type's parameters, e.g. list(T) -> [T], map(K,V) ->
// [K,V], optional_type(T) -> [T]. Returns nil for non-parametric types.
func (t *Type) Params() []*Type {
	if t == nil {
		return nil
	}
	return t.params
}

func (t *Type) String() string {
	if t == nil {
		return "dyn"
	}
	switch t.Kind() {
	case KindList:
		return fmt.Sprintf("list(%s)", t.params[0])
	case KindMap:
		return fmt.Sprintf("map(%s, %s)", t.params[0], t.params[1])
	case KindOpaque:
		if len(t.params) == 0 {
			return t.name
		}
		parts := make([]string, len(t.params))
		for i, p := range t.params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("%s(%s)", t.name, strings.Join(parts, ", "))
	case KindType:
		if len(t.params) == 0 {
			return "type"
		}
		return fmt.Sprintf("type(%s)", t.params[0])
	case KindStruct:
		return t.name
	case KindTypeParam:
		return t.name
	default:
		return t.Kind().String()
	}
}

// Equal reports structural equality (not assignability).
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == nil && o == nil
	}
	if t.Kind() != o.Kind() {
		return false
	}
	if t.name != o.name {
		return false
	}
	if len(t.params) != len(o.params) {
		return false
	}
	for i := range t.params {
		if !t.params[i].Equal(o.params[i]) {
			return false
		}
	}
	return true
}

// IsDyn reports whether t is the dynamic top type.
func (t *Type) IsDyn() bool { return t.Kind() == KindDyn }

// IsError reports whether t is the error type.
func (t *Type) IsError() bool { return t.Kind() == KindError }

// IsEnum reports whether t is an opaque with no type parameters, the
// encoding spec §3 uses for enum types.
func (t *Type) IsEnum() bool {
	return t != nil && t.Kind() == KindOpaque && len(t.params) == 0 && t.name != OptionalTypeName
}

// IsOptional reports whether t is optional_type(T).
func (t *Type) IsOptional() bool {
	return t != nil && t.Kind() == KindOpaque && t.name == OptionalTypeName && len(t.params) == 1
}

// IsNullable reports whether null is assignable to t per spec §3's
// invariant list (struct, duration, timestamp, optional, wrapper).
func (t *Type) IsNullable() bool {
	if t == nil {
		return true
	}
	switch t.Kind() {
	case KindStruct, KindDuration, KindTimestamp:
		return true
	case KindOpaque:
		return t.IsOptional()
	}
	return false
}

// Primitive constants, interned package-level singletons (spec §9
// "global singletons").
var (
	Bool      = newType(KindBool, "")
	Int       = newType(KindInt, "")
	Uint      = newType(KindUint, "")
	Double    = newType(KindDouble, "")
	String    = newType(KindString, "")
	Bytes     = newType(KindBytes, "")
	Null      = newType(KindNull, "")
	Duration  = newType(KindDuration, "")
	Timestamp = newType(KindTimestamp, "")
	Dyn       = newType(KindDyn, "")
	Error     = newType(KindError, "")
)

// OptionalTypeName is the opaque type name reserved for optional_type(T).
const OptionalTypeName = "optional_type"

// NewList constructs list(elem).
func NewList(elem *Type) *Type { return newType(KindList, "", elem) }

// NewMap constructs map(key, value).
func NewMap(key, value *Type) *Type { return newType(KindMap, "", key, value) }

// NewStruct constructs a nominal struct(qualifiedName).
func NewStruct(qualifiedName string) *Type { return newType(KindStruct, qualifiedName, nil...) }

// NewOpaque constructs opaque(name, params...), used for enums (no
// params) and other closed opaque families.
func NewOpaque(name string, params ...*Type) *Type { return newType(KindOpaque, name, params...) }

// NewOptional constructs optional_type(T).
func NewOptional(t *Type) *Type { return newType(KindOpaque, OptionalTypeName, t) }

// NewTypeParam constructs a fresh type_param(name) binding placeholder.
func NewTypeParam(name string) *Type { return newType(KindTypeParam, name) }

// NewMeta constructs type(T), the meta-type of T ("type" with no param
// when T is unknown).
func NewMeta(t *Type) *Type {
	if t == nil {
		return newType(KindType, "")
	}
	return newType(KindType, "", t)
}

// WrapperPrimitive maps protobuf wrapper message names (BoolValue,
// Int64Value, ...) to the primitive type they carry. Wrapper messages
// additionally admit null, handled by IsNullable-style checks at the
// call sites that know about wrappers (see Assignable).
var WrapperPrimitive = map[string]*Type{
	"google.protobuf.BoolValue":   Bool,
	"google.protobuf.Int32Value":  Int,
	"google.protobuf.Int64Value":  Int,
	"google.protobuf.UInt32Value": Uint,
	"google.protobuf.UInt64Value": Uint,
	"google.protobuf.FloatValue":  Double,
	"google.protobuf.DoubleValue": Double,
	"google.protobuf.StringValue": String,
	"google.protobuf.BytesValue":  Bytes,
}

// unwrapWrapper replaces a protobuf wrapper message type with its
// primitive, per spec §4.3 "Assignability" rule 2. Non-wrapper types are
// returned unchanged.
func unwrapWrapper(t *Type) *Type {
	if t == nil || t.Kind() != KindStruct {
		return t
	}
	if p, ok := WrapperPrimitive[t.name]; ok {
		return p
	}
	return t
}
