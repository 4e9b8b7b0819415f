// Package values implements the runtime value lattice: the concrete
// variants a CEL expression evaluates to, including the three non-value
// states (error, unknown, optional) that propagate through evaluation
// per spec §3/§4.6. Value is a closed interface with one concrete type
// per Kind so every operation in this package (and in interpreter) can
// exhaustively switch on Kind().
package values

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taichimaeda/cel-ts-sub000/common/ast"
	"github.com/taichimaeda/cel-ts-sub000/common/types"
)

// Kind discriminates the Value variants.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindDouble
	KindString
	KindBytes
	KindNull
	KindEnum
	KindList
	KindMap
	KindStruct
	KindDuration
	KindTimestamp
	KindType
	KindError
	KindUnknown
	KindOptional
)

// Value is the closed runtime value variant. All concrete types below
// are immutable once constructed.
type Value interface {
	Kind() Kind
	// Type returns the static type this value inhabits. Struct fields
	// and list/map elements use Dyn unless a schema narrows them.
	Type() *types.Type
	String() string
}

// IsError reports whether v is an ErrorValue.
func IsError(v Value) bool { _, ok := v.(*ErrorValue); return ok }

// IsUnknown reports whether v is an UnknownValue.
func IsUnknown(v Value) bool { _, ok := v.(*UnknownValue); return ok }

// --- Primitives ---

type BoolValue bool

func (BoolValue) Kind() Kind         { return KindBool }
func (BoolValue) Type() *types.Type  { return types.Bool }
func (v BoolValue) String() string   { return fmt.Sprintf("%t", bool(v)) }

type IntValue int64

func (IntValue) Kind() Kind        { return KindInt }
func (IntValue) Type() *types.Type { return types.Int }
func (v IntValue) String() string  { return fmt.Sprintf("%d", int64(v)) }

type UintValue uint64

func (UintValue) Kind() Kind        { return KindUint }
func (UintValue) Type() *types.Type { return types.Uint }
func (v UintValue) String() string  { return fmt.Sprintf("%du", uint64(v)) }

type DoubleValue float64

func (DoubleValue) Kind() Kind        { return KindDouble }
func (DoubleValue) Type() *types.Type { return types.Double }
func (v DoubleValue) String() string  { return fmt.Sprintf("%g", float64(v)) }

type StringValue string

func (StringValue) Kind() Kind        { return KindString }
func (StringValue) Type() *types.Type { return types.String }
func (v StringValue) String() string  { return string(v) }

type BytesValue []byte

func (BytesValue) Kind() Kind        { return KindBytes }
func (BytesValue) Type() *types.Type { return types.Bytes }
func (v BytesValue) String() string  { return fmt.Sprintf("b%q", []byte(v)) }

type NullValue struct{}

func (NullValue) Kind() Kind        { return KindNull }
func (NullValue) Type() *types.Type { return types.Null }
func (NullValue) String() string    { return "null" }

// Null is the single interned null value.
var Null = NullValue{}

// True and False are interned bool singletons, per spec §3 "Primitives
// are interned singletons where cheap".
var (
	True  = BoolValue(true)
	False = BoolValue(false)
)

// Bool returns the interned singleton for b.
func Bool(b bool) BoolValue {
	if b {
		return True
	}
	return False
}

// EnumValue is an enum constant: an opaque(name) type paired with its
// integer ordinal. Per spec §3, int absorbs enum; see Equal/arithmetic.
type EnumValue struct {
	TypeName string
	Value    int64
}

func (EnumValue) Kind() Kind           { return KindEnum }
func (e EnumValue) Type() *types.Type  { return types.NewOpaque(e.TypeName) }
func (e EnumValue) String() string     { return fmt.Sprintf("%s(%d)", e.TypeName, e.Value) }

// ListValue is an immutable ordered sequence.
type ListValue struct {
	ElemType *types.Type
	Elements []Value
}

func (ListValue) Kind() Kind { return KindList }
func (l *ListValue) Type() *types.Type {
	et := l.ElemType
	if et == nil {
		et = types.Dyn
	}
	return types.NewList(et)
}
func (l *ListValue) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// EmptyList is the interned empty-list singleton.
var EmptyList = &ListValue{ElemType: types.Dyn, Elements: nil}

// MapValue is an immutable key→value mapping. Keys and insertion order
// are preserved via Keys so iteration (spec §4.6 "insertion order") is
// deterministic.
type MapValue struct {
	KeyType, ValType *types.Type
	Keys             []Value
	index            map[string]int // stable-hash key -> position in Keys
	vals             []Value
}

// NewMap constructs a MapValue from parallel key/value slices, preserving
// insertion order. Later duplicate keys overwrite earlier ones, matching
// map-literal semantics.
func NewMap(keyType, valType *types.Type, keys, vals []Value) *MapValue {
	m := &MapValue{KeyType: keyType, ValType: valType, index: map[string]int{}}
	for i, k := range keys {
		hk := HashKey(k)
		if pos, ok := m.index[hk]; ok {
			m.vals[pos] = vals[i]
			continue
		}
		m.index[hk] = len(m.Keys)
		m.Keys = append(m.Keys, k)
		m.vals = append(m.vals, vals[i])
	}
	return m
}

func (*MapValue) Kind() Kind { return KindMap }
func (m *MapValue) Type() *types.Type {
	kt, vt := m.KeyType, m.ValType
	if kt == nil {
		kt = types.Dyn
	}
	if vt == nil {
		vt = types.Dyn
	}
	return types.NewMap(kt, vt)
}
func (m *MapValue) String() string {
	parts := make([]string, len(m.Keys))
	for i, k := range m.Keys {
		parts[i] = fmt.Sprintf("%s: %s", k, m.vals[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value bound to key and true, or (nil, false) if absent.
func (m *MapValue) Get(key Value) (Value, bool) {
	pos, ok := m.index[HashKey(key)]
	if !ok {
		return nil, false
	}
	return m.vals[pos], true
}

// Len returns the number of entries.
func (m *MapValue) Len() int { return len(m.Keys) }

// EmptyMap is the interned empty-map singleton.
var EmptyMap = NewMap(types.Dyn, types.Dyn, nil, nil)

// HashKey returns a canonical string form suitable for map-key equality,
// unifying int/uint/double keys with equal numeric value (cross-numeric
// equality per spec §8) and everything else by kind+content.
func HashKey(v Value) string {
	switch t := v.(type) {
	case IntValue:
		return fmt.Sprintf("n:%d", int64(t))
	case UintValue:
		return fmt.Sprintf("n:%d", uint64(t))
	case DoubleValue:
		f := float64(t)
		if f >= -9223372036854775808 && f < 9223372036854775808 && f == float64(int64(f)) {
			return fmt.Sprintf("n:%d", int64(f))
		}
		if f >= 0 && f < 18446744073709551616 && f == float64(uint64(f)) {
			return fmt.Sprintf("n:%d", uint64(f))
		}
		return fmt.Sprintf("d:%v", f)
	case BoolValue:
		return fmt.Sprintf("b:%t", bool(t))
	case StringValue:
		return "s:" + string(t)
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}

// StructValue is a nominal record with a presence set distinguishing
// explicitly-set fields from defaulted ones, per spec §3/§4.6.
type StructValue struct {
	TypeName string
	Fields   map[string]Value
	Present  map[string]bool
	Schema   StructSchema // optional; nil means no default/presence support
}

func (*StructValue) Kind() Kind          { return KindStruct }
func (s *StructValue) Type() *types.Type { return types.NewStruct(s.TypeName) }
func (s *StructValue) String() string {
	parts := make([]string, 0, len(s.Fields))
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, s.Fields[k]))
	}
	return s.TypeName + "{" + strings.Join(parts, ", ") + "}"
}

// StructSchema lets a struct value answer default-value and field-kind
// questions without going through the global TypeProvider, matching
// spec §4.6's "schema" field.
type StructSchema interface {
	FieldDefault(field string) (Value, bool)
	FieldHasPresence(field string) bool
}

// TypeValue represents a meta-type value produced by type(x) or by a
// type-name identifier used as a value.
type TypeValue struct{ T *types.Type }

func (TypeValue) Kind() Kind          { return KindType }
func (t TypeValue) Type() *types.Type { return types.NewMeta(t.T) }
func (t TypeValue) String() string    { return t.T.String() }

// ErrorValue represents a runtime error. ExprID, when non-zero,
// identifies the node that first produced it, used to format escaping
// errors with a source location per spec §7.
type ErrorValue struct {
	Message string
	ExprID  ast.ExprID
}

func (*ErrorValue) Kind() Kind          { return KindError }
func (*ErrorValue) Type() *types.Type   { return types.Error }
func (e *ErrorValue) String() string    { return "error: " + e.Message }
func (e *ErrorValue) Error() string     { return e.Message }

// NewError builds an ErrorValue from a formatted message.
func NewError(id ast.ExprID, format string, args ...interface{}) *ErrorValue {
	return &ErrorValue{Message: fmt.Sprintf(format, args...), ExprID: id}
}

// UnknownValue represents "the input did not supply this name" (spec
// §4.7 PartialActivation). AttributeIDs is the set of expression ids
// whose attribute resolution produced the unknown; unions on merge.
type UnknownValue struct {
	AttributeIDs map[ast.ExprID]bool
}

func (*UnknownValue) Kind() Kind        { return KindUnknown }
func (*UnknownValue) Type() *types.Type { return types.Dyn }
func (u *UnknownValue) String() string  { return "unknown" }

// NewUnknown builds an UnknownValue for a single attribute id.
func NewUnknown(id ast.ExprID) *UnknownValue {
	return &UnknownValue{AttributeIDs: map[ast.ExprID]bool{id: true}}
}

// MergeUnknowns unions the attribute-id sets of zero or more unknowns.
func MergeUnknowns(us ...*UnknownValue) *UnknownValue {
	merged := map[ast.ExprID]bool{}
	for _, u := range us {
		if u == nil {
			continue
		}
		for id := range u.AttributeIDs {
			merged[id] = true
		}
	}
	return &UnknownValue{AttributeIDs: merged}
}

// OptionalValue wraps either a present value or none, produced by `.?`
// navigation and the `optional` stdlib functions.
type OptionalValue struct {
	HasValue bool
	Val      Value
}

func (*OptionalValue) Kind() Kind { return KindOptional }
func (o *OptionalValue) Type() *types.Type {
	if o.HasValue {
		return types.NewOptional(o.Val.Type())
	}
	return types.NewOptional(types.Dyn)
}
func (o *OptionalValue) String() string {
	if !o.HasValue {
		return "optional.none()"
	}
	return fmt.Sprintf("optional.of(%s)", o.Val)
}

// OptionalOf wraps a present value.
func OptionalOf(v Value) *OptionalValue { return &OptionalValue{HasValue: true, Val: v} }

// OptionalNone is the interned empty-optional singleton.
var OptionalNone = &OptionalValue{HasValue: false}
