// Package provider declares the TypeProvider capability: the host-supplied
// collaborator the checker and interpreter consult to resolve struct and
// enum ecosystems (e.g. protobuf, or — as wired in this repo's
// jsonschemaprovider package — a JSON Schema document) without the core
// depending on any concrete reflection mechanism (spec §6, §9).
package provider

import (
	"github.com/taichimaeda/cel-ts-sub000/common/types"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// TypeProvider is the consumer interface the checker and interpreter use
// to reach struct/enum ecosystems external to the core.
type TypeProvider interface {
	FindStructType(name string) (*types.Type, bool)
	FindEnumType(name string) (*types.Type, bool)
	FindStructFieldType(structType, field string) (*types.Type, bool)
	StructFieldNames(structType string) ([]string, bool)
	FindEnumValue(enumType, value string) (int64, bool)
	FieldProtoType(structType, field string) (string, bool)
	FieldIsOneof(structType, field string) bool
	// FieldHasPresence reports whether field supports explicit-presence
	// semantics: true for proto2 scalars and proto3 `optional` fields,
	// false for plain proto3 scalars (spec §6).
	FieldHasPresence(structType, field string) bool
	FindStructFieldDefaultValue(structType, field string) (values.Value, bool)
}

// Empty is a TypeProvider that finds nothing, used as the base provider
// when an embedder declares no struct/enum schemas.
type Empty struct{}

func (Empty) FindStructType(string) (*types.Type, bool)             { return nil, false }
func (Empty) FindEnumType(string) (*types.Type, bool)                { return nil, false }
func (Empty) FindStructFieldType(string, string) (*types.Type, bool) { return nil, false }
func (Empty) StructFieldNames(string) ([]string, bool)               { return nil, false }
func (Empty) FindEnumValue(string, string) (int64, bool)             { return 0, false }
func (Empty) FieldProtoType(string, string) (string, bool)           { return "", false }
func (Empty) FieldIsOneof(string, string) bool                       { return false }
func (Empty) FieldHasPresence(string, string) bool                   { return false }
func (Empty) FindStructFieldDefaultValue(string, string) (values.Value, bool) {
	return nil, false
}

var _ TypeProvider = Empty{}
