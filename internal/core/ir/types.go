// Copyright 2026 The Mica Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

// TypeKind enumerates the static type tags the evaluator dispatches on.
// Only the numeric kinds drive arithmetic; the remaining kinds exist so
// that every IR node can carry a faithful tag.
type TypeKind uint8

const (
	InvalidKind TypeKind = iota
	UnitKind
	BoolKind
	CharKind
	Float32Kind
	Float64Kind
	Int8Kind
	Int16Kind
	Int32Kind
	Int64Kind
	BigIntKind
	StrKind
	TupleKind
	RefKind
	FnKind

	// NamedKind tags enum values and user-defined lattice value types.
	// The type's Name identifies the declaration.
	NamedKind
)

var typeKindNames = [...]string{
	InvalidKind: "invalid",
	UnitKind:    "Unit",
	BoolKind:    "Bool",
	CharKind:    "Char",
	Float32Kind: "Float32",
	Float64Kind: "Float64",
	Int8Kind:    "Int8",
	Int16Kind:   "Int16",
	Int32Kind:   "Int32",
	Int64Kind:   "Int64",
	BigIntKind:  "BigInt",
	StrKind:     "Str",
	TupleKind:   "Tuple",
	RefKind:     "Ref",
	FnKind:      "Fn",
	NamedKind:   "Named",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "invalid"
}

// IsInteger reports whether k is a fixed-width or arbitrary-precision
// integer kind.
func (k TypeKind) IsInteger() bool {
	switch k {
	case Int8Kind, Int16Kind, Int32Kind, Int64Kind, BigIntKind:
		return true
	}
	return false
}

// IsNumeric reports whether k supports arithmetic.
func (k TypeKind) IsNumeric() bool {
	switch k {
	case Float32Kind, Float64Kind:
		return true
	}
	return k.IsInteger()
}

// Type is the static type tag carried by every IR node. It is a value
// type and comparable, so it can key the lattice-bundle map of a Root.
// For NamedKind, Name identifies the enum or lattice declaration.
type Type struct {
	K    TypeKind
	Name string
}

func (t Type) String() string {
	if t.K == NamedKind {
		return t.Name
	}
	return t.K.String()
}

// Convenience tags for the primitive types.
var (
	UnitType    = Type{K: UnitKind}
	BoolType    = Type{K: BoolKind}
	CharType    = Type{K: CharKind}
	Float32Type = Type{K: Float32Kind}
	Float64Type = Type{K: Float64Kind}
	Int8Type    = Type{K: Int8Kind}
	Int16Type   = Type{K: Int16Kind}
	Int32Type   = Type{K: Int32Kind}
	Int64Type   = Type{K: Int64Kind}
	BigIntType  = Type{K: BigIntKind}
	StrType     = Type{K: StrKind}
	TupleType   = Type{K: TupleKind}
	RefType     = Type{K: RefKind}
	FnType      = Type{K: FnKind}
)

// Named returns the tag of a user-declared type.
func Named(name string) Type { return Type{K: NamedKind, Name: name} }
