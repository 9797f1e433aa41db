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

// Package ir defines the simplified intermediate representation the Mica
// core evaluates: expressions, constraint predicates and terms, table
// schemas, lattice operator bundles, and the Root that bundles a compiled
// program.
//
// The IR is produced by the upstream pipeline after closure conversion.
// All nodes are immutable once a Root is assembled.
package ir

import (
	"github.com/cockroachdb/apd/v3"

	"micalang.org/go/mica/token"
)

// Expr is an IR expression. Every expression carries a static type tag,
// used for arithmetic dispatch, and a source position, used only for
// error reporting.
type Expr interface {
	Type() Type
	Pos() token.Pos
	exprNode()
}

// Base carries the fields common to all expressions. Variants embed it.
type Base struct {
	Tpe Type
	At  token.Pos
}

func (b Base) Type() Type     { return b.Tpe }
func (b Base) Pos() token.Pos { return b.At }
func (Base) exprNode()        {}

// At returns a Base for the given type tag and position.
func At(t Type, pos token.Pos) Base { return Base{Tpe: t, At: pos} }

// Literals.

type UnitLit struct{ Base }

type BoolLit struct {
	Base
	B bool
}

type CharLit struct {
	Base
	C rune
}

type Float32Lit struct {
	Base
	F float32
}

type Float64Lit struct {
	Base
	F float64
}

type Int8Lit struct {
	Base
	I int8
}

type Int16Lit struct {
	Base
	I int16
}

type Int32Lit struct {
	Base
	I int32
}

type Int64Lit struct {
	Base
	I int64
}

// BigIntLit holds an arbitrary-precision signed integer literal. The
// value is never mutated after construction.
type BigIntLit struct {
	Base
	X *apd.BigInt
}

type StrLit struct {
	Base
	S string
}

// VarRef reads a variable from the environment. Evaluating a VarRef for
// a symbol absent from the environment is an internal invariant
// violation.
type VarRef struct {
	Base
	Sym *Symbol
}

// DefRef evaluates the body of a definition in the current environment.
// It is emitted only for zero-argument specializations; ordinary calls
// go through ApplyDef.
type DefRef struct {
	Base
	Sym *Symbol
}

// MkClosure allocates a closure over the definition Sym with one capture
// slot per free variable. Slots for free variables not present in the
// environment are left empty; LetRec fills the self slot afterwards.
type MkClosure struct {
	Base
	Sym      *Symbol
	FreeVars []*Symbol
}

// ApplyDef calls a top-level definition with the given arguments.
type ApplyDef struct {
	Base
	Sym  *Symbol
	Args []Expr
}

// ApplyTail is ApplyDef in tail position. The distinction is an
// optimization hint; observable behavior is identical.
type ApplyTail struct {
	Base
	Sym  *Symbol
	Args []Expr
}

// ApplyHook calls a host-provided function registered under Name.
type ApplyHook struct {
	Base
	Name string
	Args []Expr
}

// ApplyClosure calls the closure that Fn evaluates to. The callee's
// formals are bound first to the closure's captures and then to Args.
type ApplyClosure struct {
	Base
	Fn   Expr
	Args []Expr
}

type Unary struct {
	Base
	Op UnaryOp
	E  Expr
}

type Binary struct {
	Base
	Op     BinaryOp
	E1, E2 Expr
}

type IfThenElse struct {
	Base
	Cond, Then, Else Expr
}

// Let binds Sym to the value of E1 while evaluating E2.
type Let struct {
	Base
	Sym    *Symbol
	E1, E2 Expr
}

// LetRec binds Sym to a self-referential closure. E1 must be a
// *MkClosure; after allocation the closure is written into its own
// capture slot at the index given by Sym's stack offset.
type LetRec struct {
	Base
	Sym    *Symbol
	E1, E2 Expr
}

// Is tests whether the tag value of E carries the case Tag of enum Sym.
type Is struct {
	Base
	Sym *Symbol
	Tag string
	E   Expr
}

// MkTag constructs a tag value of enum Sym with case Tag and the value
// of E as payload.
type MkTag struct {
	Base
	Sym *Symbol
	Tag string
	E   Expr
}

// Untag extracts the payload of a tag value. The value of E must carry
// the case Tag.
type Untag struct {
	Base
	Sym *Symbol
	Tag string
	E   Expr
}

// Index projects element Offset out of the tuple value of Exp. Bounds
// are guaranteed by the upstream type checker.
type Index struct {
	Base
	Exp    Expr
	Offset int
}

// MkTuple constructs a tuple from its elements, evaluated left to right.
type MkTuple struct {
	Base
	Elms []Expr
}

// Ref allocates a fresh box holding the value of E.
type Ref struct {
	Base
	E Expr
}

// Deref reads the current content of the box value of E.
type Deref struct {
	Base
	E Expr
}

// Assign overwrites the box value of E1 with the value of E2 and
// returns unit.
type Assign struct {
	Base
	E1, E2 Expr
}

// NativeConstructor, NativeField, and NativeMethod are the reflective
// host-interop seam. The core routes them through the hook registry.

type NativeConstructor struct {
	Base
	Name string
	Args []Expr
}

type NativeField struct {
	Base
	Name string
}

type NativeMethod struct {
	Base
	Name string
	Args []Expr
}

// UserError fails evaluation with a user error at its position.
type UserError struct{ Base }

// MatchError fails evaluation after a non-exhaustive pattern match.
type MatchError struct{ Base }

// SwitchError fails evaluation after a non-exhaustive switch.
type SwitchError struct{ Base }

// Existential and Universal quantifiers survive only inside property
// declarations; reaching one during evaluation is an internal invariant
// violation.

type Existential struct {
	Base
	Params []*Symbol
	E      Expr
}

type Universal struct {
	Base
	Params []*Symbol
	E      Expr
}
