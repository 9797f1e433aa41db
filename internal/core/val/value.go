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

// Package val defines the runtime values of the Mica core.
//
// Values form a tagged sum and are immutable, with two exceptions: the
// content of a Box, and the one-time back-patch of a closure's self
// capture slot performed by LetRec.
package val

import (
	"github.com/cockroachdb/apd/v3"

	"micalang.org/go/internal/core/ir"
)

// Value is a runtime value.
type Value interface {
	valueNode()
}

// Unit is the sole value of the unit type.
type Unit struct{}

type Bool bool

const (
	True  Bool = true
	False Bool = false
)

type Char rune

type Float32 float32

type Float64 float64

type Int8 int8

type Int16 int16

type Int32 int32

type Int64 int64

// BigInt is an arbitrary-precision signed integer. The pointee is never
// mutated; operations allocate fresh results.
type BigInt struct {
	X *apd.BigInt
}

// NewBigInt returns a BigInt holding n.
func NewBigInt(n int64) BigInt {
	return BigInt{X: new(apd.BigInt).SetInt64(n)}
}

type Str string

// Tag is a value of an algebraic data type: a case name plus exactly
// one payload value.
type Tag struct {
	Name string
	Val  Value
}

// Tuple is an ordered sequence of values.
type Tuple []Value

// Closure pairs a definition symbol with its captured bindings. Env has
// one slot per free variable of the definition; a slot may be nil
// between allocation and the LetRec back-patch.
type Closure struct {
	Def *ir.Symbol
	Env []Value
}

// Box is a one-cell mutable container. Boxes compare by identity.
type Box struct {
	V Value
}

// NewBox allocates a box holding v.
func NewBox(v Value) *Box { return &Box{V: v} }

func (Unit) valueNode()     {}
func (Bool) valueNode()     {}
func (Char) valueNode()     {}
func (Float32) valueNode()  {}
func (Float64) valueNode()  {}
func (Int8) valueNode()     {}
func (Int16) valueNode()    {}
func (Int32) valueNode()    {}
func (Int64) valueNode()    {}
func (BigInt) valueNode()   {}
func (Str) valueNode()      {}
func (Tag) valueNode()      {}
func (Tuple) valueNode()    {}
func (*Closure) valueNode() {}
func (*Box) valueNode()     {}
