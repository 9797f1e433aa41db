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

// An Attribute is one column of a table schema.
type Attribute struct {
	Name string
	Tpe  Type
}

// Table is the schema of a relation or a lattice table.
type Table interface {
	Sym() *Symbol

	// Arity is the number of columns a stored row spans: the attribute
	// count for relations, key count plus one for lattice tables.
	Arity() int

	tableNode()
}

// A Relation stores a set of fixed-arity tuples. Indexes lists the
// user-declared secondary indexes, each an ordered subset of column
// offsets.
type Relation struct {
	TSym       *Symbol
	Attributes []Attribute
	Indexes    [][]int
}

func (r *Relation) Sym() *Symbol { return r.TSym }
func (r *Relation) Arity() int   { return len(r.Attributes) }
func (*Relation) tableNode()     {}

// A LatticeTable maps key tuples to a single value drawn from the
// join-semilattice of the value attribute's type.
type LatticeTable struct {
	TSym  *Symbol
	Keys  []Attribute
	Value Attribute
}

func (l *LatticeTable) Sym() *Symbol { return l.TSym }
func (l *LatticeTable) Arity() int   { return len(l.Keys) + 1 }
func (*LatticeTable) tableNode()     {}

// A LatticeOps bundle carries the operators of a user-defined bounded
// lattice. Each operator is an IR expression evaluating to a function
// value; the stores never inspect a bundle beyond applying Leq and Lub
// (and Bot, evaluated once).
type LatticeOps struct {
	Bot Expr
	Top Expr
	Leq Expr
	Lub Expr
	Glb Expr
}
