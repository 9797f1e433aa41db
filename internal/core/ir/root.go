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

// A Def is a top-level definition after closure conversion. For
// definitions that back closures, the leading formals are the capture
// slots, followed by the declared parameters.
type Def struct {
	Sym     *Symbol
	Formals []*Symbol
	Body    Expr
	Tpe     Type
}

// An Enum declares the cases of an algebraic data type. Each case
// carries exactly one payload type.
type Enum struct {
	Sym   *Symbol
	Cases map[string]Type
}

// A Stratum groups the constraints evaluated together by the driver.
// Strata are linearly ordered; negation only crosses stratum boundaries.
type Stratum struct {
	Constraints []*Constraint
}

// Root is the immutable bundle the upstream pipeline hands to the core:
// everything needed to evaluate expressions and saturate the fact
// database. A Root is created once per program and never mutated.
type Root struct {
	Defs     map[*Symbol]*Def
	Enums    map[*Symbol]*Enum
	Lattices map[Type]*LatticeOps
	Tables   map[*Symbol]Table
	Strata   []Stratum

	// Properties holds the program's declared laws. The core carries
	// them through; verification happens upstream.
	Properties []*Constraint

	// Reachable is a pruning hint listing the definitions live after
	// tree shaking. Empty means everything is reachable.
	Reachable map[*Symbol]bool

	Syms *SymbolTable
}

// NewRoot returns an empty Root using the given symbol table.
func NewRoot(syms *SymbolTable) *Root {
	if syms == nil {
		syms = NewSymbolTable()
	}
	return &Root{
		Defs:     map[*Symbol]*Def{},
		Enums:    map[*Symbol]*Enum{},
		Lattices: map[Type]*LatticeOps{},
		Tables:   map[*Symbol]Table{},
		Syms:     syms,
	}
}

// LatticeOf returns the operator bundle for the value type of table t,
// or nil if t is a relation or no bundle is registered.
func (r *Root) LatticeOf(t Table) *LatticeOps {
	lat, ok := t.(*LatticeTable)
	if !ok {
		return nil
	}
	return r.Lattices[lat.Value.Tpe]
}
