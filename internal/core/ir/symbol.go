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

import "fmt"

// SymbolKind distinguishes the namespaces a Symbol can belong to.
type SymbolKind uint8

const (
	VarSym SymbolKind = iota
	DefSym
	EnumSym
	TableSym
)

var symKindNames = [...]string{
	VarSym:   "var",
	DefSym:   "def",
	EnumSym:  "enum",
	TableSym: "table",
}

func (k SymbolKind) String() string {
	if int(k) < len(symKindNames) {
		return symKindNames[k]
	}
	return fmt.Sprintf("SymbolKind(%d)", k)
}

// A Symbol is an opaque identifier, globally unique within a Root.
// Symbols are interned by a SymbolTable and compared by pointer.
//
// Variable symbols additionally carry a stack offset. The offset is
// assigned during closure conversion and is used to locate a variable's
// capture slot inside a closure environment.
type Symbol struct {
	kind   SymbolKind
	id     int32
	name   string
	offset int32 // valid for VarSym only
}

func (s *Symbol) Kind() SymbolKind { return s.kind }
func (s *Symbol) ID() int32        { return s.id }
func (s *Symbol) Name() string     { return s.name }

// Offset returns the stack offset of a variable symbol.
func (s *Symbol) Offset() int { return int(s.offset) }

func (s *Symbol) String() string {
	return fmt.Sprintf("%s%%%d", s.name, s.id)
}

// A SymbolTable interns the symbols of one Root. The zero value is ready
// for use. A SymbolTable is not safe for concurrent mutation; Roots are
// assembled single-threaded and immutable afterwards.
type SymbolTable struct {
	syms []*Symbol
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable { return &SymbolTable{} }

func (t *SymbolTable) fresh(k SymbolKind, name string, offset int) *Symbol {
	s := &Symbol{kind: k, id: int32(len(t.syms)), name: name, offset: int32(offset)}
	t.syms = append(t.syms, s)
	return s
}

// Var creates a fresh variable symbol with the given stack offset.
func (t *SymbolTable) Var(name string, offset int) *Symbol {
	return t.fresh(VarSym, name, offset)
}

// Def creates a fresh definition symbol.
func (t *SymbolTable) Def(name string) *Symbol { return t.fresh(DefSym, name, 0) }

// Enum creates a fresh enum symbol.
func (t *SymbolTable) Enum(name string) *Symbol { return t.fresh(EnumSym, name, 0) }

// Table creates a fresh table symbol.
func (t *SymbolTable) Table(name string) *Symbol { return t.fresh(TableSym, name, 0) }

// ByID returns the symbol with the given id, or nil.
func (t *SymbolTable) ByID(id int32) *Symbol {
	if id < 0 || int(id) >= len(t.syms) {
		return nil
	}
	return t.syms[id]
}

// Len reports the number of interned symbols.
func (t *SymbolTable) Len() int { return len(t.syms) }
