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

// Package store implements the two mutable stores of the Mica solver:
// the append-only relation store and the lub-monotone lattice store.
//
// Stores only ever grow: relations gain tuples, lattice entries ascend
// under their lattice's ordering. There is no removal operation; the
// solver relies on this monotonicity for termination and treats it as a
// contract with the stores.
//
// Stores are not safe for concurrent mutation. The driver serializes
// all writes; read-only access after saturation may be shared.
package store

import (
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/errors"
	"micalang.org/go/mica/token"
)

// Relations stores the tuple sets of every relation in a Root, together
// with their declared secondary indexes.
type Relations struct {
	tables map[*ir.Symbol]*relation
}

type relation struct {
	schema *ir.Relation
	tuples []val.Tuple
	seen   map[string]struct{}

	// One map per declared index, from partial-key to the tuples
	// sharing it. Kept in lockstep with tuples on every insert.
	indexes []map[string][]val.Tuple
}

// NewRelations returns a store with one empty relation per relation
// table of root.
func NewRelations(root *ir.Root) *Relations {
	s := &Relations{tables: map[*ir.Symbol]*relation{}}
	for sym, t := range root.Tables {
		rel, ok := t.(*ir.Relation)
		if !ok {
			continue
		}
		r := &relation{
			schema:  rel,
			seen:    map[string]struct{}{},
			indexes: make([]map[string][]val.Tuple, len(rel.Indexes)),
		}
		for i := range r.indexes {
			r.indexes[i] = map[string][]val.Tuple{}
		}
		s.tables[sym] = r
	}
	return s
}

func (s *Relations) table(sym *ir.Symbol) (*relation, error) {
	r, ok := s.tables[sym]
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, token.NoPos, "no relation %s", sym.Name())
	}
	return r, nil
}

// Insert adds tuple to the relation sym and reports whether the store
// changed. Duplicate inserts, under deep value equality, report false.
// All indexes are updated before Insert returns.
func (s *Relations) Insert(sym *ir.Symbol, tuple val.Tuple) (bool, error) {
	r, err := s.table(sym)
	if err != nil {
		return false, err
	}
	if len(tuple) != r.schema.Arity() {
		return false, errors.Newf(errors.TypeMismatch, token.NoPos,
			"relation %s has arity %d, got tuple of %d", sym.Name(), r.schema.Arity(), len(tuple))
	}
	key := val.KeyTuple(tuple)
	if _, dup := r.seen[key]; dup {
		return false, nil
	}
	r.seen[key] = struct{}{}
	r.tuples = append(r.tuples, tuple)
	for i, cols := range r.schema.Indexes {
		pk := partialKey(tuple, cols)
		r.indexes[i][pk] = append(r.indexes[i][pk], tuple)
	}
	return true, nil
}

// Scan returns the tuples of relation sym. The returned slice is a view
// into store state at call time and must not be mutated; tuples
// inserted later are not visible through it.
func (s *Relations) Scan(sym *ir.Symbol) ([]val.Tuple, error) {
	r, err := s.table(sym)
	if err != nil {
		return nil, err
	}
	return r.tuples[:len(r.tuples):len(r.tuples)], nil
}

// LookupByIndex returns the tuples of relation sym whose columns at the
// positions of declared index idx equal partial. Like Scan, the result
// is a read-only view.
func (s *Relations) LookupByIndex(sym *ir.Symbol, idx int, partial []val.Value) ([]val.Tuple, error) {
	r, err := s.table(sym)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(r.indexes) {
		return nil, errors.Newf(errors.TypeMismatch, token.NoPos, "relation %s has no index %d", sym.Name(), idx)
	}
	ts := r.indexes[idx][val.KeyTuple(partial)]
	return ts[:len(ts):len(ts)], nil
}

// Indexes returns the declared index column sets of relation sym.
func (s *Relations) Indexes(sym *ir.Symbol) [][]int {
	if r, ok := s.tables[sym]; ok {
		return r.schema.Indexes
	}
	return nil
}

// Len reports the tuple count of relation sym.
func (s *Relations) Len(sym *ir.Symbol) int {
	if r, ok := s.tables[sym]; ok {
		return len(r.tuples)
	}
	return 0
}

func partialKey(tuple val.Tuple, cols []int) string {
	vs := make([]val.Value, len(cols))
	for i, c := range cols {
		vs[i] = tuple[c]
	}
	return val.KeyTuple(vs)
}
