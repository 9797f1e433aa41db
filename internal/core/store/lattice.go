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

package store

import (
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/errors"
	"micalang.org/go/mica/token"
)

// An Applier applies a lattice-bundle operator expression to argument
// values. The expression evaluator implements it; the store depends on
// the interface only, never on a bundle's internals.
type Applier interface {
	ApplyOp(op ir.Expr, args []val.Value) (val.Value, error)
}

// An Entry is one key-to-value association of a lattice table.
type Entry struct {
	Key val.Tuple
	Val val.Value
}

// Lattices stores the key-to-value maps of every lattice table in a
// Root. Updates join: a new value for an existing key is combined with
// the old one under the table's lub, so stored values only ever ascend.
// Entries whose value would be bot are suppressed entirely.
type Lattices struct {
	apply  Applier
	tables map[*ir.Symbol]*latticeMap
}

type latticeMap struct {
	schema  *ir.LatticeTable
	ops     *ir.LatticeOps
	bot     val.Value // lazily evaluated from ops.Bot
	order   []string  // insertion order of keys
	entries map[string]*Entry
}

// NewLattices returns a store with one empty map per lattice table of
// root. Operator applications go through apply.
func NewLattices(root *ir.Root, apply Applier) (*Lattices, error) {
	s := &Lattices{apply: apply, tables: map[*ir.Symbol]*latticeMap{}}
	for sym, t := range root.Tables {
		lat, ok := t.(*ir.LatticeTable)
		if !ok {
			continue
		}
		ops := root.LatticeOf(lat)
		if ops == nil {
			return nil, errors.Newf(errors.TypeMismatch, token.NoPos,
				"lattice table %s has no operator bundle for %s", sym.Name(), lat.Value.Tpe)
		}
		s.tables[sym] = &latticeMap{schema: lat, ops: ops, entries: map[string]*Entry{}}
	}
	return s, nil
}

func (s *Lattices) table(sym *ir.Symbol) (*latticeMap, error) {
	m, ok := s.tables[sym]
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, token.NoPos, "no lattice table %s", sym.Name())
	}
	return m, nil
}

func (s *Lattices) botOf(m *latticeMap) (val.Value, error) {
	if m.bot == nil {
		b, err := s.apply.ApplyOp(m.ops.Bot, nil)
		if err != nil {
			return nil, err
		}
		m.bot = b
	}
	return m.bot, nil
}

// leq applies the bundle's partial order.
func (s *Lattices) leq(m *latticeMap, a, b val.Value) (bool, error) {
	v, err := s.apply.ApplyOp(m.ops.Leq, []val.Value{a, b})
	if err != nil {
		return false, err
	}
	r, ok := v.(val.Bool)
	if !ok {
		return false, errors.Newf(errors.TypeMismatch, token.NoPos, "leq returned %s, not a bool", val.String(v))
	}
	return bool(r), nil
}

// equiv reports a == b under the bundle's ordering: a leq b and b leq a.
func (s *Lattices) equiv(m *latticeMap, a, b val.Value) (bool, error) {
	le, err := s.leq(m, a, b)
	if err != nil || !le {
		return false, err
	}
	return s.leq(m, b, a)
}

// Upsert joins in a value for key and reports whether the stored value
// changed. The new value is lub(current-or-bot, in); a result equal to
// bot leaves the entry absent.
func (s *Lattices) Upsert(sym *ir.Symbol, key val.Tuple, in val.Value) (bool, error) {
	m, err := s.table(sym)
	if err != nil {
		return false, err
	}
	if len(key) != len(m.schema.Keys) {
		return false, errors.Newf(errors.TypeMismatch, token.NoPos,
			"lattice table %s has %d keys, got %d", sym.Name(), len(m.schema.Keys), len(key))
	}
	bot, err := s.botOf(m)
	if err != nil {
		return false, err
	}

	k := val.KeyTuple(key)
	cur := bot
	ent, exists := m.entries[k]
	if exists {
		cur = ent.Val
	}

	joined, err := s.apply.ApplyOp(m.ops.Lub, []val.Value{cur, in})
	if err != nil {
		return false, err
	}

	// Strict-bot suppression: an entry never holds bot.
	isBot, err := s.equiv(m, joined, bot)
	if err != nil {
		return false, err
	}
	if isBot {
		// lub(cur, in) = bot implies cur = bot, so the entry was
		// already absent. Nothing changes.
		return false, nil
	}

	same, err := s.equiv(m, joined, cur)
	if err != nil {
		return false, err
	}
	if exists && same {
		return false, nil
	}
	if exists {
		ent.Val = joined
	} else {
		m.entries[k] = &Entry{Key: key, Val: joined}
		m.order = append(m.order, k)
	}
	return true, nil
}

// Get returns the value stored for key, if any.
func (s *Lattices) Get(sym *ir.Symbol, key val.Tuple) (val.Value, bool, error) {
	m, err := s.table(sym)
	if err != nil {
		return nil, false, err
	}
	ent, ok := m.entries[val.KeyTuple(key)]
	if !ok {
		return nil, false, nil
	}
	return ent.Val, true, nil
}

// Scan returns the entries of lattice table sym in key insertion order.
// The result is a snapshot of store state at call time.
func (s *Lattices) Scan(sym *ir.Symbol) ([]Entry, error) {
	m, err := s.table(sym)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, *m.entries[k])
	}
	return out, nil
}

// Len reports the entry count of lattice table sym.
func (s *Lattices) Len(sym *ir.Symbol) int {
	if m, ok := s.tables[sym]; ok {
		return len(m.entries)
	}
	return 0
}
