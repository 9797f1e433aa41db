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

package solver

import (
	"fmt"
	"io"
	"sort"

	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/store"
	"micalang.org/go/internal/core/val"
)

// A Result is the read-only view of the stores after saturation.
type Result struct {
	root *ir.Root
	rels *store.Relations
	lats *store.Lattices
}

// Root returns the Root the result was computed for.
func (r *Result) Root() *ir.Root { return r.root }

// Tuples returns the tuples of relation sym.
func (r *Result) Tuples(sym *ir.Symbol) ([]val.Tuple, error) {
	return r.rels.Scan(sym)
}

// Entries returns the key-to-value entries of lattice table sym. Bot
// entries are absent by construction.
func (r *Result) Entries(sym *ir.Symbol) ([]store.Entry, error) {
	return r.lats.Scan(sym)
}

// TableNamed resolves a table symbol by name, for callers that hold
// only the textual name.
func (r *Result) TableNamed(name string) (*ir.Symbol, bool) {
	for sym := range r.root.Tables {
		if sym.Name() == name {
			return sym, true
		}
	}
	return nil, false
}

// Dump writes every table's contents to w in a deterministic order:
// tables by name, rows by their printed form.
func (r *Result) Dump(w io.Writer) error {
	syms := make([]*ir.Symbol, 0, len(r.root.Tables))
	for sym := range r.root.Tables {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].Name() < syms[j].Name() })

	for _, sym := range syms {
		var lines []string
		switch r.root.Tables[sym].(type) {
		case *ir.Relation:
			tuples, err := r.Tuples(sym)
			if err != nil {
				return err
			}
			for _, t := range tuples {
				lines = append(lines, val.String(t))
			}
		case *ir.LatticeTable:
			entries, err := r.Entries(sym)
			if err != nil {
				return err
			}
			for _, e := range entries {
				lines = append(lines, fmt.Sprintf("%s -> %s", val.String(e.Key), val.String(e.Val)))
			}
		}
		sort.Strings(lines)
		if _, err := fmt.Fprintf(w, "%s (%d)\n", sym.Name(), len(lines)); err != nil {
			return err
		}
		for _, l := range lines {
			if _, err := fmt.Fprintf(w, "  %s\n", l); err != nil {
				return err
			}
		}
	}
	return nil
}
