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

package store_test

import (
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"

	"micalang.org/go/internal/core/eval"
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/store"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/token"
)

// maxRoot builds a lattice table over the max-of-naturals lattice
// (bot = 0, leq = <=, lub = max), with the operator bundle linked to
// host functions the way the runtime links any definition.
func maxRoot(t *testing.T) (*ir.Root, *ir.Symbol, *eval.Linker) {
	t.Helper()
	syms := ir.NewSymbolTable()
	root := ir.NewRoot(syms)

	dist := syms.Table("Dist")
	natT := ir.Named("Nat")
	root.Tables[dist] = &ir.LatticeTable{
		TSym:  dist,
		Keys:  []ir.Attribute{{Name: "node", Tpe: ir.StrType}},
		Value: ir.Attribute{Name: "d", Tpe: natT},
	}

	botDef := syms.Def("Nat.bot")
	topDef := syms.Def("Nat.top")
	leqDef := syms.Def("Nat.leq")
	lubDef := syms.Def("Nat.lub")
	glbDef := syms.Def("Nat.glb")

	mkOp := func(def *ir.Symbol) ir.Expr {
		return &ir.MkClosure{Base: ir.At(ir.FnType, token.NoPos), Sym: def}
	}
	root.Lattices[natT] = &ir.LatticeOps{
		Bot: &ir.ApplyDef{Base: ir.At(natT, token.NoPos), Sym: botDef},
		Top: &ir.ApplyDef{Base: ir.At(natT, token.NoPos), Sym: topDef},
		Leq: mkOp(leqDef),
		Lub: mkOp(lubDef),
		Glb: mkOp(glbDef),
	}

	linker := eval.NewLinker()
	linker.Bind(botDef, func([]val.Value) (val.Value, error) { return val.Int32(0), nil })
	linker.Bind(topDef, func([]val.Value) (val.Value, error) { return val.Int32(1<<31 - 1), nil })
	linker.Bind(leqDef, func(args []val.Value) (val.Value, error) {
		return val.Bool(args[0].(val.Int32) <= args[1].(val.Int32)), nil
	})
	linker.Bind(lubDef, func(args []val.Value) (val.Value, error) {
		a, b := args[0].(val.Int32), args[1].(val.Int32)
		if a >= b {
			return a, nil
		}
		return b, nil
	})
	linker.Bind(glbDef, func(args []val.Value) (val.Value, error) {
		a, b := args[0].(val.Int32), args[1].(val.Int32)
		if a <= b {
			return a, nil
		}
		return b, nil
	})
	return root, dist, linker
}

func key(s string) val.Tuple { return val.Tuple{val.Str(s)} }

func newLattices(t *testing.T) (*store.Lattices, *ir.Symbol) {
	t.Helper()
	root, dist, linker := maxRoot(t)
	lats, err := store.NewLattices(root, eval.New(root, linker))
	qt.Assert(t, qt.IsNil(err))
	return lats, dist
}

func TestUpsertJoins(t *testing.T) {
	lats, dist := newLattices(t)

	changed, err := lats.Upsert(dist, key("a"), val.Int32(3))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(changed))

	// A smaller value joins to the current one: no change.
	changed, err = lats.Upsert(dist, key("a"), val.Int32(2))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(changed))

	changed, err = lats.Upsert(dist, key("a"), val.Int32(5))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(changed))

	v, ok, err := lats.Get(dist, key("a"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsTrue(val.Equal(v, val.Int32(5))))
}

// TestUpsertIsLub checks upsert(k,v); upsert(k,w) == lub(v,w) over a
// grid of pairs.
func TestUpsertIsLub(t *testing.T) {
	for _, vw := range [][2]int32{{1, 2}, {2, 1}, {4, 4}, {0, 3}, {3, 0}} {
		v, w := vw[0], vw[1]
		t.Run(fmt.Sprintf("%d_%d", v, w), func(t *testing.T) {
			lats, dist := newLattices(t)
			lats.Upsert(dist, key("k"), val.Int32(v))
			lats.Upsert(dist, key("k"), val.Int32(w))

			want := v
			if w > v {
				want = w
			}
			got, ok, err := lats.Get(dist, key("k"))
			qt.Assert(t, qt.IsNil(err))
			if want == 0 {
				qt.Assert(t, qt.IsFalse(ok), qt.Commentf("bot entry stored"))
				return
			}
			qt.Assert(t, qt.IsTrue(ok))
			qt.Assert(t, qt.IsTrue(val.Equal(got, val.Int32(want))))
		})
	}
}

func TestBotIsSuppressed(t *testing.T) {
	lats, dist := newLattices(t)

	changed, err := lats.Upsert(dist, key("a"), val.Int32(0))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(changed))
	qt.Assert(t, qt.Equals(lats.Len(dist), 0))

	_, ok, err := lats.Get(dist, key("a"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(ok))
}

func TestScanOrder(t *testing.T) {
	lats, dist := newLattices(t)
	lats.Upsert(dist, key("b"), val.Int32(1))
	lats.Upsert(dist, key("a"), val.Int32(2))
	lats.Upsert(dist, key("b"), val.Int32(3))

	entries, err := lats.Scan(dist)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(entries, 2))
	qt.Assert(t, qt.IsTrue(val.Equal(entries[0].Key, key("b"))))
	qt.Assert(t, qt.IsTrue(val.Equal(entries[0].Val, val.Int32(3))))
	qt.Assert(t, qt.IsTrue(val.Equal(entries[1].Key, key("a"))))
}

func TestMissingBundleRejected(t *testing.T) {
	syms := ir.NewSymbolTable()
	root := ir.NewRoot(syms)
	sym := syms.Table("L")
	root.Tables[sym] = &ir.LatticeTable{
		TSym:  sym,
		Keys:  []ir.Attribute{{Name: "k", Tpe: ir.StrType}},
		Value: ir.Attribute{Name: "v", Tpe: ir.Named("Missing")},
	}
	_, err := store.NewLattices(root, eval.New(root, nil))
	qt.Assert(t, qt.IsNotNil(err))
}
