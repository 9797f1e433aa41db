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

package irjson

import (
	"sort"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"

	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/solver"
	"micalang.org/go/internal/core/val"
)

// graphProgram is the transitive-closure program as the upstream
// pipeline serializes it.
const graphProgram = `{
  "symbols": [
    {"id": 0, "kind": "var", "name": "x"},
    {"id": 1, "kind": "var", "name": "y", "offset": 1},
    {"id": 2, "kind": "var", "name": "z", "offset": 2},
    {"id": 3, "kind": "table", "name": "Edge"},
    {"id": 4, "kind": "table", "name": "Path"}
  ],
  "tables": [
    {"sym": 3, "kind": "relation",
     "attrs": [{"name": "src", "type": {"kind": "str"}}, {"name": "dst", "type": {"kind": "str"}}],
     "indexes": [[0]]},
    {"sym": 4, "kind": "relation",
     "attrs": [{"name": "src", "type": {"kind": "str"}}, {"name": "dst", "type": {"kind": "str"}}]}
  ],
  "strata": [[
    {"head": {"pred": "atom", "table": 4,
              "terms": [{"term": "var", "sym": 0}, {"term": "var", "sym": 1}]},
     "body": [{"pred": "atom", "table": 3,
               "terms": [{"term": "var", "sym": 0}, {"term": "var", "sym": 1}]}],
     "params": [0, 1]},
    {"head": {"pred": "atom", "table": 4,
              "terms": [{"term": "var", "sym": 0}, {"term": "var", "sym": 2}]},
     "body": [{"pred": "atom", "table": 3,
               "terms": [{"term": "var", "sym": 0}, {"term": "var", "sym": 1}]},
              {"pred": "atom", "table": 4,
               "terms": [{"term": "var", "sym": 1}, {"term": "var", "sym": 2}]}],
     "params": [0, 1, 2]}
  ]]
}`

const graphFacts = `
facts:
  - table: Edge
    row: [a, b]
  - table: Edge
    row: [b, c]
`

func TestDecodeGraphProgram(t *testing.T) {
	root, err := Decode([]byte(graphProgram))
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.Equals(len(root.Tables), 2))
	qt.Assert(t, qt.Equals(len(root.Strata), 1))
	qt.Assert(t, qt.Equals(len(root.Strata[0].Constraints), 2))

	edge, ok := tableNamed(root, "Edge")
	qt.Assert(t, qt.IsTrue(ok))
	rel := root.Tables[edge].(*ir.Relation)
	qt.Assert(t, qt.Equals(rel.Arity(), 2))
	qt.Assert(t, qt.DeepEquals(rel.Indexes, [][]int{{0}}))
}

func TestDecodeThenSaturate(t *testing.T) {
	root, err := Decode([]byte(graphProgram))
	qt.Assert(t, qt.IsNil(err))

	facts, err := DecodeFacts([]byte(graphFacts), root)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(facts, 2))

	res, err := solver.Saturate(root, facts, nil)
	qt.Assert(t, qt.IsNil(err))

	path, ok := tableNamed(root, "Path")
	qt.Assert(t, qt.IsTrue(ok))
	tuples, err := res.Tuples(path)
	qt.Assert(t, qt.IsNil(err))

	var got []string
	for _, tp := range tuples {
		got = append(got, val.String(tp))
	}
	sort.Strings(got)
	want := []string{`("a", "b")`, `("a", "c")`, `("b", "c")`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Path mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeDefsAndEnum(t *testing.T) {
	const program = `{
	  "symbols": [
	    {"id": 0, "kind": "var", "name": "x"},
	    {"id": 1, "kind": "var", "name": "y", "offset": 1},
	    {"id": 2, "kind": "def", "name": "max"},
	    {"id": 3, "kind": "enum", "name": "Sign"}
	  ],
	  "enums": [
	    {"sym": 3, "cases": {"Neg": {"kind": "unit"}, "Pos": {"kind": "unit"}}}
	  ],
	  "defs": [
	    {"sym": 2, "formals": [0, 1], "type": {"kind": "fn"},
	     "body": {"expr": "if", "type": {"kind": "int32"},
	       "cond": {"expr": "binary", "op": "ge", "type": {"kind": "bool"},
	         "e1": {"expr": "var", "sym": 0, "type": {"kind": "int32"}},
	         "e2": {"expr": "var", "sym": 1, "type": {"kind": "int32"}}},
	       "then": {"expr": "var", "sym": 0, "type": {"kind": "int32"}},
	       "else": {"expr": "var", "sym": 1, "type": {"kind": "int32"}},
	       "loc": {"file": "max.mica", "line": 3, "col": 5}}}
	  ]
	}`

	root, err := Decode([]byte(program))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(len(root.Defs), 1))
	qt.Assert(t, qt.Equals(len(root.Enums), 1))

	var def *ir.Def
	for _, d := range root.Defs {
		def = d
	}
	qt.Assert(t, qt.HasLen(def.Formals, 2))
	body := def.Body.(*ir.IfThenElse)
	qt.Assert(t, qt.Equals(body.Cond.(*ir.Binary).Op, ir.GreaterEqual))
	qt.Assert(t, qt.Equals(body.Pos().String(), "max.mica:3:5"))
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"bad json", `{`},
		{"bad symbol kind", `{"symbols": [{"id": 0, "kind": "widget", "name": "x"}]}`},
		{"misnumbered symbols", `{"symbols": [{"id": 3, "kind": "var", "name": "x"}]}`},
		{"unknown table ref", `{"symbols": [], "strata": [[{"head": {"pred": "atom", "table": 7}}]]}`},
		{"bad expr", `{"symbols": [{"id": 0, "kind": "def", "name": "d"}],
		  "defs": [{"sym": 0, "formals": [], "type": {"kind": "fn"}, "body": {"expr": "wat", "type": {"kind": "unit"}}}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.src))
			qt.Assert(t, qt.IsNotNil(err))
		})
	}
}

func TestDecodeFactsLattice(t *testing.T) {
	const program = `{
	  "symbols": [
	    {"id": 0, "kind": "table", "name": "Truth"},
	    {"id": 1, "kind": "enum", "name": "Belnap"},
	    {"id": 2, "kind": "def", "name": "noop"}
	  ],
	  "enums": [
	    {"sym": 1, "cases": {"Bot": {"kind": "unit"}, "True": {"kind": "unit"},
	                          "False": {"kind": "unit"}, "Top": {"kind": "unit"}}}
	  ],
	  "tables": [
	    {"sym": 0, "kind": "lattice",
	     "keys": [{"name": "k", "type": {"kind": "str"}}],
	     "value": {"name": "v", "type": {"kind": "named", "name": "Belnap"}}}
	  ]
	}`
	root, err := Decode([]byte(program))
	qt.Assert(t, qt.IsNil(err))

	facts, err := DecodeFacts([]byte(`
facts:
  - table: Truth
    key: [k1]
    value: {tag: "True", value: []}
`), root)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(facts, 1))
	qt.Assert(t, qt.IsTrue(val.Equal(facts[0].Value, val.Tag{Name: "True", Val: val.Unit{}})))

	_, err = DecodeFacts([]byte("facts:\n  - table: Nope\n    row: [1]\n"), root)
	qt.Assert(t, qt.IsNotNil(err))
}

func tableNamed(root *ir.Root, name string) (*ir.Symbol, bool) {
	for sym := range root.Tables {
		if sym.Name() == name {
			return sym, true
		}
	}
	return nil, false
}
