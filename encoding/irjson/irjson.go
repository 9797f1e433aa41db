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

// Package irjson imports a compiled Root from its JSON rendering.
//
// The wire format is a direct rendering of the IR tree: every node is
// an object whose discriminator field selects the variant, with
// sub-terms in declaration order. Symbols are flattened into a table
// and referenced by id. Any format preserving discriminants and order
// would do; JSON is what the rest of the toolchain speaks.
package irjson

// Wire types. One struct per syntactic class, with a string
// discriminator and a union of the variants' payload fields.

type jRoot struct {
	Symbols    []jSymbol     `json:"symbols"`
	Defs       []jDef        `json:"defs,omitempty"`
	Enums      []jEnum       `json:"enums,omitempty"`
	Lattices   []jLattice    `json:"lattices,omitempty"`
	Tables     []jTable      `json:"tables,omitempty"`
	Strata     [][]*jRule    `json:"strata,omitempty"`
	Properties []*jRule      `json:"properties,omitempty"`
	Reachable  []int32       `json:"reachable,omitempty"`
}

type jSymbol struct {
	ID     int32  `json:"id"`
	Kind   string `json:"kind"` // var | def | enum | table
	Name   string `json:"name"`
	Offset int    `json:"offset,omitempty"`
}

type jType struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
}

type jLoc struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

type jDef struct {
	Sym     int32   `json:"sym"`
	Formals []int32 `json:"formals"`
	Type    jType   `json:"type"`
	Body    *jExpr  `json:"body"`
}

type jEnum struct {
	Sym   int32            `json:"sym"`
	Cases map[string]jType `json:"cases"`
}

type jLattice struct {
	Type jType  `json:"type"`
	Bot  *jExpr `json:"bot"`
	Top  *jExpr `json:"top"`
	Leq  *jExpr `json:"leq"`
	Lub  *jExpr `json:"lub"`
	Glb  *jExpr `json:"glb"`
}

type jAttr struct {
	Name string `json:"name"`
	Type jType  `json:"type"`
}

type jTable struct {
	Sym     int32   `json:"sym"`
	Kind    string  `json:"kind"` // relation | lattice
	Attrs   []jAttr `json:"attrs,omitempty"`
	Indexes [][]int `json:"indexes,omitempty"`
	Keys    []jAttr `json:"keys,omitempty"`
	Value   *jAttr  `json:"value,omitempty"`
}

type jExpr struct {
	Expr string `json:"expr"`
	Type jType  `json:"type"`
	Loc  *jLoc  `json:"loc,omitempty"`

	Bool   bool     `json:"bool,omitempty"`
	Char   string   `json:"char,omitempty"`
	Float  float64  `json:"float,omitempty"`
	Int    int64    `json:"int,omitempty"`
	Big    string   `json:"big,omitempty"`
	Str    string   `json:"str,omitempty"`
	Sym    int32    `json:"sym,omitempty"`
	Syms   []int32  `json:"syms,omitempty"`
	Name   string   `json:"name,omitempty"`
	Tag    string   `json:"tag,omitempty"`
	Op     string   `json:"op,omitempty"`
	Offset int      `json:"offset,omitempty"`
	Args   []*jExpr `json:"args,omitempty"`
	Elms   []*jExpr `json:"elms,omitempty"`
	Fn     *jExpr   `json:"fn,omitempty"`
	E      *jExpr   `json:"e,omitempty"`
	E1     *jExpr   `json:"e1,omitempty"`
	E2     *jExpr   `json:"e2,omitempty"`
	Cond   *jExpr   `json:"cond,omitempty"`
	Then   *jExpr   `json:"then,omitempty"`
	Else   *jExpr   `json:"else,omitempty"`
}

type jRule struct {
	Head   *jHead      `json:"head"`
	Body   []*jBodyPred `json:"body,omitempty"`
	Params []int32     `json:"params,omitempty"`
	Loc    *jLoc       `json:"loc,omitempty"`
}

type jHead struct {
	Pred    string       `json:"pred"` // true | false | atom
	Table   int32        `json:"table,omitempty"`
	Terms   []*jHeadTerm `json:"terms,omitempty"`
	Negated bool         `json:"negated,omitempty"`
	Loc     *jLoc        `json:"loc,omitempty"`
}

type jBodyPred struct {
	Pred    string       `json:"pred"` // atom | filter | loop
	Table   int32        `json:"table,omitempty"`
	Terms   []*jBodyTerm `json:"terms,omitempty"`
	Negated bool         `json:"negated,omitempty"`
	Sym     int32        `json:"sym,omitempty"`
	Term    *jHeadTerm   `json:"term,omitempty"`
	Loc     *jLoc        `json:"loc,omitempty"`
}

type jHeadTerm struct {
	Term string  `json:"term"` // var | lit | app
	Sym  int32   `json:"sym,omitempty"`
	E    *jExpr  `json:"e,omitempty"`
	Args []int32 `json:"args,omitempty"`
	Loc  *jLoc   `json:"loc,omitempty"`
}

type jBodyTerm struct {
	Term string    `json:"term"` // wild | var | lit | pat
	Sym  int32     `json:"sym,omitempty"`
	E    *jExpr    `json:"e,omitempty"`
	Pat  *jPattern `json:"pat,omitempty"`
	Loc  *jLoc     `json:"loc,omitempty"`
}

type jPattern struct {
	Pat  string      `json:"pat"` // wild | var | lit | tag | tuple
	Sym  int32       `json:"sym,omitempty"`
	E    *jExpr      `json:"e,omitempty"`
	Enum int32       `json:"enum,omitempty"`
	Tag  string      `json:"tag,omitempty"`
	P    *jPattern   `json:"p,omitempty"`
	Elms []*jPattern `json:"elms,omitempty"`
	Loc  *jLoc       `json:"loc,omitempty"`
}
