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

import "micalang.org/go/mica/token"

// A Constraint is a Horn-like rule with a single head predicate and an
// ordered body. Params lists the rule's variables in order of first
// occurrence; the solver does not read it.
type Constraint struct {
	Head   HeadPredicate
	Body   []BodyPredicate
	Params []*Symbol
	At     token.Pos
}

func (c *Constraint) Pos() token.Pos { return c.At }

// IsFact reports whether the constraint has an empty body.
func (c *Constraint) IsFact() bool { return len(c.Body) == 0 }

// HeadPredicate is the head of a constraint.
type HeadPredicate interface {
	Pos() token.Pos
	headPred()
}

// TrueHead derives nothing. A constraint with a TrueHead is a no-op.
type TrueHead struct{ At token.Pos }

// FalseHead marks an integrity constraint: any binding surviving the
// body is an integrity violation.
type FalseHead struct{ At token.Pos }

// HeadAtom emits into Table. Negated head atoms take part in
// stratification analysis only; they derive nothing.
type HeadAtom struct {
	Table   *Symbol
	Terms   []HeadTerm
	Negated bool
	At      token.Pos
}

func (h *TrueHead) Pos() token.Pos  { return h.At }
func (h *FalseHead) Pos() token.Pos { return h.At }
func (h *HeadAtom) Pos() token.Pos  { return h.At }

func (*TrueHead) headPred()  {}
func (*FalseHead) headPred() {}
func (*HeadAtom) headPred()  {}

// BodyPredicate is one element of a constraint body. The solver
// processes body predicates strictly in declaration order.
type BodyPredicate interface {
	Pos() token.Pos
	bodyPred()
}

// BodyAtom matches tuples of Table. A negated atom keeps the incoming
// binding iff no tuple matches; all its variables must be bound by
// earlier predicates.
type BodyAtom struct {
	Table   *Symbol
	Terms   []BodyTerm
	Negated bool
	At      token.Pos
}

// Filter keeps a binding iff applying the definition Sym to the term
// values yields true.
type Filter struct {
	Sym   *Symbol
	Terms []BodyTerm
	At    token.Pos
}

// Loop binds Sym to each element of the collection that Term evaluates
// to, forking the binding stream.
type Loop struct {
	Sym  *Symbol
	Term HeadTerm
	At   token.Pos
}

func (p *BodyAtom) Pos() token.Pos { return p.At }
func (p *Filter) Pos() token.Pos   { return p.At }
func (p *Loop) Pos() token.Pos     { return p.At }

func (*BodyAtom) bodyPred() {}
func (*Filter) bodyPred()   {}
func (*Loop) bodyPred()     {}

// HeadTerm is a term in head position: a bound variable, a literal
// expression, or the application of a definition to bound variables.
type HeadTerm interface {
	Pos() token.Pos
	headTerm()
}

type HeadVar struct {
	Sym *Symbol
	At  token.Pos
}

type HeadLit struct {
	E Expr
}

type HeadApp struct {
	Sym  *Symbol
	Args []*Symbol
	At   token.Pos
}

func (t *HeadVar) Pos() token.Pos { return t.At }
func (t *HeadLit) Pos() token.Pos { return t.E.Pos() }
func (t *HeadApp) Pos() token.Pos { return t.At }

func (*HeadVar) headTerm() {}
func (*HeadLit) headTerm() {}
func (*HeadApp) headTerm() {}

// BodyTerm is a term in body position: a wildcard, a variable, a
// literal expression, or a pattern.
type BodyTerm interface {
	Pos() token.Pos
	bodyTerm()
}

type WildTerm struct{ At token.Pos }

type BodyVar struct {
	Sym *Symbol
	At  token.Pos
}

type BodyLit struct {
	E Expr
}

type BodyPat struct {
	P Pattern
}

func (t *WildTerm) Pos() token.Pos { return t.At }
func (t *BodyVar) Pos() token.Pos  { return t.At }
func (t *BodyLit) Pos() token.Pos  { return t.E.Pos() }
func (t *BodyPat) Pos() token.Pos  { return t.P.Pos() }

func (*WildTerm) bodyTerm() {}
func (*BodyVar) bodyTerm()  {}
func (*BodyLit) bodyTerm()  {}
func (*BodyPat) bodyTerm()  {}

// Pattern matches a tuple column against tags, nested tuples, and
// literals, binding sub-variables on success.
type Pattern interface {
	Pos() token.Pos
	patternNode()
}

type PatWild struct{ At token.Pos }

type PatVar struct {
	Sym *Symbol
	At  token.Pos
}

type PatLit struct {
	E Expr
}

// PatTag matches a tag value with case Tag of enum Sym and matches the
// payload against P.
type PatTag struct {
	Sym *Symbol
	Tag string
	P   Pattern
	At  token.Pos
}

type PatTuple struct {
	Elms []Pattern
	At   token.Pos
}

func (p *PatWild) Pos() token.Pos  { return p.At }
func (p *PatVar) Pos() token.Pos   { return p.At }
func (p *PatLit) Pos() token.Pos   { return p.E.Pos() }
func (p *PatTag) Pos() token.Pos   { return p.At }
func (p *PatTuple) Pos() token.Pos { return p.At }

func (*PatWild) patternNode()  {}
func (*PatVar) patternNode()   {}
func (*PatLit) patternNode()   {}
func (*PatTag) patternNode()   {}
func (*PatTuple) patternNode() {}
