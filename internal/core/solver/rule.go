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
	"micalang.org/go/internal/core/eval"
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/store"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/errors"
)

// ruleEval evaluates single constraints against the current stores.
//
// A rule body is a join/filter pipeline over a stream of bindings. The
// stream is never materialized: body evaluates predicates in
// declaration order, extending or filtering the binding through
// recursion, and every binding surviving the full body reaches the
// head. Emissions are applied to the stores as they are produced;
// evaluating the same rule again against unchanged stores derives
// nothing new, so a pass is idempotent.
type ruleEval struct {
	ev   *eval.Evaluator
	root *ir.Root
	rels *store.Relations
	lats *store.Lattices
}

// Bindings reuse the evaluator's environment type: both map variable
// symbols to values with innermost-wins extension.
type binding = eval.Env

// evalConstraint derives everything the constraint can emit from the
// current store state and reports whether any store changed.
func (r *ruleEval) evalConstraint(c *ir.Constraint) (bool, error) {
	return r.body(c, c.Body, nil)
}

func (r *ruleEval) body(c *ir.Constraint, preds []ir.BodyPredicate, b *binding) (bool, error) {
	if len(preds) == 0 {
		return r.head(c, b)
	}
	rest := preds[1:]
	switch p := preds[0].(type) {
	case *ir.BodyAtom:
		if p.Negated {
			return r.negative(c, p, rest, b)
		}
		return r.positive(c, p, rest, b)
	case *ir.Filter:
		keep, err := r.filter(p, b)
		if err != nil || !keep {
			return false, err
		}
		return r.body(c, rest, b)
	case *ir.Loop:
		return r.loop(c, p, rest, b)
	}
	return false, errors.Newf(errors.TypeMismatch, preds[0].Pos(), "unknown body predicate %T", preds[0])
}

// positive extends the binding with every tuple of the atom's table
// that unifies with its terms.
func (r *ruleEval) positive(c *ir.Constraint, p *ir.BodyAtom, rest []ir.BodyPredicate, b *binding) (bool, error) {
	rows, err := r.rows(p, b)
	if err != nil {
		return false, err
	}
	changed := false
	for _, row := range rows {
		b1, ok, err := r.unifyRow(p.Terms, row, b)
		if err != nil {
			return changed, err
		}
		if !ok {
			continue
		}
		ch, err := r.body(c, rest, b1)
		changed = changed || ch
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// negative fails closed: the incoming binding survives iff no tuple of
// the table unifies. Its variables are bound by earlier predicates, so
// no binding escapes the atom.
func (r *ruleEval) negative(c *ir.Constraint, p *ir.BodyAtom, rest []ir.BodyPredicate, b *binding) (bool, error) {
	rows, err := r.rows(p, b)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		_, ok, err := r.unifyRow(p.Terms, row, b)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return r.body(c, rest, b)
}

// rows produces the candidate rows of an atom's table: relation tuples,
// or lattice entries flattened to key columns plus the value column.
// For relations, a declared index is probed instead of a full scan when
// the binding already determines every indexed column.
func (r *ruleEval) rows(p *ir.BodyAtom, b *binding) ([]val.Tuple, error) {
	switch t := r.root.Tables[p.Table].(type) {
	case *ir.Relation:
		if idx, partial, ok, err := r.probe(t, p, b); err != nil {
			return nil, err
		} else if ok {
			return r.rels.LookupByIndex(p.Table, idx, partial)
		}
		return r.rels.Scan(p.Table)
	case *ir.LatticeTable:
		entries, err := r.lats.Scan(p.Table)
		if err != nil {
			return nil, err
		}
		rows := make([]val.Tuple, len(entries))
		for i, e := range entries {
			row := make(val.Tuple, 0, len(e.Key)+1)
			row = append(row, e.Key...)
			row = append(row, e.Val)
			rows[i] = row
		}
		return rows, nil
	}
	return nil, errors.Newf(errors.TypeMismatch, p.Pos(), "no table %s", p.Table.Name())
}

// probe selects the first declared index whose every column is already
// determined by the binding, returning the partial key to look up.
func (r *ruleEval) probe(rel *ir.Relation, p *ir.BodyAtom, b *binding) (int, []val.Value, bool, error) {
nextIndex:
	for idx, cols := range rel.Indexes {
		partial := make([]val.Value, len(cols))
		for i, col := range cols {
			if col >= len(p.Terms) {
				continue nextIndex
			}
			v, ok, err := r.termValue(p.Terms[col], b)
			if err != nil {
				return 0, nil, false, err
			}
			if !ok {
				continue nextIndex
			}
			partial[i] = v
		}
		return idx, partial, true, nil
	}
	return 0, nil, false, nil
}

// termValue evaluates a body term to a value if the binding already
// determines it: a bound variable or a literal.
func (r *ruleEval) termValue(t ir.BodyTerm, b *binding) (val.Value, bool, error) {
	switch t := t.(type) {
	case *ir.BodyVar:
		v, ok := b.Lookup(t.Sym)
		return v, ok, nil
	case *ir.BodyLit:
		v, err := r.ev.Eval(t.E, b)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	return nil, false, nil
}

// unifyRow unifies the atom's terms against a row, extending b. The
// term and row lengths match by construction of the IR.
func (r *ruleEval) unifyRow(terms []ir.BodyTerm, row val.Tuple, b *binding) (*binding, bool, error) {
	for i, t := range terms {
		col := row[i]
		switch t := t.(type) {
		case *ir.WildTerm:
			// matches anything
		case *ir.BodyVar:
			if v, ok := b.Lookup(t.Sym); ok {
				if !val.Equal(v, col) {
					return nil, false, nil
				}
			} else {
				b = b.Bind(t.Sym, col)
			}
		case *ir.BodyLit:
			v, err := r.ev.Eval(t.E, b)
			if err != nil {
				return nil, false, err
			}
			if !val.Equal(v, col) {
				return nil, false, nil
			}
		case *ir.BodyPat:
			b1, ok, err := r.match(t.P, col, b)
			if err != nil || !ok {
				return nil, false, err
			}
			b = b1
		default:
			return nil, false, errors.Newf(errors.TypeMismatch, t.Pos(), "unknown body term %T", t)
		}
	}
	return b, true, nil
}

// match matches a pattern against a value, binding sub-variables.
func (r *ruleEval) match(p ir.Pattern, v val.Value, b *binding) (*binding, bool, error) {
	switch p := p.(type) {
	case *ir.PatWild:
		return b, true, nil
	case *ir.PatVar:
		if w, ok := b.Lookup(p.Sym); ok {
			return b, val.Equal(w, v), nil
		}
		return b.Bind(p.Sym, v), true, nil
	case *ir.PatLit:
		w, err := r.ev.Eval(p.E, b)
		if err != nil {
			return nil, false, err
		}
		return b, val.Equal(w, v), nil
	case *ir.PatTag:
		tag, ok := v.(val.Tag)
		if !ok || tag.Name != p.Tag {
			return b, false, nil
		}
		return r.match(p.P, tag.Val, b)
	case *ir.PatTuple:
		tup, ok := v.(val.Tuple)
		if !ok || len(tup) != len(p.Elms) {
			return b, false, nil
		}
		for i, sub := range p.Elms {
			b1, ok, err := r.match(sub, tup[i], b)
			if err != nil || !ok {
				return nil, false, err
			}
			b = b1
		}
		return b, true, nil
	}
	return nil, false, errors.Newf(errors.TypeMismatch, p.Pos(), "unknown pattern %T", p)
}

// filter keeps the binding iff applying the filter definition yields
// true.
func (r *ruleEval) filter(p *ir.Filter, b *binding) (bool, error) {
	args := make([]val.Value, len(p.Terms))
	for i, t := range p.Terms {
		v, ok, err := r.termValue(t, b)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, errors.Newf(errors.UnboundVariable, p.Pos(), "filter argument %d", i)
		}
		args[i] = v
	}
	v, err := r.ev.Invoke(p.Sym, args)
	if err != nil {
		return false, err
	}
	keep, ok := v.(val.Bool)
	if !ok {
		return false, errors.Newf(errors.TypeMismatch, p.Pos(), "filter %s returned %s, not a bool", p.Sym.Name(), val.String(v))
	}
	return bool(keep), nil
}

// loop binds the loop variable to each element of the generator's
// collection in turn, forking the binding stream.
func (r *ruleEval) loop(c *ir.Constraint, p *ir.Loop, rest []ir.BodyPredicate, b *binding) (bool, error) {
	coll, err := r.headTerm(p.Term, b)
	if err != nil {
		return false, err
	}
	elems, err := elements(p, coll)
	if err != nil {
		return false, err
	}
	changed := false
	for _, e := range elems {
		ch, err := r.body(c, rest, b.Bind(p.Sym, e))
		changed = changed || ch
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// elements enumerates a loop collection: a tuple yields its elements in
// order, a Cons/Nil tag chain yields the list elements.
func elements(p *ir.Loop, coll val.Value) ([]val.Value, error) {
	switch c := coll.(type) {
	case val.Tuple:
		return c, nil
	case val.Tag:
		var out []val.Value
		for {
			switch c.Name {
			case "Nil":
				return out, nil
			case "Cons":
				cell, ok := c.Val.(val.Tuple)
				if !ok || len(cell) != 2 {
					return nil, errors.Newf(errors.TypeMismatch, p.Pos(), "malformed Cons cell %s", val.String(c.Val))
				}
				out = append(out, cell[0])
				next, ok := cell[1].(val.Tag)
				if !ok {
					return nil, errors.Newf(errors.TypeMismatch, p.Pos(), "malformed list tail %s", val.String(cell[1]))
				}
				c = next
			default:
				return nil, errors.Newf(errors.TypeMismatch, p.Pos(), "loop over tag %s", c.Name)
			}
		}
	}
	return nil, errors.Newf(errors.TypeMismatch, p.Pos(), "loop over %s", val.String(coll))
}

// headTerm evaluates a head-position term under the binding.
func (r *ruleEval) headTerm(t ir.HeadTerm, b *binding) (val.Value, error) {
	switch t := t.(type) {
	case *ir.HeadVar:
		v, ok := b.Lookup(t.Sym)
		if !ok {
			return nil, errors.Newf(errors.UnboundVariable, t.Pos(), "head variable %s", t.Sym.Name())
		}
		return v, nil
	case *ir.HeadLit:
		return r.ev.Eval(t.E, b)
	case *ir.HeadApp:
		args := make([]val.Value, len(t.Args))
		for i, a := range t.Args {
			v, ok := b.Lookup(a)
			if !ok {
				return nil, errors.Newf(errors.UnboundVariable, t.Pos(), "argument %s of %s", a.Name(), t.Sym.Name())
			}
			args[i] = v
		}
		return r.ev.Invoke(t.Sym, args)
	}
	return nil, errors.Newf(errors.TypeMismatch, t.Pos(), "unknown head term %T", t)
}

// head processes a surviving binding: emit into the head table, or fail
// on an integrity constraint.
func (r *ruleEval) head(c *ir.Constraint, b *binding) (bool, error) {
	switch h := c.Head.(type) {
	case *ir.TrueHead:
		return false, nil
	case *ir.FalseHead:
		return false, errors.Newf(errors.IntegrityViolation, c.Pos(), "a binding satisfies the body of an integrity constraint")
	case *ir.HeadAtom:
		if h.Negated {
			// Negative heads exist for stratified dependency analysis
			// only; they derive nothing.
			return false, nil
		}
		vals := make([]val.Value, len(h.Terms))
		for i, t := range h.Terms {
			v, err := r.headTerm(t, b)
			if err != nil {
				return false, err
			}
			vals[i] = v
		}
		switch tab := r.root.Tables[h.Table].(type) {
		case *ir.Relation:
			return r.rels.Insert(h.Table, val.Tuple(vals))
		case *ir.LatticeTable:
			n := len(tab.Keys)
			if len(vals) != n+1 {
				return false, errors.Newf(errors.TypeMismatch, h.Pos(),
					"lattice head %s needs %d terms, got %d", h.Table.Name(), n+1, len(vals))
			}
			return r.lats.Upsert(h.Table, val.Tuple(vals[:n]), vals[n])
		}
		return false, errors.Newf(errors.TypeMismatch, h.Pos(), "no table %s", h.Table.Name())
	}
	return false, errors.Newf(errors.TypeMismatch, c.Pos(), "unknown head predicate %T", c.Head)
}
