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
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"micalang.org/go/internal/core/ir"
	"micalang.org/go/mica/token"
)

// Decode parses a JSON-encoded Root.
func Decode(data []byte) (*ir.Root, error) {
	var jr jRoot
	if err := json.Unmarshal(data, &jr); err != nil {
		return nil, fmt.Errorf("irjson: %w", err)
	}
	d := &decoder{files: &token.FileSet{}}

	syms := ir.NewSymbolTable()
	for i, js := range jr.Symbols {
		if int(js.ID) != i {
			return nil, fmt.Errorf("irjson: symbol %q has id %d at position %d", js.Name, js.ID, i)
		}
		switch js.Kind {
		case "var":
			syms.Var(js.Name, js.Offset)
		case "def":
			syms.Def(js.Name)
		case "enum":
			syms.Enum(js.Name)
		case "table":
			syms.Table(js.Name)
		default:
			return nil, fmt.Errorf("irjson: unknown symbol kind %q", js.Kind)
		}
	}
	d.syms = syms

	root := ir.NewRoot(syms)

	for _, jt := range jr.Tables {
		sym, err := d.sym(jt.Sym, ir.TableSym)
		if err != nil {
			return nil, err
		}
		switch jt.Kind {
		case "relation":
			attrs, err := d.attrs(jt.Attrs)
			if err != nil {
				return nil, err
			}
			root.Tables[sym] = &ir.Relation{TSym: sym, Attributes: attrs, Indexes: jt.Indexes}
		case "lattice":
			keys, err := d.attrs(jt.Keys)
			if err != nil {
				return nil, err
			}
			if jt.Value == nil {
				return nil, fmt.Errorf("irjson: lattice table %s has no value attribute", sym.Name())
			}
			vt, err := d.typ(jt.Value.Type)
			if err != nil {
				return nil, err
			}
			root.Tables[sym] = &ir.LatticeTable{
				TSym: sym,
				Keys: keys,
				Value: ir.Attribute{Name: jt.Value.Name, Tpe: vt},
			}
		default:
			return nil, fmt.Errorf("irjson: unknown table kind %q", jt.Kind)
		}
	}

	for _, je := range jr.Enums {
		sym, err := d.sym(je.Sym, ir.EnumSym)
		if err != nil {
			return nil, err
		}
		cases := make(map[string]ir.Type, len(je.Cases))
		for name, jt := range je.Cases {
			t, err := d.typ(jt)
			if err != nil {
				return nil, err
			}
			cases[name] = t
		}
		root.Enums[sym] = &ir.Enum{Sym: sym, Cases: cases}
	}

	for _, jd := range jr.Defs {
		sym, err := d.sym(jd.Sym, ir.DefSym)
		if err != nil {
			return nil, err
		}
		formals, err := d.varSyms(jd.Formals)
		if err != nil {
			return nil, err
		}
		t, err := d.typ(jd.Type)
		if err != nil {
			return nil, err
		}
		body, err := d.expr(jd.Body)
		if err != nil {
			return nil, err
		}
		root.Defs[sym] = &ir.Def{Sym: sym, Formals: formals, Body: body, Tpe: t}
	}

	for _, jl := range jr.Lattices {
		t, err := d.typ(jl.Type)
		if err != nil {
			return nil, err
		}
		ops := &ir.LatticeOps{}
		for _, f := range []struct {
			dst *ir.Expr
			src *jExpr
			tag string
		}{
			{&ops.Bot, jl.Bot, "bot"},
			{&ops.Top, jl.Top, "top"},
			{&ops.Leq, jl.Leq, "leq"},
			{&ops.Lub, jl.Lub, "lub"},
			{&ops.Glb, jl.Glb, "glb"},
		} {
			if f.src == nil {
				return nil, fmt.Errorf("irjson: lattice %s lacks %s", t, f.tag)
			}
			e, err := d.expr(f.src)
			if err != nil {
				return nil, err
			}
			*f.dst = e
		}
		root.Lattices[t] = ops
	}

	for _, js := range jr.Strata {
		var stratum ir.Stratum
		for _, jc := range js {
			c, err := d.rule(jc)
			if err != nil {
				return nil, err
			}
			stratum.Constraints = append(stratum.Constraints, c)
		}
		root.Strata = append(root.Strata, stratum)
	}

	for _, jc := range jr.Properties {
		c, err := d.rule(jc)
		if err != nil {
			return nil, err
		}
		root.Properties = append(root.Properties, c)
	}

	if len(jr.Reachable) > 0 {
		root.Reachable = make(map[*ir.Symbol]bool, len(jr.Reachable))
		for _, id := range jr.Reachable {
			s := syms.ByID(id)
			if s == nil {
				return nil, fmt.Errorf("irjson: unknown reachable symbol %d", id)
			}
			root.Reachable[s] = true
		}
	}

	return root, nil
}

type decoder struct {
	syms  *ir.SymbolTable
	files *token.FileSet
}

func (d *decoder) sym(id int32, kind ir.SymbolKind) (*ir.Symbol, error) {
	s := d.syms.ByID(id)
	if s == nil {
		return nil, fmt.Errorf("irjson: unknown symbol %d", id)
	}
	if s.Kind() != kind {
		return nil, fmt.Errorf("irjson: symbol %s is a %s, want %s", s.Name(), s.Kind(), kind)
	}
	return s, nil
}

func (d *decoder) varSyms(ids []int32) ([]*ir.Symbol, error) {
	out := make([]*ir.Symbol, len(ids))
	for i, id := range ids {
		s, err := d.sym(id, ir.VarSym)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (d *decoder) pos(l *jLoc) token.Pos {
	if l == nil || l.Line == 0 {
		return token.NoPos
	}
	return d.files.AddFile(l.File).Pos(l.Line, l.Col)
}

var typeKinds = map[string]ir.TypeKind{
	"unit":    ir.UnitKind,
	"bool":    ir.BoolKind,
	"char":    ir.CharKind,
	"float32": ir.Float32Kind,
	"float64": ir.Float64Kind,
	"int8":    ir.Int8Kind,
	"int16":   ir.Int16Kind,
	"int32":   ir.Int32Kind,
	"int64":   ir.Int64Kind,
	"bigint":  ir.BigIntKind,
	"str":     ir.StrKind,
	"tuple":   ir.TupleKind,
	"ref":     ir.RefKind,
	"fn":      ir.FnKind,
	"named":   ir.NamedKind,
}

func (d *decoder) typ(jt jType) (ir.Type, error) {
	k, ok := typeKinds[jt.Kind]
	if !ok {
		return ir.Type{}, fmt.Errorf("irjson: unknown type kind %q", jt.Kind)
	}
	if k == ir.NamedKind && jt.Name == "" {
		return ir.Type{}, fmt.Errorf("irjson: named type without a name")
	}
	return ir.Type{K: k, Name: jt.Name}, nil
}

func (d *decoder) attrs(jas []jAttr) ([]ir.Attribute, error) {
	out := make([]ir.Attribute, len(jas))
	for i, ja := range jas {
		t, err := d.typ(ja.Type)
		if err != nil {
			return nil, err
		}
		out[i] = ir.Attribute{Name: ja.Name, Tpe: t}
	}
	return out, nil
}

var unaryOps = map[string]ir.UnaryOp{
	"not":    ir.LogicalNot,
	"plus":   ir.UnaryPlus,
	"minus":  ir.UnaryMinus,
	"negate": ir.BitwiseNegate,
}

var binaryOps = map[string]ir.BinaryOp{
	"add": ir.Plus,
	"sub": ir.Minus,
	"mul": ir.Times,
	"div": ir.Divide,
	"mod": ir.Modulo,
	"exp": ir.Exponentiate,
	"lt":  ir.Less,
	"le":  ir.LessEqual,
	"gt":  ir.Greater,
	"ge":  ir.GreaterEqual,
	"eq":  ir.Equal,
	"ne":  ir.NotEqual,
	"and": ir.LogicalAnd,
	"or":  ir.LogicalOr,
	"band": ir.BitwiseAnd,
	"bor":  ir.BitwiseOr,
	"bxor": ir.BitwiseXor,
	"shl":  ir.BitwiseLeftShift,
	"shr":  ir.BitwiseRightShift,
}

func (d *decoder) exprs(js []*jExpr) ([]ir.Expr, error) {
	out := make([]ir.Expr, len(js))
	for i, je := range js {
		e, err := d.expr(je)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (d *decoder) expr(je *jExpr) (ir.Expr, error) {
	if je == nil {
		return nil, fmt.Errorf("irjson: missing expression")
	}
	t, err := d.typ(je.Type)
	if err != nil {
		return nil, err
	}
	base := ir.At(t, d.pos(je.Loc))

	switch je.Expr {
	case "unit":
		return &ir.UnitLit{Base: base}, nil
	case "bool":
		return &ir.BoolLit{Base: base, B: je.Bool}, nil
	case "char":
		rs := []rune(je.Char)
		if len(rs) != 1 {
			return nil, fmt.Errorf("irjson: char literal %q", je.Char)
		}
		return &ir.CharLit{Base: base, C: rs[0]}, nil
	case "f32":
		return &ir.Float32Lit{Base: base, F: float32(je.Float)}, nil
	case "f64":
		return &ir.Float64Lit{Base: base, F: je.Float}, nil
	case "i8":
		return &ir.Int8Lit{Base: base, I: int8(je.Int)}, nil
	case "i16":
		return &ir.Int16Lit{Base: base, I: int16(je.Int)}, nil
	case "i32":
		return &ir.Int32Lit{Base: base, I: int32(je.Int)}, nil
	case "i64":
		return &ir.Int64Lit{Base: base, I: je.Int}, nil
	case "bigint":
		x, ok := new(apd.BigInt).SetString(je.Big, 10)
		if !ok {
			return nil, fmt.Errorf("irjson: bigint literal %q", je.Big)
		}
		return &ir.BigIntLit{Base: base, X: x}, nil
	case "str":
		return &ir.StrLit{Base: base, S: je.Str}, nil

	case "var":
		s, err := d.sym(je.Sym, ir.VarSym)
		if err != nil {
			return nil, err
		}
		return &ir.VarRef{Base: base, Sym: s}, nil

	case "def":
		s, err := d.sym(je.Sym, ir.DefSym)
		if err != nil {
			return nil, err
		}
		return &ir.DefRef{Base: base, Sym: s}, nil

	case "mkclosure":
		s, err := d.sym(je.Sym, ir.DefSym)
		if err != nil {
			return nil, err
		}
		fvs, err := d.varSyms(je.Syms)
		if err != nil {
			return nil, err
		}
		return &ir.MkClosure{Base: base, Sym: s, FreeVars: fvs}, nil

	case "applydef", "applytail":
		s, err := d.sym(je.Sym, ir.DefSym)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(je.Args)
		if err != nil {
			return nil, err
		}
		if je.Expr == "applytail" {
			return &ir.ApplyTail{Base: base, Sym: s, Args: args}, nil
		}
		return &ir.ApplyDef{Base: base, Sym: s, Args: args}, nil

	case "applyhook":
		args, err := d.exprs(je.Args)
		if err != nil {
			return nil, err
		}
		return &ir.ApplyHook{Base: base, Name: je.Name, Args: args}, nil

	case "applyclosure":
		fn, err := d.expr(je.Fn)
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(je.Args)
		if err != nil {
			return nil, err
		}
		return &ir.ApplyClosure{Base: base, Fn: fn, Args: args}, nil

	case "unary":
		op, ok := unaryOps[je.Op]
		if !ok {
			return nil, fmt.Errorf("irjson: unknown unary op %q", je.Op)
		}
		e, err := d.expr(je.E)
		if err != nil {
			return nil, err
		}
		return &ir.Unary{Base: base, Op: op, E: e}, nil

	case "binary":
		op, ok := binaryOps[je.Op]
		if !ok {
			return nil, fmt.Errorf("irjson: unknown binary op %q", je.Op)
		}
		e1, err := d.expr(je.E1)
		if err != nil {
			return nil, err
		}
		e2, err := d.expr(je.E2)
		if err != nil {
			return nil, err
		}
		return &ir.Binary{Base: base, Op: op, E1: e1, E2: e2}, nil

	case "if":
		cond, err := d.expr(je.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.expr(je.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.expr(je.Else)
		if err != nil {
			return nil, err
		}
		return &ir.IfThenElse{Base: base, Cond: cond, Then: then, Else: els}, nil

	case "let", "letrec":
		s, err := d.sym(je.Sym, ir.VarSym)
		if err != nil {
			return nil, err
		}
		e1, err := d.expr(je.E1)
		if err != nil {
			return nil, err
		}
		e2, err := d.expr(je.E2)
		if err != nil {
			return nil, err
		}
		if je.Expr == "letrec" {
			return &ir.LetRec{Base: base, Sym: s, E1: e1, E2: e2}, nil
		}
		return &ir.Let{Base: base, Sym: s, E1: e1, E2: e2}, nil

	case "is", "tag", "untag":
		s, err := d.sym(je.Sym, ir.EnumSym)
		if err != nil {
			return nil, err
		}
		e, err := d.expr(je.E)
		if err != nil {
			return nil, err
		}
		switch je.Expr {
		case "is":
			return &ir.Is{Base: base, Sym: s, Tag: je.Tag, E: e}, nil
		case "tag":
			return &ir.MkTag{Base: base, Sym: s, Tag: je.Tag, E: e}, nil
		default:
			return &ir.Untag{Base: base, Sym: s, Tag: je.Tag, E: e}, nil
		}

	case "index":
		e, err := d.expr(je.E)
		if err != nil {
			return nil, err
		}
		return &ir.Index{Base: base, Exp: e, Offset: je.Offset}, nil

	case "tuple":
		elms, err := d.exprs(je.Elms)
		if err != nil {
			return nil, err
		}
		return &ir.MkTuple{Base: base, Elms: elms}, nil

	case "ref", "deref":
		e, err := d.expr(je.E)
		if err != nil {
			return nil, err
		}
		if je.Expr == "ref" {
			return &ir.Ref{Base: base, E: e}, nil
		}
		return &ir.Deref{Base: base, E: e}, nil

	case "assign":
		e1, err := d.expr(je.E1)
		if err != nil {
			return nil, err
		}
		e2, err := d.expr(je.E2)
		if err != nil {
			return nil, err
		}
		return &ir.Assign{Base: base, E1: e1, E2: e2}, nil

	case "nativector":
		args, err := d.exprs(je.Args)
		if err != nil {
			return nil, err
		}
		return &ir.NativeConstructor{Base: base, Name: je.Name, Args: args}, nil

	case "nativefield":
		return &ir.NativeField{Base: base, Name: je.Name}, nil

	case "nativemethod":
		args, err := d.exprs(je.Args)
		if err != nil {
			return nil, err
		}
		return &ir.NativeMethod{Base: base, Name: je.Name, Args: args}, nil

	case "usererror":
		return &ir.UserError{Base: base}, nil
	case "matcherror":
		return &ir.MatchError{Base: base}, nil
	case "switcherror":
		return &ir.SwitchError{Base: base}, nil

	case "exists", "forall":
		params, err := d.varSyms(je.Syms)
		if err != nil {
			return nil, err
		}
		e, err := d.expr(je.E)
		if err != nil {
			return nil, err
		}
		if je.Expr == "exists" {
			return &ir.Existential{Base: base, Params: params, E: e}, nil
		}
		return &ir.Universal{Base: base, Params: params, E: e}, nil
	}
	return nil, fmt.Errorf("irjson: unknown expression %q", je.Expr)
}

func (d *decoder) rule(jc *jRule) (*ir.Constraint, error) {
	if jc == nil || jc.Head == nil {
		return nil, fmt.Errorf("irjson: constraint without a head")
	}
	head, err := d.head(jc.Head)
	if err != nil {
		return nil, err
	}
	body := make([]ir.BodyPredicate, len(jc.Body))
	for i, jp := range jc.Body {
		p, err := d.bodyPred(jp)
		if err != nil {
			return nil, err
		}
		body[i] = p
	}
	params, err := d.varSyms(jc.Params)
	if err != nil {
		return nil, err
	}
	return &ir.Constraint{Head: head, Body: body, Params: params, At: d.pos(jc.Loc)}, nil
}

func (d *decoder) head(jh *jHead) (ir.HeadPredicate, error) {
	switch jh.Pred {
	case "true":
		return &ir.TrueHead{At: d.pos(jh.Loc)}, nil
	case "false":
		return &ir.FalseHead{At: d.pos(jh.Loc)}, nil
	case "atom":
		s, err := d.sym(jh.Table, ir.TableSym)
		if err != nil {
			return nil, err
		}
		terms := make([]ir.HeadTerm, len(jh.Terms))
		for i, jt := range jh.Terms {
			t, err := d.headTerm(jt)
			if err != nil {
				return nil, err
			}
			terms[i] = t
		}
		return &ir.HeadAtom{Table: s, Terms: terms, Negated: jh.Negated, At: d.pos(jh.Loc)}, nil
	}
	return nil, fmt.Errorf("irjson: unknown head predicate %q", jh.Pred)
}

func (d *decoder) bodyPred(jp *jBodyPred) (ir.BodyPredicate, error) {
	switch jp.Pred {
	case "atom":
		s, err := d.sym(jp.Table, ir.TableSym)
		if err != nil {
			return nil, err
		}
		terms := make([]ir.BodyTerm, len(jp.Terms))
		for i, jt := range jp.Terms {
			t, err := d.bodyTerm(jt)
			if err != nil {
				return nil, err
			}
			terms[i] = t
		}
		return &ir.BodyAtom{Table: s, Terms: terms, Negated: jp.Negated, At: d.pos(jp.Loc)}, nil
	case "filter":
		s, err := d.sym(jp.Sym, ir.DefSym)
		if err != nil {
			return nil, err
		}
		terms := make([]ir.BodyTerm, len(jp.Terms))
		for i, jt := range jp.Terms {
			t, err := d.bodyTerm(jt)
			if err != nil {
				return nil, err
			}
			terms[i] = t
		}
		return &ir.Filter{Sym: s, Terms: terms, At: d.pos(jp.Loc)}, nil
	case "loop":
		s, err := d.sym(jp.Sym, ir.VarSym)
		if err != nil {
			return nil, err
		}
		if jp.Term == nil {
			return nil, fmt.Errorf("irjson: loop without a generator term")
		}
		t, err := d.headTerm(jp.Term)
		if err != nil {
			return nil, err
		}
		return &ir.Loop{Sym: s, Term: t, At: d.pos(jp.Loc)}, nil
	}
	return nil, fmt.Errorf("irjson: unknown body predicate %q", jp.Pred)
}

func (d *decoder) headTerm(jt *jHeadTerm) (ir.HeadTerm, error) {
	switch jt.Term {
	case "var":
		s, err := d.sym(jt.Sym, ir.VarSym)
		if err != nil {
			return nil, err
		}
		return &ir.HeadVar{Sym: s, At: d.pos(jt.Loc)}, nil
	case "lit":
		e, err := d.expr(jt.E)
		if err != nil {
			return nil, err
		}
		return &ir.HeadLit{E: e}, nil
	case "app":
		s, err := d.sym(jt.Sym, ir.DefSym)
		if err != nil {
			return nil, err
		}
		args, err := d.varSyms(jt.Args)
		if err != nil {
			return nil, err
		}
		return &ir.HeadApp{Sym: s, Args: args, At: d.pos(jt.Loc)}, nil
	}
	return nil, fmt.Errorf("irjson: unknown head term %q", jt.Term)
}

func (d *decoder) bodyTerm(jt *jBodyTerm) (ir.BodyTerm, error) {
	switch jt.Term {
	case "wild":
		return &ir.WildTerm{At: d.pos(jt.Loc)}, nil
	case "var":
		s, err := d.sym(jt.Sym, ir.VarSym)
		if err != nil {
			return nil, err
		}
		return &ir.BodyVar{Sym: s, At: d.pos(jt.Loc)}, nil
	case "lit":
		e, err := d.expr(jt.E)
		if err != nil {
			return nil, err
		}
		return &ir.BodyLit{E: e}, nil
	case "pat":
		p, err := d.pattern(jt.Pat)
		if err != nil {
			return nil, err
		}
		return &ir.BodyPat{P: p}, nil
	}
	return nil, fmt.Errorf("irjson: unknown body term %q", jt.Term)
}

func (d *decoder) pattern(jp *jPattern) (ir.Pattern, error) {
	if jp == nil {
		return nil, fmt.Errorf("irjson: missing pattern")
	}
	switch jp.Pat {
	case "wild":
		return &ir.PatWild{At: d.pos(jp.Loc)}, nil
	case "var":
		s, err := d.sym(jp.Sym, ir.VarSym)
		if err != nil {
			return nil, err
		}
		return &ir.PatVar{Sym: s, At: d.pos(jp.Loc)}, nil
	case "lit":
		e, err := d.expr(jp.E)
		if err != nil {
			return nil, err
		}
		return &ir.PatLit{E: e}, nil
	case "tag":
		s, err := d.sym(jp.Enum, ir.EnumSym)
		if err != nil {
			return nil, err
		}
		p, err := d.pattern(jp.P)
		if err != nil {
			return nil, err
		}
		return &ir.PatTag{Sym: s, Tag: jp.Tag, P: p, At: d.pos(jp.Loc)}, nil
	case "tuple":
		elms := make([]ir.Pattern, len(jp.Elms))
		for i, je := range jp.Elms {
			p, err := d.pattern(je)
			if err != nil {
				return nil, err
			}
			elms[i] = p
		}
		return &ir.PatTuple{Elms: elms, At: d.pos(jp.Loc)}, nil
	}
	return nil, fmt.Errorf("irjson: unknown pattern %q", jp.Pat)
}
