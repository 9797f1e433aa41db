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

package eval_test

import (
	"math"
	"testing"

	"github.com/go-quicktest/qt"

	"micalang.org/go/internal/core/eval"
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/errors"
	"micalang.org/go/mica/token"
)

// Expression shorthands. Every helper fills in the static type tag the
// upstream type checker would have produced.

func i32(n int32) ir.Expr {
	return &ir.Int32Lit{Base: at(ir.Int32Type), I: n}
}

func i64(n int64) ir.Expr {
	return &ir.Int64Lit{Base: at(ir.Int64Type), I: n}
}

func i8(n int8) ir.Expr {
	return &ir.Int8Lit{Base: at(ir.Int8Type), I: n}
}

func f64(f float64) ir.Expr {
	return &ir.Float64Lit{Base: at(ir.Float64Type), F: f}
}

func boolE(b bool) ir.Expr {
	return &ir.BoolLit{Base: at(ir.BoolType), B: b}
}

func strE(s string) ir.Expr {
	return &ir.StrLit{Base: at(ir.StrType), S: s}
}

func bin(op ir.BinaryOp, t ir.Type, e1, e2 ir.Expr) ir.Expr {
	return &ir.Binary{Base: at(t), Op: op, E1: e1, E2: e2}
}

func un(op ir.UnaryOp, t ir.Type, e ir.Expr) ir.Expr {
	return &ir.Unary{Base: at(t), Op: op, E: e}
}

func varE(sym *ir.Symbol, t ir.Type) ir.Expr {
	return &ir.VarRef{Base: at(t), Sym: sym}
}

func letE(sym *ir.Symbol, e1, e2 ir.Expr) ir.Expr {
	return &ir.Let{Base: at(e2.Type()), Sym: sym, E1: e1, E2: e2}
}

func ifE(cond, then, els ir.Expr) ir.Expr {
	return &ir.IfThenElse{Base: at(then.Type()), Cond: cond, Then: then, Else: els}
}

// seq evaluates e1 for effect, then e2, via a throwaway let binding.
func seq(syms *ir.SymbolTable, e1, e2 ir.Expr) ir.Expr {
	return letE(syms.Var("_seq", 0), e1, e2)
}

func eq(e1, e2 ir.Expr) ir.Expr { return bin(ir.Equal, ir.BoolType, e1, e2) }

// All test expressions share NoPos.
func at(t ir.Type) ir.Base { return ir.At(t, token.NoPos) }

func newEvaluator(t *testing.T, root *ir.Root, linker *eval.Linker) *eval.Evaluator {
	t.Helper()
	return eval.New(root, linker)
}

func evalOK(t *testing.T, ev *eval.Evaluator, e ir.Expr) val.Value {
	t.Helper()
	v, err := ev.Eval(e, nil)
	qt.Assert(t, qt.IsNil(err))
	return v
}

func evalKind(t *testing.T, ev *eval.Evaluator, e ir.Expr) errors.Kind {
	t.Helper()
	_, err := ev.Eval(e, nil)
	qt.Assert(t, qt.IsNotNil(err))
	return errors.KindOf(err)
}

func TestArithmetic(t *testing.T) {
	ev := newEvaluator(t, ir.NewRoot(nil), nil)

	testCases := []struct {
		name string
		e    ir.Expr
		want val.Value
	}{
		{"add", bin(ir.Plus, ir.Int32Type, i32(2), i32(3)), val.Int32(5)},
		{"sub", bin(ir.Minus, ir.Int32Type, i32(2), i32(3)), val.Int32(-1)},
		{"mul", bin(ir.Times, ir.Int32Type, i32(6), i32(7)), val.Int32(42)},
		{"div", bin(ir.Divide, ir.Int32Type, i32(7), i32(2)), val.Int32(3)},
		{"mod", bin(ir.Modulo, ir.Int32Type, i32(7), i32(2)), val.Int32(1)},
		{"exp", bin(ir.Exponentiate, ir.Int32Type, i32(2), i32(10)), val.Int32(1024)},
		{"wrap i8", bin(ir.Plus, ir.Int8Type, i8(127), i8(1)), val.Int8(-128)},
		{"i64", bin(ir.Times, ir.Int64Type, i64(1<<31), i64(2)), val.Int64(1 << 32)},
		{"float div", bin(ir.Divide, ir.Float64Type, f64(1), f64(2)), val.Float64(0.5)},
		{"neg", un(ir.UnaryMinus, ir.Int32Type, i32(5)), val.Int32(-5)},
		{"bit not", un(ir.BitwiseNegate, ir.Int32Type, i32(0)), val.Int32(-1)},
		{"shl", bin(ir.BitwiseLeftShift, ir.Int32Type, i32(1), i32(4)), val.Int32(16)},
		{"shr signed", bin(ir.BitwiseRightShift, ir.Int32Type, i32(-8), i32(1)), val.Int32(-4)},
		{"and", bin(ir.BitwiseAnd, ir.Int32Type, i32(6), i32(3)), val.Int32(2)},
		{"xor", bin(ir.BitwiseXor, ir.Int32Type, i32(6), i32(3)), val.Int32(5)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalOK(t, ev, tc.e)
			qt.Assert(t, qt.IsTrue(val.Equal(got, tc.want)),
				qt.Commentf("got %s, want %s", val.String(got), val.String(tc.want)))
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	ev := newEvaluator(t, ir.NewRoot(nil), nil)

	k := evalKind(t, ev, bin(ir.Divide, ir.Int32Type, i32(1), i32(0)))
	qt.Assert(t, qt.Equals(k, errors.Arithmetic))

	k = evalKind(t, ev, bin(ir.Modulo, ir.Int64Type, i64(1), i64(0)))
	qt.Assert(t, qt.Equals(k, errors.Arithmetic))

	// Floats follow IEEE-754 instead of failing.
	v := evalOK(t, ev, bin(ir.Divide, ir.Float64Type, f64(1), f64(0)))
	qt.Assert(t, qt.IsTrue(math.IsInf(float64(v.(val.Float64)), 1)))
}

func TestBigIntArithmetic(t *testing.T) {
	ev := newEvaluator(t, ir.NewRoot(nil), nil)
	big := func(n int64) ir.Expr {
		return &ir.BigIntLit{Base: at(ir.BigIntType), X: val.NewBigInt(n).X}
	}

	got := evalOK(t, ev, bin(ir.Exponentiate, ir.BigIntType, big(2), big(100)))
	want, _ := val.NewBigInt(0).X.SetString("1267650600228229401496703205376", 10)
	qt.Assert(t, qt.Equals(got.(val.BigInt).X.Cmp(want), 0))

	k := evalKind(t, ev, bin(ir.Divide, ir.BigIntType, big(1), big(0)))
	qt.Assert(t, qt.Equals(k, errors.Arithmetic))

	neg := evalOK(t, ev, un(ir.UnaryMinus, ir.BigIntType, big(7)))
	qt.Assert(t, qt.IsTrue(val.Equal(neg, val.NewBigInt(-7))))
}

func TestComparisons(t *testing.T) {
	ev := newEvaluator(t, ir.NewRoot(nil), nil)
	char := func(c rune) ir.Expr {
		return &ir.CharLit{Base: at(ir.CharType), C: c}
	}

	testCases := []struct {
		name string
		e    ir.Expr
		want bool
	}{
		{"lt", bin(ir.Less, ir.BoolType, i32(1), i32(2)), true},
		{"le", bin(ir.LessEqual, ir.BoolType, i32(2), i32(2)), true},
		{"gt", bin(ir.Greater, ir.BoolType, i32(1), i32(2)), false},
		{"ge char", bin(ir.GreaterEqual, ir.BoolType, char('b'), char('a')), true},
		{"eq str", eq(strE("x"), strE("x")), true},
		{"ne", bin(ir.NotEqual, ir.BoolType, i32(1), i32(2)), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalOK(t, ev, tc.e)
			qt.Assert(t, qt.Equals(got.(val.Bool), val.Bool(tc.want)))
		})
	}
}

// TestShortCircuit observes evaluation of the second operand through a
// box assignment buried in it.
func TestShortCircuit(t *testing.T) {
	syms := ir.NewSymbolTable()
	root := ir.NewRoot(syms)
	ev := newEvaluator(t, root, nil)

	r := syms.Var("r", 0)
	rRef := varE(r, ir.RefType)

	// let r = ref false in (false && { r := true; true }, deref r)
	effect := seq(syms,
		&ir.Assign{Base: at(ir.UnitType), E1: rRef, E2: boolE(true)},
		boolE(true))
	e := letE(r,
		&ir.Ref{Base: at(ir.RefType), E: boolE(false)},
		seq(syms,
			bin(ir.LogicalAnd, ir.BoolType, boolE(false), effect),
			&ir.Deref{Base: at(ir.BoolType), E: rRef}))

	got := evalOK(t, ev, e)
	qt.Assert(t, qt.Equals(got.(val.Bool), val.False), qt.Commentf("&& evaluated its second operand"))

	// || with a true first operand likewise skips the second.
	e = letE(r,
		&ir.Ref{Base: at(ir.RefType), E: boolE(false)},
		seq(syms,
			bin(ir.LogicalOr, ir.BoolType, boolE(true), effect),
			&ir.Deref{Base: at(ir.BoolType), E: rRef}))
	got = evalOK(t, ev, e)
	qt.Assert(t, qt.Equals(got.(val.Bool), val.False))
}

func TestTagUntagIs(t *testing.T) {
	syms := ir.NewSymbolTable()
	root := ir.NewRoot(syms)
	option := syms.Enum("Option")
	root.Enums[option] = &ir.Enum{Sym: option, Cases: map[string]ir.Type{
		"Some": ir.Int32Type,
		"None": ir.UnitType,
	}}
	ev := newEvaluator(t, root, nil)
	optT := ir.Named("Option")

	some7 := &ir.MkTag{Base: at(optT), Sym: option, Tag: "Some", E: i32(7)}

	got := evalOK(t, ev, &ir.Untag{Base: at(ir.Int32Type), Sym: option, Tag: "Some", E: some7})
	qt.Assert(t, qt.IsTrue(val.Equal(got, val.Int32(7))))

	got = evalOK(t, ev, &ir.Is{Base: at(ir.BoolType), Sym: option, Tag: "None", E: some7})
	qt.Assert(t, qt.Equals(got.(val.Bool), val.False))

	got = evalOK(t, ev, &ir.Is{Base: at(ir.BoolType), Sym: option, Tag: "Some", E: some7})
	qt.Assert(t, qt.Equals(got.(val.Bool), val.True))

	k := evalKind(t, ev, &ir.Untag{Base: at(ir.Int32Type), Sym: option, Tag: "None", E: some7})
	qt.Assert(t, qt.Equals(k, errors.TypeMismatch))
}

func TestReferenceCells(t *testing.T) {
	syms := ir.NewSymbolTable()
	ev := newEvaluator(t, ir.NewRoot(syms), nil)

	r := syms.Var("r", 0)
	rRef := varE(r, ir.RefType)

	// let r = ref 1 in { r := 2; deref r }
	e := letE(r,
		&ir.Ref{Base: at(ir.RefType), E: i32(1)},
		seq(syms,
			&ir.Assign{Base: at(ir.UnitType), E1: rRef, E2: i32(2)},
			&ir.Deref{Base: at(ir.Int32Type), E: rRef}))

	got := evalOK(t, ev, e)
	qt.Assert(t, qt.IsTrue(val.Equal(got, val.Int32(2))))
}

func TestTuplesAndIndex(t *testing.T) {
	ev := newEvaluator(t, ir.NewRoot(nil), nil)

	tup := &ir.MkTuple{Base: at(ir.TupleType), Elms: []ir.Expr{i32(1), strE("two"), boolE(true)}}
	got := evalOK(t, ev, &ir.Index{Base: at(ir.StrType), Exp: tup, Offset: 1})
	qt.Assert(t, qt.IsTrue(val.Equal(got, val.Str("two"))))
}

// factorialRoot builds
//
//	def factBody(self, n) = if n == 0 then 1 else n * self(n - 1)
//
// with self as the closure's own capture slot.
func factorialRoot(syms *ir.SymbolTable) (*ir.Root, *ir.Symbol, *ir.Symbol) {
	root := ir.NewRoot(syms)
	factBody := syms.Def("factBody")
	self := syms.Var("self", 0)
	n := syms.Var("n", 1)

	nRef := varE(n, ir.Int32Type)
	body := ifE(
		eq(nRef, i32(0)),
		i32(1),
		bin(ir.Times, ir.Int32Type,
			nRef,
			&ir.ApplyClosure{
				Base: at(ir.Int32Type),
				Fn:   varE(self, ir.FnType),
				Args: []ir.Expr{bin(ir.Minus, ir.Int32Type, nRef, i32(1))},
			}))
	root.Defs[factBody] = &ir.Def{Sym: factBody, Formals: []*ir.Symbol{self, n}, Body: body, Tpe: ir.FnType}
	return root, factBody, self
}

// TestLetRecFactorial exercises the back-patch: the closure calls
// itself through its own capture slot without any outer binding.
func TestLetRecFactorial(t *testing.T) {
	syms := ir.NewSymbolTable()
	root, factBody, self := factorialRoot(syms)
	ev := newEvaluator(t, root, nil)

	fact := syms.Var("fact", 0) // offset 0: the self capture slot
	e := &ir.LetRec{
		Base: at(ir.Int32Type),
		Sym:  fact,
		E1: &ir.MkClosure{
			Base:     at(ir.FnType),
			Sym:      factBody,
			FreeVars: []*ir.Symbol{self},
		},
		E2: &ir.ApplyClosure{
			Base: at(ir.Int32Type),
			Fn:   varE(fact, ir.FnType),
			Args: []ir.Expr{i32(5)},
		},
	}

	got := evalOK(t, ev, e)
	qt.Assert(t, qt.IsTrue(val.Equal(got, val.Int32(120))),
		qt.Commentf("got %s", val.String(got)))
}

func TestApplyDefAndHook(t *testing.T) {
	syms := ir.NewSymbolTable()
	root := ir.NewRoot(syms)
	double := syms.Def("double")
	x := syms.Var("x", 0)
	root.Defs[double] = &ir.Def{
		Sym:     double,
		Formals: []*ir.Symbol{x},
		Body:    bin(ir.Plus, ir.Int32Type, varE(x, ir.Int32Type), varE(x, ir.Int32Type)),
		Tpe:     ir.FnType,
	}

	linker := eval.NewLinker()
	linker.BindHook("host/succ", func(args []val.Value) (val.Value, error) {
		return args[0].(val.Int32) + 1, nil
	})
	ev := newEvaluator(t, root, linker)

	got := evalOK(t, ev, &ir.ApplyDef{Base: at(ir.Int32Type), Sym: double, Args: []ir.Expr{i32(21)}})
	qt.Assert(t, qt.IsTrue(val.Equal(got, val.Int32(42))))

	// Tail applications behave identically.
	got = evalOK(t, ev, &ir.ApplyTail{Base: at(ir.Int32Type), Sym: double, Args: []ir.Expr{i32(21)}})
	qt.Assert(t, qt.IsTrue(val.Equal(got, val.Int32(42))))

	got = evalOK(t, ev, &ir.ApplyHook{Base: at(ir.Int32Type), Name: "host/succ", Args: []ir.Expr{i32(41)}})
	qt.Assert(t, qt.IsTrue(val.Equal(got, val.Int32(42))))

	k := evalKind(t, ev, &ir.ApplyHook{Base: at(ir.Int32Type), Name: "host/missing", Args: nil})
	qt.Assert(t, qt.Equals(k, errors.Host))
}

func TestLinkerOverride(t *testing.T) {
	syms := ir.NewSymbolTable()
	root := ir.NewRoot(syms)
	ext := syms.Def("ext")

	linker := eval.NewLinker()
	linker.Bind(ext, func(args []val.Value) (val.Value, error) {
		return val.Str("linked"), nil
	})
	ev := newEvaluator(t, root, linker)

	got, err := ev.Invoke(ext, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(val.Equal(got, val.Str("linked"))))
}

func TestErrorExpressions(t *testing.T) {
	ev := newEvaluator(t, ir.NewRoot(nil), nil)

	testCases := []struct {
		e    ir.Expr
		want errors.Kind
	}{
		{&ir.UserError{Base: at(ir.UnitType)}, errors.User},
		{&ir.MatchError{Base: at(ir.UnitType)}, errors.NonExhaustiveMatch},
		{&ir.SwitchError{Base: at(ir.UnitType)}, errors.NonExhaustiveSwitch},
		{&ir.Existential{Base: at(ir.BoolType)}, errors.TypeMismatch},
		{&ir.Universal{Base: at(ir.BoolType)}, errors.TypeMismatch},
	}
	for _, tc := range testCases {
		qt.Assert(t, qt.Equals(evalKind(t, ev, tc.e), tc.want))
	}
}

func TestUnboundVariable(t *testing.T) {
	syms := ir.NewSymbolTable()
	ev := newEvaluator(t, ir.NewRoot(syms), nil)
	k := evalKind(t, ev, varE(syms.Var("ghost", 0), ir.Int32Type))
	qt.Assert(t, qt.Equals(k, errors.UnboundVariable))
}

func TestApplyNonClosure(t *testing.T) {
	syms := ir.NewSymbolTable()
	ev := newEvaluator(t, ir.NewRoot(syms), nil)
	k := evalKind(t, ev, &ir.ApplyClosure{
		Base: at(ir.Int32Type),
		Fn:   i32(3),
		Args: nil,
	})
	qt.Assert(t, qt.Equals(k, errors.TypeMismatch))
}
