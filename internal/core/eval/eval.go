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

// Package eval implements the Mica expression evaluator: a recursive
// tree interpreter over the simplified IR.
//
// Evaluation is pure except for box cells and host calls. All failures
// are immediate; there is no recovery inside the evaluator.
package eval

import (
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/errors"
	"micalang.org/go/mica/token"
)

// An Evaluator evaluates IR expressions against a Root. It is stateless
// apart from the Root and Linker it was created with and may be shared.
type Evaluator struct {
	root   *ir.Root
	linker *Linker
}

// New returns an evaluator for root. linker may be nil.
func New(root *ir.Root, linker *Linker) *Evaluator {
	return &Evaluator{root: root, linker: linker}
}

// Root returns the Root the evaluator was created with.
func (ev *Evaluator) Root() *ir.Root { return ev.root }

// Eval evaluates x under env.
func (ev *Evaluator) Eval(x ir.Expr, env *Env) (val.Value, error) {
	switch x := x.(type) {
	case *ir.UnitLit:
		return val.Unit{}, nil
	case *ir.BoolLit:
		return val.Bool(x.B), nil
	case *ir.CharLit:
		return val.Char(x.C), nil
	case *ir.Float32Lit:
		return val.Float32(x.F), nil
	case *ir.Float64Lit:
		return val.Float64(x.F), nil
	case *ir.Int8Lit:
		return val.Int8(x.I), nil
	case *ir.Int16Lit:
		return val.Int16(x.I), nil
	case *ir.Int32Lit:
		return val.Int32(x.I), nil
	case *ir.Int64Lit:
		return val.Int64(x.I), nil
	case *ir.BigIntLit:
		return val.BigInt{X: x.X}, nil
	case *ir.StrLit:
		return val.Str(x.S), nil

	case *ir.VarRef:
		v, ok := env.Lookup(x.Sym)
		if !ok {
			return nil, errors.Newf(errors.UnboundVariable, x.Pos(), "variable %s", x.Sym.Name())
		}
		return v, nil

	case *ir.DefRef:
		def, ok := ev.root.Defs[x.Sym]
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "undefined def %s", x.Sym.Name())
		}
		return ev.Eval(def.Body, env)

	case *ir.MkClosure:
		clo := &val.Closure{Def: x.Sym, Env: make([]val.Value, len(x.FreeVars))}
		for i, fv := range x.FreeVars {
			if v, ok := env.Lookup(fv); ok {
				clo.Env[i] = v
			}
		}
		return clo, nil

	case *ir.ApplyDef:
		args, err := ev.evalAll(x.Args, env)
		if err != nil {
			return nil, err
		}
		return ev.Invoke(x.Sym, args)

	case *ir.ApplyTail:
		// Tail position is an optimization hint only; semantics are
		// those of ApplyDef.
		args, err := ev.evalAll(x.Args, env)
		if err != nil {
			return nil, err
		}
		return ev.Invoke(x.Sym, args)

	case *ir.ApplyHook:
		args, err := ev.evalAll(x.Args, env)
		if err != nil {
			return nil, err
		}
		return ev.callHook(x.Name, args, x.Pos())

	case *ir.ApplyClosure:
		fn, err := ev.Eval(x.Fn, env)
		if err != nil {
			return nil, err
		}
		clo, ok := fn.(*val.Closure)
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "apply of non-closure %s", val.String(fn))
		}
		args, err := ev.evalAll(x.Args, env)
		if err != nil {
			return nil, err
		}
		return ev.applyClosure(clo, args, x.Pos())

	case *ir.Unary:
		return ev.unary(x, env)

	case *ir.Binary:
		return ev.binary(x, env)

	case *ir.IfThenElse:
		cond, err := ev.Eval(x.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(val.Bool)
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "condition is %s, not a bool", val.String(cond))
		}
		if b {
			return ev.Eval(x.Then, env)
		}
		return ev.Eval(x.Else, env)

	case *ir.Let:
		v, err := ev.Eval(x.E1, env)
		if err != nil {
			return nil, err
		}
		return ev.Eval(x.E2, env.Bind(x.Sym, v))

	case *ir.LetRec:
		mk, ok := x.E1.(*ir.MkClosure)
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "let rec binds %T, not a closure", x.E1)
		}
		v, err := ev.Eval(mk, env)
		if err != nil {
			return nil, err
		}
		clo := v.(*val.Closure)
		// Back-patch: write the closure into its own capture slot so
		// the body can call itself by name.
		if off := x.Sym.Offset(); off >= 0 && off < len(clo.Env) {
			clo.Env[off] = clo
		}
		return ev.Eval(x.E2, env.Bind(x.Sym, clo))

	case *ir.Is:
		v, err := ev.Eval(x.E, env)
		if err != nil {
			return nil, err
		}
		tag, ok := v.(val.Tag)
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "is on %s, not a tag", val.String(v))
		}
		return val.Bool(tag.Name == x.Tag), nil

	case *ir.MkTag:
		v, err := ev.Eval(x.E, env)
		if err != nil {
			return nil, err
		}
		return val.Tag{Name: x.Tag, Val: v}, nil

	case *ir.Untag:
		v, err := ev.Eval(x.E, env)
		if err != nil {
			return nil, err
		}
		tag, ok := v.(val.Tag)
		if !ok || tag.Name != x.Tag {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "untag %s of %s", x.Tag, val.String(v))
		}
		return tag.Val, nil

	case *ir.Index:
		v, err := ev.Eval(x.Exp, env)
		if err != nil {
			return nil, err
		}
		tup, ok := v.(val.Tuple)
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "index into %s, not a tuple", val.String(v))
		}
		return tup[x.Offset], nil

	case *ir.MkTuple:
		elms, err := ev.evalAll(x.Elms, env)
		if err != nil {
			return nil, err
		}
		return val.Tuple(elms), nil

	case *ir.Ref:
		v, err := ev.Eval(x.E, env)
		if err != nil {
			return nil, err
		}
		return val.NewBox(v), nil

	case *ir.Deref:
		v, err := ev.Eval(x.E, env)
		if err != nil {
			return nil, err
		}
		box, ok := v.(*val.Box)
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "deref of %s, not a ref", val.String(v))
		}
		return box.V, nil

	case *ir.Assign:
		v, err := ev.Eval(x.E1, env)
		if err != nil {
			return nil, err
		}
		box, ok := v.(*val.Box)
		if !ok {
			return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "assign to %s, not a ref", val.String(v))
		}
		w, err := ev.Eval(x.E2, env)
		if err != nil {
			return nil, err
		}
		box.V = w
		return val.Unit{}, nil

	case *ir.NativeConstructor:
		args, err := ev.evalAll(x.Args, env)
		if err != nil {
			return nil, err
		}
		return ev.callHook(x.Name, args, x.Pos())

	case *ir.NativeField:
		return ev.callHook(x.Name, nil, x.Pos())

	case *ir.NativeMethod:
		args, err := ev.evalAll(x.Args, env)
		if err != nil {
			return nil, err
		}
		return ev.callHook(x.Name, args, x.Pos())

	case *ir.UserError:
		return nil, errors.Newf(errors.User, x.Pos(), "explicit error")

	case *ir.MatchError:
		return nil, errors.Newf(errors.NonExhaustiveMatch, x.Pos(), "no case matched")

	case *ir.SwitchError:
		return nil, errors.Newf(errors.NonExhaustiveSwitch, x.Pos(), "no branch taken")

	case *ir.Existential:
		return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "existential quantifier at evaluation time")

	case *ir.Universal:
		return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "universal quantifier at evaluation time")
	}
	return nil, errors.Newf(errors.TypeMismatch, x.Pos(), "unknown expression %T", x)
}

func (ev *Evaluator) evalAll(xs []ir.Expr, env *Env) ([]val.Value, error) {
	vs := make([]val.Value, len(xs))
	for i, x := range xs {
		v, err := ev.Eval(x, env)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

// Invoke calls the definition sym with args. A linker override takes
// precedence over the IR body.
func (ev *Evaluator) Invoke(sym *ir.Symbol, args []val.Value) (val.Value, error) {
	if fn, ok := ev.linker.def(sym); ok {
		v, err := fn(args)
		if err != nil {
			return nil, errors.Wrap(errors.Host, token.NoPos, err)
		}
		return v, nil
	}
	def, ok := ev.root.Defs[sym]
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, token.NoPos, "unlinked def %s", sym.Name())
	}
	if len(def.Formals) != len(args) {
		return nil, errors.Newf(errors.TypeMismatch, def.Body.Pos(),
			"def %s takes %d arguments, got %d", sym.Name(), len(def.Formals), len(args))
	}
	env := (*Env)(nil).BindAll(def.Formals, args)
	return ev.Eval(def.Body, env)
}

// applyClosure binds the callee's formals, the first len(Env) to the
// captures and the remainder to args, and evaluates the body.
func (ev *Evaluator) applyClosure(clo *val.Closure, args []val.Value, pos token.Pos) (val.Value, error) {
	if fn, ok := ev.linker.def(clo.Def); ok {
		full := make([]val.Value, 0, len(clo.Env)+len(args))
		full = append(full, clo.Env...)
		full = append(full, args...)
		v, err := fn(full)
		if err != nil {
			return nil, errors.Wrap(errors.Host, pos, err)
		}
		return v, nil
	}
	def, ok := ev.root.Defs[clo.Def]
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, pos, "closure over unknown def %s", clo.Def.Name())
	}
	n := len(clo.Env)
	if n+len(args) != len(def.Formals) {
		return nil, errors.Newf(errors.TypeMismatch, pos,
			"closure %s takes %d arguments, got %d", clo.Def.Name(), len(def.Formals)-n, len(args))
	}
	var env *Env
	env = env.BindAll(def.Formals[:n], clo.Env)
	env = env.BindAll(def.Formals[n:], args)
	return ev.Eval(def.Body, env)
}

// ApplyOp evaluates a lattice-bundle operator expression and applies it
// to args. With no args the operator's value is returned directly.
func (ev *Evaluator) ApplyOp(op ir.Expr, args []val.Value) (val.Value, error) {
	v, err := ev.Eval(op, nil)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return v, nil
	}
	clo, ok := v.(*val.Closure)
	if !ok {
		return nil, errors.Newf(errors.TypeMismatch, op.Pos(), "lattice operator is %s, not a function", val.String(v))
	}
	return ev.applyClosure(clo, args, op.Pos())
}

func (ev *Evaluator) callHook(name string, args []val.Value, pos token.Pos) (val.Value, error) {
	h, ok := ev.linker.hook(name)
	if !ok {
		return nil, errors.Newf(errors.Host, pos, "no hook registered for %q", name)
	}
	v, err := h(args)
	if err != nil {
		return nil, errors.Wrap(errors.Host, pos, err)
	}
	return v, nil
}
