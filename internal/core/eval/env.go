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

package eval

import (
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/val"
)

// An Env maps variable symbols to values. Envs are persistent linked
// frames: Bind returns a new Env leaving the receiver untouched, so a
// binding introduced in one branch never leaks into another.
//
// The nil Env is the empty environment.
type Env struct {
	up  *Env
	sym *ir.Symbol
	v   val.Value
}

// Bind returns an environment extending e with sym bound to v.
func (e *Env) Bind(sym *ir.Symbol, v val.Value) *Env {
	return &Env{up: e, sym: sym, v: v}
}

// Lookup returns the value bound to sym, walking outward through the
// frames. The innermost binding wins.
func (e *Env) Lookup(sym *ir.Symbol) (val.Value, bool) {
	for ; e != nil; e = e.up {
		if e.sym == sym {
			return e.v, true
		}
	}
	return nil, false
}

// BindAll returns an environment extending e with syms[i] bound to
// vs[i] for every i. The slices must have equal length.
func (e *Env) BindAll(syms []*ir.Symbol, vs []val.Value) *Env {
	for i, s := range syms {
		e = e.Bind(s, vs[i])
	}
	return e
}
