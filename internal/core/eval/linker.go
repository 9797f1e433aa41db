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

// An Invocable is a linked function of fixed arity. It must return a
// valid Value or an error; it must not return both nil.
type Invocable func(args []val.Value) (val.Value, error)

// A Hook is a host-supplied function reachable from ApplyHook and the
// native interop expressions. Hooks run outside the evaluator's
// control; any error they return is surfaced as a host error.
type Hook func(args []val.Value) (val.Value, error)

// A Linker resolves definition symbols and hook names to host
// functions. Definitions without an override resolve to their IR body.
//
// A nil Linker resolves nothing.
type Linker struct {
	defs  map[*ir.Symbol]Invocable
	hooks map[string]Hook
}

// NewLinker returns an empty linker.
func NewLinker() *Linker {
	return &Linker{defs: map[*ir.Symbol]Invocable{}, hooks: map[string]Hook{}}
}

// Bind registers fn as the implementation of sym, overriding the IR
// body for direct calls and for applications of closures over sym.
func (l *Linker) Bind(sym *ir.Symbol, fn Invocable) {
	l.defs[sym] = fn
}

// BindHook registers h under name.
func (l *Linker) BindHook(name string, h Hook) {
	l.hooks[name] = h
}

func (l *Linker) def(sym *ir.Symbol) (Invocable, bool) {
	if l == nil {
		return nil, false
	}
	fn, ok := l.defs[sym]
	return fn, ok
}

func (l *Linker) hook(name string) (Hook, bool) {
	if l == nil {
		return nil, false
	}
	h, ok := l.hooks[name]
	return h, ok
}
