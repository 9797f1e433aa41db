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

// Package solver implements the stratified fixed-point constraint
// solver: it materializes all facts derivable from a Root's constraints
// by saturating each stratum in turn.
//
// Termination rests on store monotonicity (relations only grow, lattice
// entries only ascend) and on the user-supplied lattices having finite
// height for any concrete key. The latter is the caller's obligation;
// Options.MaxIterations offers a backstop for programs that break it.
package solver

import (
	"go.uber.org/zap"

	"micalang.org/go/internal/core/eval"
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/store"
	"micalang.org/go/internal/core/val"
	"micalang.org/go/mica/errors"
	"micalang.org/go/mica/token"
)

// A Fact is one initial tuple. For relation tables, Args is the full
// tuple and Value is nil. For lattice tables, Args is the key tuple and
// Value the lattice value to join in.
type Fact struct {
	Table *ir.Symbol
	Args  []val.Value
	Value val.Value
}

// Options configures a saturation run. The zero value is ready for use.
type Options struct {
	// Linker resolves host definitions and hooks. May be nil.
	Linker *eval.Linker

	// Logger receives per-stratum progress at debug level. Nil means
	// no logging.
	Logger *zap.Logger

	// MaxIterations bounds the passes over a single stratum; 0 means
	// unbounded. Exceeding the bound aborts saturation with an error
	// rather than spinning on a non-finite lattice.
	MaxIterations int
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Saturate runs the strata of root to their fixed points, seeded with
// the given initial facts. Any evaluation failure, integrity violation,
// or stratification violation aborts the run; no partial result is
// returned on failure.
func Saturate(root *ir.Root, facts []Fact, opts *Options) (*Result, error) {
	if err := ValidateStrata(root); err != nil {
		return nil, err
	}

	var linker *eval.Linker
	var maxIter int
	if opts != nil {
		linker = opts.Linker
		maxIter = opts.MaxIterations
	}
	log := opts.logger()

	ev := eval.New(root, linker)
	rels := store.NewRelations(root)
	lats, err := store.NewLattices(root, ev)
	if err != nil {
		return nil, err
	}

	for _, f := range facts {
		switch root.Tables[f.Table].(type) {
		case *ir.Relation:
			if _, err := rels.Insert(f.Table, val.Tuple(f.Args)); err != nil {
				return nil, err
			}
		case *ir.LatticeTable:
			if f.Value == nil {
				return nil, errors.Newf(errors.TypeMismatch, token.NoPos,
					"initial fact for lattice table %s has no value", f.Table.Name())
			}
			if _, err := lats.Upsert(f.Table, val.Tuple(f.Args), f.Value); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Newf(errors.TypeMismatch, token.NoPos, "initial fact for unknown table %s", f.Table.Name())
		}
	}

	re := &ruleEval{ev: ev, root: root, rels: rels, lats: lats}
	for si := range root.Strata {
		stratum := &root.Strata[si]
		log.Debug("entering stratum", zap.Int("stratum", si), zap.Int("constraints", len(stratum.Constraints)))
		for iter := 1; ; iter++ {
			changed := false
			for _, c := range stratum.Constraints {
				ch, err := re.evalConstraint(c)
				if err != nil {
					return nil, err
				}
				changed = changed || ch
			}
			log.Debug("stratum pass", zap.Int("stratum", si), zap.Int("iteration", iter), zap.Bool("changed", changed))
			if !changed {
				break
			}
			if maxIter > 0 && iter >= maxIter {
				return nil, errors.Newf(errors.Unspecified, token.NoPos,
					"stratum %d did not saturate within %d iterations", si, maxIter)
			}
		}
	}

	return &Result{root: root, rels: rels, lats: lats}, nil
}
