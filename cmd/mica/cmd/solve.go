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

package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"micalang.org/go/encoding/irjson"
	"micalang.org/go/internal/core/ir"
	"micalang.org/go/internal/core/solver"
	"micalang.org/go/internal/core/val"
)

func newSolveCmd() *cobra.Command {
	var (
		factsFile string
		tables    []string
		maxIter   int
		verbose   bool
	)
	cmd := &cobra.Command{
		Use:   "solve <program.json>",
		Short: "saturate a program's constraint database and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, err := irjson.Decode(data)
			if err != nil {
				return err
			}

			var facts []solver.Fact
			if factsFile != "" {
				fdata, err := os.ReadFile(factsFile)
				if err != nil {
					return err
				}
				facts, err = irjson.DecodeFacts(fdata, root)
				if err != nil {
					return err
				}
			}

			opts := &solver.Options{MaxIterations: maxIter}
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()
				opts.Logger = logger
			}

			res, err := solver.Saturate(root, facts, opts)
			if err != nil {
				return err
			}
			if len(tables) == 0 {
				return res.Dump(cmd.OutOrStdout())
			}
			for _, name := range tables {
				if err := dumpTable(cmd, res, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&factsFile, "facts", "", "YAML file of initial facts")
	cmd.Flags().StringArrayVar(&tables, "table", nil, "print only the named table (repeatable)")
	cmd.Flags().IntVar(&maxIter, "max-iterations", 0, "abort a stratum after this many passes (0 = unbounded)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log solver progress")
	return cmd
}

func dumpTable(cmd *cobra.Command, res *solver.Result, name string) error {
	w := cmd.OutOrStdout()
	sym, ok := res.TableNamed(name)
	if !ok {
		return fmt.Errorf("no table %q", name)
	}
	var lines []string
	switch res.Root().Tables[sym].(type) {
	case *ir.Relation:
		tuples, err := res.Tuples(sym)
		if err != nil {
			return err
		}
		for _, t := range tuples {
			lines = append(lines, val.String(t))
		}
	case *ir.LatticeTable:
		entries, err := res.Entries(sym)
		if err != nil {
			return err
		}
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("%s -> %s", val.String(e.Key), val.String(e.Val)))
		}
	}
	sort.Strings(lines)
	fmt.Fprintf(w, "%s (%d)\n", sym.Name(), len(lines))
	for _, l := range lines {
		fmt.Fprintf(w, "  %s\n", l)
	}
	return nil
}
