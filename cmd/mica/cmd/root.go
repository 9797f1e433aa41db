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

// Package cmd implements the mica command line tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// New returns the root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mica",
		Short: "mica runs compiled Mica programs",
		Long: `mica loads a compiled program bundle and saturates its constraint
database: every stratum is evaluated to its fixed point, and the
resulting relations and lattice maps are printed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newSolveCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Main runs the root command and returns the process exit code.
func Main() int {
	cmd := New()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mica:", err)
		return 1
	}
	return 0
}
