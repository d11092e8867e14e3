// Copyright 2025 walteh LLC
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

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/srcpatch/cmd/srcpatch/commands"
	"github.com/walteh/srcpatch/cmd/srcpatch/opts"
	"github.com/walteh/srcpatch/pkg/log"
	"github.com/walteh/srcpatch/pkg/operation"
)

// newRootCmd wires the command tree around one shared RootOpts
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "srcpatch",
		Short: "Rewrite named declarations in source files with regex rule sets",
		Long: `srcpatch applies named rewrite rules to source files. A rule either
replaces the text its pattern matches or inserts text right after it.

Run without a subcommand it applies the built-in header-signatures and
color-hooks presets to components/HeaderLibrary.tsx.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zlog := setupLogging(o.Debug)
			logger := log.New(cmd.OutOrStdout(), zlog, o.Verbose || o.Debug)
			cmd.SetContext(log.NewContext(zlog.WithContext(cmd.Context()), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunApply(cmd.Context(), o)
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewPresetsCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "rule set config file (.yaml, .hcl or .json)")
	cmd.PersistentFlags().StringSliceVarP(&o.Presets, "preset", "p", nil, "built-in preset to apply, repeatable (default header-signatures,color-hooks)")
	cmd.PersistentFlags().BoolVarP(&o.DryRun, "dry-run", "n", false, "print a diff instead of writing")
	cmd.PersistentFlags().BoolVar(&o.Backup, "backup", false, "keep a .bak copy of every written file")
	cmd.PersistentFlags().IntVar(&o.Concurrency, "concurrency", operation.DefaultConcurrency, "files patched at once")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "list rules that did not match")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
	return log
}
