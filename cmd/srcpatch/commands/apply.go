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

package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/srcpatch/cmd/srcpatch/opts"
	"github.com/walteh/srcpatch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply rule sets to their files",
		Long: `Apply loads every configured file once, runs all rule sets against it
in order and writes it back once.

Rules that do not match are skipped. The command exits 0 whether or not
anything matched; it fails only when a file is missing, the config is
invalid or a write fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunApply(cmd.Context(), o)
		},
	}

	return cmd
}

// RunApply is the apply command body; the root command runs it too
func RunApply(ctx context.Context, o *opts.RootOpts) error {
	ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)
	logger := log.FromContext(ctx)

	cfgs, err := o.Configs(ctx)
	if err != nil {
		return err
	}

	logger.Header("applying rules")

	report, err := o.Runner(false).Run(ctx, cfgs...)
	if err != nil {
		return errors.Errorf("applying rules: %w", err)
	}

	for _, w := range report.Warnings {
		logger.Warning(w)
	}

	for _, d := range report.Documents {
		logger.StartDocument(ctx, d.Path)
		for _, rr := range d.Result.Rules {
			logger.LogRule(ctx, rr)
		}
		if d.Diff != "" {
			logger.LogDiff(d.Diff)
		}
		logger.EndDocument(ctx, d.Path, d.Result.MatchCount, d.RuleCount, d.Written)
	}

	logger.Infof("Updated %d rules across %d files", report.MatchCount(), report.ChangedCount())

	return nil
}
