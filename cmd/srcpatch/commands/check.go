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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/srcpatch/cmd/srcpatch/opts"
	"github.com/walteh/srcpatch/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show what apply would change without writing",
		Long: `Check matches every rule against the files as they are now and prints
a table of matches and spans, then prints the diff apply would produce.

Rules are matched against the unmodified file, so a rule that anchors on
text an earlier rule inserts shows no match in the table but still shows up
in the diff.

Check fails when two rules match overlapping text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)
			logger := log.FromContext(ctx)

			cfgs, err := o.Configs(ctx)
			if err != nil {
				return err
			}

			logger.Header("checking rules")

			runner := o.Runner(true)

			plans, err := runner.Plan(ctx, cfgs...)
			if err != nil {
				return errors.Errorf("planning rules: %w", err)
			}

			overlaps := 0
			for _, p := range plans {
				if err := logger.LogPlan(ctx, p.Path, p.Rules, p.Overlaps); err != nil {
					return errors.Errorf("rendering plan: %w", err)
				}
				overlaps += len(p.Overlaps)
			}

			report, err := runner.Run(ctx, cfgs...)
			if err != nil {
				return errors.Errorf("applying rules: %w", err)
			}

			for _, w := range report.Warnings {
				logger.Warning(w)
			}

			for _, d := range report.Documents {
				if d.Diff != "" {
					logger.LogDiff(d.Diff)
				}
				logger.EndDocument(ctx, d.Path, d.Result.MatchCount, d.RuleCount, d.Written)
			}

			if overlaps > 0 {
				return errors.Errorf("%d overlapping rule matches", overlaps)
			}

			return nil
		},
	}

	return cmd
}
