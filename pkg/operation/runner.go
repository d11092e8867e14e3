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

package operation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/srcpatch/pkg/config"
	"github.com/walteh/srcpatch/pkg/document"
	"github.com/walteh/srcpatch/pkg/patch"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many files are patched at once
const DefaultConcurrency = 4

// 🔧 Options controls a run
type Options struct {
	// DryRun computes diffs without writing anything.
	DryRun bool

	// Backup forces a .bak copy of every written file, on top of any
	// config that asks for one.
	Backup bool

	Concurrency int

	// Store defaults to FileStore.
	Store Store
}

// 🏃 Runner executes patch runs
type Runner struct {
	opts    Options
	patcher *patch.Patcher
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Store == nil {
		opts.Store = FileStore{}
	}
	return &Runner{
		opts:    opts,
		patcher: patch.NewPatcher(),
	}
}

// job is every rule destined for one file. path is the spelling the file
// was first named by; jobs are keyed by its absolute form.
type job struct {
	path   string
	rules  []patch.Rule
	backup bool
}

// 🏃 Run applies cfgs in order. Each file is read and written at most once.
func (r *Runner) Run(ctx context.Context, cfgs ...*config.Config) (*Report, error) {
	jobs, warnings, err := r.plan(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Documents: make([]DocumentReport, len(jobs)),
		Warnings:  warnings,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			dr, err := r.runJob(gctx, j)
			if err != nil {
				return errors.Errorf("patching %s: %w", j.path, err)
			}
			report.Documents[i] = *dr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, d := range report.Documents {
		for _, rr := range d.Result.Rules {
			if rr.Matches > 1 {
				report.Warnings = append(report.Warnings, fmt.Sprintf("rule %s matched %d times in %s", rr.Name, rr.Matches, d.Path))
			}
		}
	}

	return report, nil
}

func (r *Runner) runJob(ctx context.Context, j *job) (*DocumentReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", j.path).Logger()
	ctx = logger.WithContext(ctx)

	doc, err := r.opts.Store.Load(ctx, j.path)
	if err != nil {
		return nil, err
	}

	res := r.patcher.Apply(ctx, doc.Content, j.rules)

	dr := &DocumentReport{
		Path:      j.path,
		Result:    res,
		RuleCount: len(j.rules),
	}

	logger.Debug().
		Int("rules", len(j.rules)).
		Int("matched", res.MatchCount).
		Bool("modified", res.WasModified).
		Msg("applied rules")

	next := doc.WithContent(res.Content)
	dr.Checksum = next.Checksum()
	if dr.Checksum == doc.Checksum() {
		return dr, nil
	}

	if r.opts.DryRun {
		diff, err := UnifiedDiff(j.path, res.OriginalContent, res.Content)
		if err != nil {
			return nil, err
		}
		dr.Diff = diff
		return dr, nil
	}

	if err := r.opts.Store.Write(ctx, next, document.WriteOptions{Backup: j.backup || r.opts.Backup}); err != nil {
		return nil, err
	}
	dr.Written = true

	return dr, nil
}

// 🔍 PlanReport is the match table for one file before anything is applied
type PlanReport struct {
	Path     string
	Rules    []patch.RuleResult
	Overlaps []patch.Overlap
}

// Plan matches every rule against the current content of each file without
// applying or writing anything
func (r *Runner) Plan(ctx context.Context, cfgs ...*config.Config) ([]PlanReport, error) {
	jobs, _, err := r.plan(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	reports := make([]PlanReport, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("operation cancelled: %w", err)
		}

		doc, err := r.opts.Store.Load(ctx, j.path)
		if err != nil {
			return nil, errors.Errorf("planning %s: %w", j.path, err)
		}

		rules := r.patcher.Plan(ctx, doc.Content, j.rules)
		reports = append(reports, PlanReport{
			Path:     j.path,
			Rules:    rules,
			Overlaps: patch.Overlaps(rules),
		})
	}

	return reports, nil
}

// plan groups rules by file, keeping first-seen file order. Two spellings of
// the same file (relative and absolute) land in the same job.
func (r *Runner) plan(ctx context.Context, cfgs []*config.Config) ([]*job, []string, error) {
	byPath := map[string]*job{}
	var jobs []*job
	var warnings []string

	for _, cfg := range cfgs {
		rules, err := cfg.Rules()
		if err != nil {
			return nil, nil, err
		}

		files, unmatched, err := ExpandFiles(ctx, cfg.Files)
		if err != nil {
			return nil, nil, err
		}
		for _, pattern := range unmatched {
			warnings = append(warnings, fmt.Sprintf("pattern %s matched no files", pattern))
		}

		for _, f := range files {
			key, err := fileKey(f)
			if err != nil {
				return nil, nil, err
			}
			j, ok := byPath[key]
			if !ok {
				j = &job{path: f}
				byPath[key] = j
				jobs = append(jobs, j)
			}
			j.rules = append(j.rules, rules...)
			j.backup = j.backup || cfg.Backup
		}
	}

	for _, j := range jobs {
		if err := patch.ValidateRules(j.rules); err != nil {
			return nil, nil, errors.Errorf("validating rules for %s: %w", j.path, err)
		}
	}

	return jobs, warnings, nil
}

// ExpandFiles resolves file patterns to a de-duplicated list of paths, plus
// the glob patterns that matched nothing. Patterns without glob syntax must
// name an existing file.
func ExpandFiles(ctx context.Context, patterns []string) ([]string, []string, error) {
	logger := zerolog.Ctx(ctx)

	seen := map[string]bool{}
	var out, unmatched []string
	add := func(p string) error {
		key, err := fileKey(p)
		if err != nil {
			return err
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
		return nil
	}

	for _, pattern := range patterns {
		if !hasGlobMeta(pattern) {
			if _, err := os.Stat(pattern); err != nil {
				return nil, nil, errors.Errorf("reading document: %w", err)
			}
			if err := add(pattern); err != nil {
				return nil, nil, err
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			logger.Warn().Str("pattern", pattern).Msg("pattern matched no files")
			unmatched = append(unmatched, pattern)
			continue
		}

		sort.Strings(matches)
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, nil, err
			}
		}
	}

	return out, unmatched, nil
}

// fileKey is the identity of a file path for de-duplication: absolute, with
// symlinks resolved when the file exists
func fileKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
