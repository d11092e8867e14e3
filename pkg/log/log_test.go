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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/srcpatch/pkg/patch"
)

func TestLogger(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_document",
			op: func(t *testing.T, logger *Logger) {
				logger.StartDocument(context.Background(), "components/HeaderLibrary.tsx")
				logger.EndDocument(context.Background(), "components/HeaderLibrary.tsx", 2, 17, true)
			},
			wantLogs: []string{
				"[patching components/HeaderLibrary.tsx]",
				"✅ Applied 2 of 17 rules to components/HeaderLibrary.tsx",
			},
		},
		{
			name: "log_document_dry_run",
			op: func(t *testing.T, logger *Logger) {
				logger.EndDocument(context.Background(), "a.tsx", 1, 3, false)
			},
			wantLogs: []string{
				"✅ Applied 1 of 3 rules to a.tsx (not written)",
			},
		},
		{
			name: "log_document_nothing_matched",
			op: func(t *testing.T, logger *Logger) {
				logger.EndDocument(context.Background(), "a.tsx", 0, 3, false)
			},
			wantLogs: []string{
				"ℹ️  Applied 0 of 3 rules to a.tsx",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_message",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("Updated %d rules across %d files", 5, 1)
			},
			wantLogs: []string{
				"ℹ️  Updated 5 rules across 1 files",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying header-signatures")
			},
			wantLogs: []string{
				"srcpatch • applying header-signatures",
			},
		},
		{
			name: "log_diff",
			op: func(t *testing.T, logger *Logger) {
				logger.LogDiff("--- a/x\n+++ b/x\n@@ -1 +1 @@\n-old\n+new")
			},
			wantLogs: []string{
				"--- a/x",
				"+++ b/x",
				"@@ -1 +1 @@",
				"-old",
				"+new",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop(), false)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop(), false)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestRuleFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name    string
		result  patch.RuleResult
		verbose bool
		want    []string
	}{
		{
			name:   "applied",
			result: patch.RuleResult{Name: "sigs/HeaderFoo", Matches: 1, Applied: 1},
			want:   []string{"✓", "sigs/HeaderFoo", "applied", "1"},
		},
		{
			name:   "already_applied",
			result: patch.RuleResult{Name: "hooks/HeaderFoo", Matches: 2, AlreadyApplied: 2},
			want:   []string{"•", "hooks/HeaderFoo", "up", "to", "date", "2"},
		},
		{
			name:    "no_match_verbose",
			result:  patch.RuleResult{Name: "hooks/HeaderBar"},
			verbose: true,
			want:    []string{"-", "hooks/HeaderBar", "no", "match", "0"},
		},
		{
			name:   "no_match_quiet",
			result: patch.RuleResult{Name: "hooks/HeaderBar"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop(), tt.verbose)

			logger.LogRule(context.Background(), tt.result)

			got := strings.Fields(buf.String())
			if tt.want == nil {
				assert.Empty(t, got, "quiet logger should skip unmatched rules")
				return
			}
			assert.Equal(t, tt.want, got, "formatted output should match")
			assert.True(t, strings.HasPrefix(buf.String(), "    "), "rule lines should be indented")
		})
	}
}

func TestLogPlan(t *testing.T) {
	color.NoColor = true
	pterm.DisableStyling()
	defer func() {
		color.NoColor = false
		pterm.EnableStyling()
	}()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.Nop(), false)

	plan := []patch.RuleResult{
		{Name: "sigs/HeaderFoo", Target: "HeaderFoo", Matches: 1, Spans: []patch.Span{{Start: 10, End: 40}}},
		{Name: "hooks/HeaderFoo", Target: "HeaderFoo", Matches: 1, Spans: []patch.Span{{Start: 30, End: 50}}},
	}
	overlaps := patch.Overlaps(plan)
	require.Len(t, overlaps, 1)

	err := logger.LogPlan(context.Background(), "a.tsx", plan, overlaps)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[checking a.tsx]")
	assert.Contains(t, out, "sigs/HeaderFoo")
	assert.Contains(t, out, "10-40")
	assert.Contains(t, out, "30-50")
	assert.Contains(t, out, "sigs/HeaderFoo overlaps hooks/HeaderFoo at 30-40")
}
