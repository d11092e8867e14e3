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

package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, dir string, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: "srcpatch.yaml",
			config: `
files:
  - components/HeaderLibrary.tsx
backup: true
rulesets:
  - name: signatures
    pattern: 'export const <% .Target %> = \(\)'
    template: 'export const <% .Target %> = (a)'
    identifiers: [HeaderFoo, HeaderBar]
  - name: hooks
    mode: insert
    scope: declaration
    pattern: '<% .Target %> = \(a\) => \{'
    template: "\n  useHook();"
    identifiers: [HeaderFoo]
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, []string{filepath.Join(dir, "components", "HeaderLibrary.tsx")}, cfg.Files, "files should be resolved against the config dir")
				assert.True(t, cfg.Backup, "backup should be true")
				require.Len(t, cfg.RuleSets, 2, "should have 2 rule sets")
				assert.Equal(t, "replace", cfg.RuleSets[0].Mode, "mode should default to replace")
				assert.Equal(t, "document", cfg.RuleSets[0].Scope, "scope should default to document")
				assert.Equal(t, "insert", cfg.RuleSets[1].Mode, "mode should match")
				assert.Equal(t, "declaration", cfg.RuleSets[1].Scope, "scope should match")
				assert.Equal(t, "\n  useHook();", cfg.RuleSets[1].Template, "template should keep its leading newline")

				rules, err := cfg.Rules()
				require.NoError(t, err)
				require.Len(t, rules, 3, "one rule per identifier")
				assert.Equal(t, "signatures/HeaderFoo", rules[0].Name)
				assert.Equal(t, "signatures/HeaderBar", rules[1].Name)
				assert.Equal(t, "hooks/HeaderFoo", rules[2].Name)
			},
		},
		{
			name:     "valid_json",
			filename: "srcpatch.json",
			config: `{
				"files": ["/abs/Header.tsx"],
				"rulesets": [
					{
						"name": "signatures",
						"pattern": "HeaderFoo",
						"template": "HeaderBar",
						"identifiers": ["HeaderFoo"]
					}
				]
			}`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, []string{"/abs/Header.tsx"}, cfg.Files, "absolute files should be kept")
				assert.False(t, cfg.Backup)
				require.Len(t, cfg.RuleSets, 1)
				assert.Equal(t, "HeaderBar", cfg.RuleSets[0].Template)
			},
		},
		{
			name:     "valid_hcl",
			filename: "srcpatch.hcl",
			config: `
files = ["Header.tsx"]

ruleset "hooks" {
  mode        = insert
  scope       = declaration
  pattern     = "<% .Target %> = \\(\\) => \\{"
  template    = "\n  useHook();"
  identifiers = ["HeaderFoo", "HeaderBar"]
}
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, []string{filepath.Join(dir, "Header.tsx")}, cfg.Files)
				require.Len(t, cfg.RuleSets, 1)
				rs := cfg.RuleSets[0]
				assert.Equal(t, "hooks", rs.Name, "block label should be the name")
				assert.Equal(t, "insert", rs.Mode)
				assert.Equal(t, "declaration", rs.Scope)
				assert.Equal(t, `<% .Target %> = \(\) => \{`, rs.Pattern)
				assert.Equal(t, []string{"HeaderFoo", "HeaderBar"}, rs.Identifiers)
			},
		},
		{
			name:     "unknown_field",
			filename: "srcpatch.yaml",
			config: `
files: [a.tsx]
destination: nope
rulesets:
  - name: x
    pattern: x
    identifiers: [x]
`,
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:     "missing_files",
			filename: "srcpatch.yaml",
			config: `
rulesets:
  - name: x
    pattern: x
    identifiers: [x]
`,
			wantErr:     true,
			errContains: "files is required",
		},
		{
			name:        "missing_rulesets",
			filename:    "srcpatch.yaml",
			config:      "files: [a.tsx]\n",
			wantErr:     true,
			errContains: "rulesets is required",
		},
		{
			name:     "bad_mode",
			filename: "srcpatch.yaml",
			config: `
files: [a.tsx]
rulesets:
  - name: x
    mode: append
    pattern: x
    identifiers: [x]
`,
			wantErr:     true,
			errContains: `mode must be "replace" or "insert"`,
		},
		{
			name:     "bad_scope",
			filename: "srcpatch.yaml",
			config: `
files: [a.tsx]
rulesets:
  - name: x
    scope: file
    pattern: x
    identifiers: [x]
`,
			wantErr:     true,
			errContains: `scope must be "document" or "declaration"`,
		},
		{
			name:     "missing_identifiers",
			filename: "srcpatch.yaml",
			config: `
files: [a.tsx]
rulesets:
  - name: x
    pattern: x
`,
			wantErr:     true,
			errContains: "identifiers is required",
		},
		{
			name:     "duplicate_name",
			filename: "srcpatch.yaml",
			config: `
files: [a.tsx]
rulesets:
  - name: x
    pattern: x
    identifiers: [x]
  - name: x
    pattern: y
    identifiers: [y]
`,
			wantErr:     true,
			errContains: "defined more than once",
		},
		{
			name:     "bad_regex",
			filename: "srcpatch.yaml",
			config: `
files: [a.tsx]
rulesets:
  - name: x
    pattern: '<% .Target %>('
    identifiers: [Foo]
`,
			wantErr:     true,
			errContains: "compiling pattern for Foo",
		},
		{
			name:        "unknown_extension",
			filename:    "srcpatch.txt",
			config:      "files: [a.tsx]",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.filename)
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, configPath, cfg.Location())
			if tt.check != nil {
				tt.check(t, tmpDir, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "missing config should wrap fs.ErrNotExist")
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Files: []string{"a.tsx", "b.tsx"},
		RuleSets: []RuleSet{
			{Name: "signatures"},
			{Name: "hooks"},
		},
	}
	assert.Equal(t, "signatures,hooks -> a.tsx,b.tsx", cfg.String())
}
