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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/srcpatch/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📏 RuleSet is one named pattern/template pair applied to a list of identifiers
type RuleSet struct {
	Name        string   `json:"name" yaml:"name"`
	Mode        string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	Scope       string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Pattern     string   `json:"pattern" yaml:"pattern"`
	Template    string   `json:"template" yaml:"template"`
	Literal     bool     `json:"literal,omitempty" yaml:"literal,omitempty"`
	Identifiers []string `json:"identifiers" yaml:"identifiers"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Files    []string  `json:"files" yaml:"files"`
	Backup   bool      `json:"backup,omitempty" yaml:"backup,omitempty"`
	RuleSets []RuleSet `json:"rulesets" yaml:"rulesets"`

	// location is the file this config was loaded from, if any
	location string
}

// 🎯 Load loads the configuration from a file. Relative entries in Files are
// resolved against the directory of path.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.location = path
	cfg.resolveFiles(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Location returns the path the config was loaded from, or "" for configs
// that did not come from a file
func (cfg *Config) Location() string {
	return cfg.location
}

// WithLocation records where an in-memory config came from
func (cfg *Config) WithLocation(location string) *Config {
	cfg.location = location
	return cfg
}

func (cfg *Config) resolveFiles(dir string) {
	for i, f := range cfg.Files {
		if filepath.IsAbs(f) {
			continue
		}
		cfg.Files[i] = filepath.Join(dir, f)
	}
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	if len(cfg.Files) == 0 {
		return errors.Errorf("files is required")
	}
	for i, f := range cfg.Files {
		if strings.TrimSpace(f) == "" {
			return errors.Errorf("files[%d] is empty", i)
		}
		cfg.Files[i] = filepath.Clean(f)
	}

	if len(cfg.RuleSets) == 0 {
		return errors.Errorf("rulesets is required")
	}

	seen := make(map[string]bool, len(cfg.RuleSets))
	for i := range cfg.RuleSets {
		rs := &cfg.RuleSets[i]
		if rs.Name == "" {
			return errors.Errorf("rulesets[%d].name is required", i)
		}
		if seen[rs.Name] {
			return errors.Errorf("ruleset %q is defined more than once", rs.Name)
		}
		seen[rs.Name] = true

		if rs.Mode == "" {
			rs.Mode = string(patch.ModeReplace)
		}
		if !patch.Mode(rs.Mode).Valid() {
			return errors.Errorf("ruleset %q: mode must be %q or %q, got %q", rs.Name, patch.ModeReplace, patch.ModeInsert, rs.Mode)
		}

		if rs.Scope == "" {
			rs.Scope = string(patch.ScopeDocument)
		}
		if !patch.Scope(rs.Scope).Valid() {
			return errors.Errorf("ruleset %q: scope must be %q or %q, got %q", rs.Name, patch.ScopeDocument, patch.ScopeDeclaration, rs.Scope)
		}

		if rs.Pattern == "" {
			return errors.Errorf("ruleset %q: pattern is required", rs.Name)
		}
		if len(rs.Identifiers) == 0 {
			return errors.Errorf("ruleset %q: identifiers is required", rs.Name)
		}
	}

	if _, err := cfg.Rules(); err != nil {
		return err
	}

	return nil
}

// PatchRuleSets converts the configured rule sets for pkg/patch
func (cfg *Config) PatchRuleSets() []patch.RuleSet {
	sets := make([]patch.RuleSet, 0, len(cfg.RuleSets))
	for _, rs := range cfg.RuleSets {
		sets = append(sets, patch.RuleSet{
			Name:        rs.Name,
			Mode:        patch.Mode(rs.Mode),
			Scope:       patch.Scope(rs.Scope),
			Pattern:     rs.Pattern,
			Template:    rs.Template,
			Literal:     rs.Literal,
			Identifiers: rs.Identifiers,
		})
	}
	return sets
}

// Rules expands every rule set into concrete rules, in config order
func (cfg *Config) Rules() ([]patch.Rule, error) {
	rules, err := patch.ExpandAll(cfg.PatchRuleSets())
	if err != nil {
		return nil, errors.Errorf("expanding rules: %w", err)
	}
	return rules, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	names := make([]string, 0, len(cfg.RuleSets))
	for _, rs := range cfg.RuleSets {
		names = append(names, rs.Name)
	}
	return fmt.Sprintf("%s -> %s", strings.Join(names, ","), strings.Join(cfg.Files, ","))
}
