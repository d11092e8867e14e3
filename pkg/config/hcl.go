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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL.
//
// Rule sets are labelled blocks:
//
//	files = ["components/HeaderLibrary.tsx"]
//
//	ruleset "color-hooks" {
//	  mode        = "insert"
//	  pattern     = "..."
//	  template    = "..."
//	  identifiers = ["HeaderPop"]
//	}
//
// The variables `replace`, `insert`, `document` and `declaration` hold the
// matching mode and scope names.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"replace":     cty.StringVal("replace"),
			"insert":      cty.StringVal("insert"),
			"document":    cty.StringVal("document"),
			"declaration": cty.StringVal("declaration"),
		},
	}

	type hclRuleSet struct {
		Name        string   `hcl:"name,label"`
		Mode        string   `hcl:"mode,optional"`
		Scope       string   `hcl:"scope,optional"`
		Pattern     string   `hcl:"pattern"`
		Template    string   `hcl:"template,optional"`
		Literal     bool     `hcl:"literal,optional"`
		Identifiers []string `hcl:"identifiers"`
	}

	type hclConfig struct {
		Files    []string     `hcl:"files"`
		Backup   bool         `hcl:"backup,optional"`
		RuleSets []hclRuleSet `hcl:"ruleset,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Files:  hclCfg.Files,
		Backup: hclCfg.Backup,
	}
	for _, rs := range hclCfg.RuleSets {
		cfg.RuleSets = append(cfg.RuleSets, RuleSet{
			Name:        rs.Name,
			Mode:        rs.Mode,
			Scope:       rs.Scope,
			Pattern:     rs.Pattern,
			Template:    rs.Template,
			Literal:     rs.Literal,
			Identifiers: rs.Identifiers,
		})
	}

	return cfg, nil
}
