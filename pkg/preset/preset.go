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

// Package preset ships the built-in HeaderLibrary rule sets.
package preset

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/srcpatch/pkg/config"
	"gitlab.com/tozd/go/errors"
)

//go:embed presets/*.yaml
var presetFS embed.FS

const (
	HeaderSignatures = "header-signatures"
	ColorHooks       = "color-hooks"
)

// Default is the order presets run in when none are named. color-hooks
// anchors on the widened signature, so header-signatures goes first.
var Default = []string{HeaderSignatures, ColorHooks}

// Names lists the embedded presets in sorted order
func Names() []string {
	entries, err := fs.ReadDir(presetFS, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Load parses and validates the named preset
func Load(ctx context.Context, name string) (*config.Config, error) {
	zerolog.Ctx(ctx).Debug().Str("preset", name).Msg("loading preset")

	data, err := Source(name)
	if err != nil {
		return nil, err
	}

	p := config.GetParser(fileName(name))
	if p == nil {
		return nil, errors.Errorf("no parser found for preset %q", name)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing preset %q: %w", name, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating preset %q: %w", name, err)
	}

	return cfg.WithLocation("preset:" + name), nil
}

// Source returns the raw YAML of the named preset
func Source(name string) ([]byte, error) {
	data, err := presetFS.ReadFile(fileName(name))
	if err != nil {
		return nil, errors.Errorf("unknown preset %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

func fileName(name string) string {
	return "presets/" + name + ".yaml"
}

// LoadAll loads presets in the given order
func LoadAll(ctx context.Context, names []string) ([]*config.Config, error) {
	cfgs := make([]*config.Config, 0, len(names))
	for _, name := range names {
		cfg, err := Load(ctx, name)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}
