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

package opts

import (
	"context"

	"github.com/walteh/srcpatch/pkg/config"
	"github.com/walteh/srcpatch/pkg/operation"
	"github.com/walteh/srcpatch/pkg/preset"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile  string
	Presets     []string
	DryRun      bool
	Backup      bool
	Concurrency int
	Debug       bool
	Verbose     bool
}

// Configs loads the config file and presets named by the flags. With neither
// flag set it falls back to preset.Default.
func (o *RootOpts) Configs(ctx context.Context) ([]*config.Config, error) {
	var cfgs []*config.Config

	if o.ConfigFile != "" {
		cfg, err := config.Load(ctx, o.ConfigFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfgs = append(cfgs, cfg)
	}

	names := o.Presets
	if len(names) == 0 && o.ConfigFile == "" {
		names = preset.Default
	}

	presets, err := preset.LoadAll(ctx, names)
	if err != nil {
		return nil, errors.Errorf("loading presets: %w", err)
	}

	return append(cfgs, presets...), nil
}

// Runner builds an operation runner from the flags
func (o *RootOpts) Runner(dryRun bool) *operation.Runner {
	return operation.NewRunner(operation.Options{
		DryRun:      dryRun || o.DryRun,
		Backup:      o.Backup,
		Concurrency: o.Concurrency,
	})
}
