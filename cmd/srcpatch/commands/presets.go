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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/srcpatch/cmd/srcpatch/opts"
	"github.com/walteh/srcpatch/pkg/preset"
)

// NewPresetsCmd creates a new presets command
func NewPresetsCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "List built-in presets or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				src, err := preset.Source(args[0])
				if err != nil {
					return err
				}
				_, err = out.Write(src)
				return err
			}

			for _, name := range preset.Names() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	return cmd
}
