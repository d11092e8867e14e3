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

	"github.com/walteh/srcpatch/pkg/document"
	"github.com/walteh/srcpatch/pkg/patch"
)

// 💾 Store loads and writes documents
type Store interface {
	Load(ctx context.Context, path string) (*document.Document, error)
	Write(ctx context.Context, doc *document.Document, opts document.WriteOptions) error
}

// FileStore is the Store backed by the local filesystem
type FileStore struct{}

func (FileStore) Load(ctx context.Context, path string) (*document.Document, error) {
	return document.Load(ctx, path)
}

func (FileStore) Write(ctx context.Context, doc *document.Document, opts document.WriteOptions) error {
	return document.Write(ctx, doc, opts)
}

// 📄 DocumentReport is what happened to one file
type DocumentReport struct {
	Path      string
	Result    *patch.Result
	RuleCount int
	Written   bool
	Diff      string

	// Checksum is the SHA-256 of the patched content.
	Checksum string
}

// Changed reports whether the patched content differs from the file
func (d DocumentReport) Changed() bool {
	return d.Result != nil && d.Result.WasModified
}

// 📊 Report collects the outcome of a run in file order
type Report struct {
	Documents []DocumentReport

	// Warnings are globs that matched no file and rules that matched more
	// than once.
	Warnings []string
}

// MatchCount is the number of rules, across all files, that made at least
// one substitution
func (r *Report) MatchCount() int {
	n := 0
	for _, d := range r.Documents {
		if d.Result != nil {
			n += d.Result.MatchCount
		}
	}
	return n
}

// RuleCount is the number of rules that were tried, across all files
func (r *Report) RuleCount() int {
	n := 0
	for _, d := range r.Documents {
		n += d.RuleCount
	}
	return n
}

// ChangedCount is the number of files whose content changed
func (r *Report) ChangedCount() int {
	n := 0
	for _, d := range r.Documents {
		if d.Changed() {
			n++
		}
	}
	return n
}
