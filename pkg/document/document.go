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

package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// BackupSuffix is appended to a document's path when a backup is requested
const BackupSuffix = ".bak"

// 📄 Document is the full text of one file. Treat it as a value: use
// WithContent to derive a changed copy.
type Document struct {
	Path    string
	Content string
	Mode    fs.FileMode
}

// WriteOptions controls Write
type WriteOptions struct {
	// Backup copies the current file to Path + BackupSuffix before replacing it.
	Backup bool
}

// 🎯 Load reads a document from disk
func Load(ctx context.Context, path string) (*Document, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading document")

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("reading document: %s is a directory", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}

	return &Document{
		Path:    path,
		Content: string(content),
		Mode:    info.Mode().Perm(),
	}, nil
}

// WithContent returns a copy of d holding content
func (d *Document) WithContent(content string) *Document {
	return &Document{
		Path:    d.Path,
		Content: content,
		Mode:    d.Mode,
	}
}

// Checksum is the hex SHA-256 of the content
func (d *Document) Checksum() string {
	hash := sha256.Sum256([]byte(d.Content))
	return hex.EncodeToString(hash[:])
}

// 💾 Write replaces the file at d.Path with d.Content.
//
// The content goes to a temp file in the same directory which is then renamed
// over the target, so readers see either the old or the new file.
func Write(ctx context.Context, d *Document, opts WriteOptions) error {
	logger := zerolog.Ctx(ctx)

	if opts.Backup {
		if err := backup(d.Path); err != nil {
			return err
		}
		logger.Debug().Str("path", d.Path+BackupSuffix).Msg("wrote backup")
	}

	mode := d.Mode
	if mode == 0 {
		mode = 0o644
	}

	dir, base := filepath.Split(d.Path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.WriteString(tmp, d.Content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, d.Path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	logger.Debug().Str("path", d.Path).Int("bytes", len(d.Content)).Msg("wrote document")
	return nil
}

func backup(path string) error {
	src, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Errorf("opening document for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path + BackupSuffix)
	if err != nil {
		return errors.Errorf("creating backup: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return errors.Errorf("copying backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return errors.Errorf("closing backup: %w", err)
	}
	return nil
}
