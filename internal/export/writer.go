// Package export writes rendered stage artifacts to a filesystem.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/jonathan/manuscript-editor/internal/rendering"
	"github.com/spf13/afero"
)

// Writer writes exports into a directory of a filesystem.
type Writer struct {
	fs  afero.Fs
	dir string
}

// NewWriter creates a writer rooted at dir on fs.
func NewWriter(fs afero.Fs, dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{fs: fs, dir: dir}
}

// NewOSWriter creates a writer on the operating system filesystem.
func NewOSWriter(dir string) *Writer {
	return NewWriter(afero.NewOsFs(), dir)
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores export under its fixed filename, replacing any previous file,
// and returns the written path.
func (w *Writer) Write(export *rendering.Export) (string, error) {
	if export == nil {
		return "", fmt.Errorf("nothing to write")
	}
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, export.Filename)
	if err := afero.WriteFile(w.fs, path, export.Body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Exists reports whether an export with filename was already written.
func (w *Writer) Exists(filename string) (bool, error) {
	return afero.Exists(w.fs, filepath.Join(w.dir, filename))
}
