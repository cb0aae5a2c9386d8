package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"setup-cpp/internal/logger"
)

// DefaultConfigDir is the editor's per-folder settings directory.
const DefaultConfigDir = ".vscode"

// ErrEmptyRoot is returned when no workspace root could be determined.
var ErrEmptyRoot = errors.New("workspace root is empty")

// Layout is the workspace root plus its nested configuration directory.
type Layout struct {
	Root      string
	ConfigDir string
}

// ConfigPath joins name onto the configuration directory.
func (l Layout) ConfigPath(name string) string {
	return filepath.Join(l.ConfigDir, name)
}

// PathError reports a directory or file that could not be created or written.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Initializer creates the workspace directory tree.
type Initializer struct {
	fs     afero.Fs
	subdir string
}

// NewInitializer creates an Initializer. An empty subdir means DefaultConfigDir.
func NewInitializer(fsys afero.Fs, subdir string) *Initializer {
	if subdir == "" {
		subdir = DefaultConfigDir
	}
	return &Initializer{fs: fsys, subdir: subdir}
}

// EnsureLayout creates root and root/<subdir> if absent. Existing
// directories are not an error; an existing non-directory is.
func (i *Initializer) EnsureLayout(root string) (Layout, error) {
	if root == "" {
		return Layout{}, ErrEmptyRoot
	}
	layout := Layout{Root: root, ConfigDir: filepath.Join(root, i.subdir)}

	for _, dir := range []string{layout.Root, layout.ConfigDir} {
		info, err := i.fs.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			logger.Debug("[DEBUG] Directory already exists: %s\n", dir)
			continue
		case err == nil:
			return Layout{}, &PathError{Op: "mkdir", Path: dir, Err: fs.ErrExist}
		case !errors.Is(err, fs.ErrNotExist):
			return Layout{}, &PathError{Op: "stat", Path: dir, Err: err}
		}
		if err := i.fs.MkdirAll(dir, 0755); err != nil {
			return Layout{}, &PathError{Op: "mkdir", Path: dir, Err: err}
		}
		logger.Debug("[DEBUG] Created directory: %s\n", dir)
	}
	return layout, nil
}

// Writer writes whole configuration files.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer on fsys.
func NewWriter(fsys afero.Fs) *Writer {
	return &Writer{fs: fsys}
}

// Write truncates path and writes payload. A failure mid-way leaves the file
// empty or truncated; the next run rewrites it from scratch.
func (w *Writer) Write(path string, payload []byte) error {
	f, err := w.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return &PathError{Op: "open", Path: path, Err: err}
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &PathError{Op: "close", Path: path, Err: err}
	}
	logger.Debug("[DEBUG] Wrote %d bytes to %s\n", len(payload), path)
	return nil
}

// Cleaner removes transient artifacts on a best-effort basis.
type Cleaner struct {
	fs afero.Fs
}

// NewCleaner creates a Cleaner on fsys.
func NewCleaner(fsys afero.Fs) *Cleaner {
	return &Cleaner{fs: fsys}
}

// RemoveIfExists deletes path. Missing or locked files are only logged.
func (c *Cleaner) RemoveIfExists(path string) {
	err := c.fs.Remove(path)
	switch {
	case err == nil:
		logger.Debug("[DEBUG] Removed temporary file %s\n", path)
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("[DEBUG] Temporary file %s already gone\n", path)
	default:
		logger.Warn("[WARN] Could not remove temporary file %s: %v\n", path, err)
	}
}
