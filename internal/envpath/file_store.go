package envpath

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

// FileStore keeps variables as KEY="value" lines, the /etc/environment format.
// Unrelated lines and comments are preserved on write.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a FileStore backed by path on fsys.
func NewFileStore(fsys afero.Fs, path string) *FileStore {
	return &FileStore{fs: fsys, path: path}
}

// Get returns the value of name, or "" if the file or the key is absent.
func (s *FileStore) Get(name string) (string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &StoreError{Op: "read", Name: name, Err: err}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if key, value, ok := parseLine(scanner.Text()); ok && key == name {
			return value, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", &StoreError{Op: "read", Name: name, Err: err}
	}
	return "", nil
}

// Set rewrites the file with name bound to value.
func (s *FileStore) Set(name, value string) error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StoreError{Op: "read", Name: name, Err: err}
	}

	entry := name + `="` + value + `"`
	var lines []string
	replaced := false
	if len(data) > 0 {
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			if key, _, ok := parseLine(line); ok && key == name {
				if replaced {
					continue
				}
				line = entry
				replaced = true
			}
			lines = append(lines, line)
		}
	}
	if !replaced {
		lines = append(lines, entry)
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := afero.WriteFile(s.fs, s.path, []byte(out), 0644); err != nil {
		return &StoreError{Op: "write", Name: name, Err: err}
	}
	return nil
}

// parseLine splits KEY=value, stripping optional surrounding quotes.
func parseLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return strings.TrimSpace(key), value, true
}
