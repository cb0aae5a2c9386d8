// Package templates holds the editor-integration files written into a
// workspace. Payloads are opaque: they are written byte for byte.
package templates

import (
	"embed"
	"fmt"
	"path"
	"sort"

	"github.com/spf13/afero"
)

//go:embed files/*.json
var embedded embed.FS

// Names of the built-in files, in write order.
const (
	CppProperties = "c_cpp_properties.json"
	Tasks         = "tasks.json"
	Launch        = "launch.json"
	Settings      = "settings.json"
)

var builtin = []string{CppProperties, Tasks, Launch, Settings}

// File is one configuration file: its name inside the config dir and its bytes.
type File struct {
	Name    string
	Payload []byte
}

// Table is an ordered set of files.
type Table []File

// Defaults returns the four embedded files.
func Defaults() Table {
	t := make(Table, 0, len(builtin))
	for _, name := range builtin {
		data, err := embedded.ReadFile(path.Join("files", name))
		if err != nil {
			// unreachable: the files are embedded at build time
			panic(fmt.Sprintf("embedded template %s missing: %v", name, err))
		}
		t = append(t, File{Name: name, Payload: data})
	}
	return t
}

// Names lists the file names in order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, f := range t {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the payload stored under name.
func (t Table) Lookup(name string) ([]byte, bool) {
	for _, f := range t {
		if f.Name == name {
			return f.Payload, true
		}
	}
	return nil, false
}

// With returns a copy of t where name maps to payload. Unknown names are
// appended, so extra files need no code change.
func (t Table) With(name string, payload []byte) Table {
	out := make(Table, len(t), len(t)+1)
	copy(out, t)
	for i := range out {
		if out[i].Name == name {
			out[i].Payload = payload
			return out
		}
	}
	return append(out, File{Name: name, Payload: payload})
}

// Load returns the defaults with overrides applied. overrides maps a file
// name to a path on fsys whose content replaces (or adds) that file.
// Added files are appended in name order so the result is deterministic.
func Load(fsys afero.Fs, overrides map[string]string) (Table, error) {
	t := Defaults()

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "" || path.Base(name) != name {
			return nil, fmt.Errorf("invalid template name %q: must be a plain file name", name)
		}
		data, err := afero.ReadFile(fsys, overrides[name])
		if err != nil {
			return nil, fmt.Errorf("reading template override for %s: %w", name, err)
		}
		t = t.With(name, data)
	}
	return t, nil
}
