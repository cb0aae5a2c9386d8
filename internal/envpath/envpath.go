// Package envpath appends directories to a persistent, machine-wide search
// path variable without duplicating entries.
package envpath

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"setup-cpp/internal/logger"
)

// ErrEmptySegment is returned when asked to append a blank directory.
var ErrEmptySegment = errors.New("path segment is empty")

// Store is a persistent key-value environment store.
// Get returns "" with a nil error for an unset variable.
type Store interface {
	Get(name string) (string, error)
	Set(name, value string) error
}

// StoreError reports a failure to read or write the persistent store.
type StoreError struct {
	Op   string
	Name string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("environment store %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Mutation records a read-modify-write of one variable.
type Mutation struct {
	Variable string
	Old      string
	New      string
}

// Changed reports whether the write altered the stored value.
func (m Mutation) Changed() bool { return m.Old != m.New }

// Configurator appends segments to one variable of a Store.
type Configurator struct {
	store     Store
	variable  string
	separator string
	foldCase  bool

	// mu serializes the read-then-write against the store.
	mu sync.Mutex
}

// NewConfigurator targets variable in store, using the platform list
// separator. Entries compare case-insensitively on Windows.
func NewConfigurator(store Store, variable string) *Configurator {
	return &Configurator{
		store:     store,
		variable:  variable,
		separator: string(os.PathListSeparator),
		foldCase:  runtime.GOOS == "windows",
	}
}

// WithSeparator overrides the list separator and case folding. Used when the
// target store belongs to another platform's conventions.
func (c *Configurator) WithSeparator(sep string, foldCase bool) *Configurator {
	c.separator = sep
	c.foldCase = foldCase
	return c
}

// AppendToPath adds segment to the variable unless already present.
// The store is not written when nothing changes.
func (c *Configurator) AppendToPath(segment string) (Mutation, error) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return Mutation{Variable: c.variable}, ErrEmptySegment
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.store.Get(c.variable)
	if err != nil {
		return Mutation{Variable: c.variable}, err
	}

	updated, changed := Append(current, segment, c.separator, c.foldCase)
	m := Mutation{Variable: c.variable, Old: current, New: updated}
	if !changed {
		logger.Debug("[DEBUG] %s already contains %s\n", c.variable, segment)
		return m, nil
	}

	if err := c.store.Set(c.variable, updated); err != nil {
		return Mutation{Variable: c.variable, Old: current, New: current}, err
	}
	logger.Debug("[DEBUG] %s: %q -> %q\n", c.variable, current, updated)
	return m, nil
}

// Append returns value with segment added as a new list entry, and whether
// anything changed. An entry matching segment (ignoring surrounding spaces and
// a trailing slash or backslash) leaves value untouched.
func Append(value, segment, sep string, foldCase bool) (string, bool) {
	if Contains(value, segment, sep, foldCase) {
		return value, false
	}
	trimmed := strings.TrimRight(value, sep)
	if strings.TrimSpace(trimmed) == "" {
		return segment, true
	}
	return trimmed + sep + segment, true
}

// Contains reports whether segment is one of the entries of value.
func Contains(value, segment, sep string, foldCase bool) bool {
	want := normalize(segment)
	if want == "" {
		return false
	}
	for _, entry := range strings.Split(value, sep) {
		got := normalize(entry)
		if got == want || (foldCase && strings.EqualFold(got, want)) {
			return true
		}
	}
	return false
}

func normalize(entry string) string {
	entry = strings.TrimSpace(entry)
	if len(entry) > 1 {
		entry = strings.TrimRight(entry, `\/`)
	}
	return entry
}
