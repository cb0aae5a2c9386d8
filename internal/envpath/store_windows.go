//go:build windows

package envpath

import (
	"errors"

	"golang.org/x/sys/windows/registry"
)

// machineEnvironmentKey holds the machine-wide environment under HKLM.
const machineEnvironmentKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`

// RegistryStore reads and writes string values of one registry key.
type RegistryStore struct {
	root registry.Key
	path string
}

// NewMachineStore targets HKLM\...\Session Manager\Environment.
// Writing requires administrator rights.
func NewMachineStore() *RegistryStore {
	return &RegistryStore{root: registry.LOCAL_MACHINE, path: machineEnvironmentKey}
}

// DefaultStore returns the machine-wide environment store of this platform.
func DefaultStore() Store {
	return NewMachineStore()
}

// Get returns the unexpanded value of name, or "" when it is not set.
func (s *RegistryStore) Get(name string) (string, error) {
	k, err := registry.OpenKey(s.root, s.path, registry.QUERY_VALUE)
	if err != nil {
		return "", &StoreError{Op: "open", Name: name, Err: err}
	}
	defer k.Close()

	value, _, err := k.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &StoreError{Op: "read", Name: name, Err: err}
	}
	return value, nil
}

// Set stores value as REG_EXPAND_SZ so %VAR% references keep working.
// TODO: broadcast WM_SETTINGCHANGE so already-running shells pick up the new value.
func (s *RegistryStore) Set(name, value string) error {
	k, err := registry.OpenKey(s.root, s.path, registry.SET_VALUE)
	if err != nil {
		return &StoreError{Op: "open", Name: name, Err: err}
	}
	defer k.Close()

	if err := k.SetExpandStringValue(name, value); err != nil {
		return &StoreError{Op: "write", Name: name, Err: err}
	}
	return nil
}
