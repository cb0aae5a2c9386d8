//go:build !windows

package envpath

import "github.com/spf13/afero"

// systemEnvironmentFile is read by pam_env for every login session.
const systemEnvironmentFile = "/etc/environment"

// DefaultStore returns the machine-wide environment store of this platform.
func DefaultStore() Store {
	return NewFileStore(afero.NewOsFs(), systemEnvironmentFile)
}
