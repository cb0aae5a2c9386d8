//go:build !windows

package process

// crashStatus is a no-op outside Windows: crashes surface as signals there.
func crashStatus(int) (string, bool) {
	return "", false
}
