//go:build windows

package process

import "fmt"

// crashStatus treats NTSTATUS error codes (0xC0000000 and up), such as an
// access violation, as abnormal termination rather than a plain exit code.
func crashStatus(code int) (string, bool) {
	if uint32(code) >= 0xC0000000 {
		return fmt.Sprintf("status 0x%08X", uint32(code)), true
	}
	return "", false
}
