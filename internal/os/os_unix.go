//go:build !windows

package os

import (
	"os"
	"path/filepath"
)

var special = []string{
	os.DevNull,
	"/dev/random",
	"/dev/urandom",
	"/dev/zero",
}

// OpenFileWr opens name with flag as given. The caller owns the flag word;
// nothing is added or removed here.
func OpenFileWr(name string, flag int, perm os.FileMode) (*os.File, error) {
	// Notes:
	//   O_DIRECT and O_DSYNC are left out, they may fail on some kernels and filesystems
	return os.OpenFile(name, flag, perm)
}

// IsSpecialFile reports whether name resolves to one of the character
// devices that accept writes but cannot be created or truncated.
func IsSpecialFile(name string) bool {
	if abs, err := filepath.Abs(name); err == nil {
		for _, f := range special {
			if abs == f {
				return true
			}
		}
	}
	return false
}
