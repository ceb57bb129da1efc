package os

import (
	"os"

	wmpath "github.com/shanebarnes/writemode/internal/path"
)

// OpenFileWr opens name with flag, rewriting UNC paths into their extended
// length form first.
func OpenFileWr(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(wmpath.FixLongUncPath(name), flag, perm)
}

func IsSpecialFile(name string) bool {
	return name == os.DevNull
}
