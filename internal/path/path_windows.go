package path

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	ExtendedLengthPathUncPrefix = `\\?\UNC`
)

// FixLongUncPath rewrites a \\server\share path into its \\?\UNC form so
// it is not subject to MAX_PATH. Other paths are returned unchanged.
func FixLongUncPath(path string) string {
	// \\?\ and \\.\ paths are already device or extended-length paths
	if strings.HasPrefix(path, `\\?\`) || strings.HasPrefix(path, `\\.\`) {
		return path
	}

	extPath := path
	volName := filepath.VolumeName(path)

	if len(volName) >= 2 && volName[1] != ':' {
		// Same UNC walk as fixLongPath in os/path_windows.go.
		if l := len(path); l >= 5 &&
			os.IsPathSeparator(path[0]) &&
			os.IsPathSeparator(path[1]) &&
			!os.IsPathSeparator(path[2]) && path[2] != '.' {
			for n := 3; n < l-1; n++ {
				// end of server name
				if os.IsPathSeparator(path[n]) {
					n++
					if !os.IsPathSeparator(path[n]) {
						// share names starting with '.' are left alone
						if path[n] == '.' {
							break
						}
						for ; n < l; n++ {
							if os.IsPathSeparator(path[n]) {
								break
							}
						}
						extPath = ExtendedLengthPathUncPrefix + path[1:]
					}
					break
				}
			}
		}
	}

	return extPath
}
