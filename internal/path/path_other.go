//go:build !windows

package path

// FixLongUncPath returns path unchanged outside Windows.
func FixLongUncPath(path string) string {
	return path
}
