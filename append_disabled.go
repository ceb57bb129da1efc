//go:build !writemode_append

package writemode

// AppendEnabled reports whether ClassicAppend and AppendToExisting are
// available. Build with -tags writemode_append to enable them.
const AppendEnabled = false
