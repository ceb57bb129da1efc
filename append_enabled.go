//go:build writemode_append

package writemode

// AppendEnabled reports whether ClassicAppend and AppendToExisting are
// available.
const AppendEnabled = true
