// Package writemode names the ways a file can be opened for writing and maps
// each one to the flags passed to the platform open call.
package writemode

import (
	"os"
	"strconv"

	"golang.org/x/exp/slices"

	wmos "github.com/shanebarnes/writemode/internal/os"
)

// DefaultPerm is used when Open creates a file. The process umask applies.
const DefaultPerm os.FileMode = 0666

// Mode selects how a file is opened for writing. The zero value is CreateNew.
type Mode int

const (
	// CreateNew creates the file and fails if it already exists.
	CreateNew Mode = iota
	// UpdateExisting opens an existing file and fails if it does not exist.
	UpdateExisting
	// ClassicWrite opens the file, creating it if it does not exist.
	ClassicWrite
	// ClassicAppend is ClassicWrite with every write appended at the end.
	// Only available when built with the writemode_append tag.
	ClassicAppend
	// AppendToExisting is UpdateExisting with every write appended at the end.
	// Only available when built with the writemode_append tag.
	AppendToExisting
)

var names = [...]string{
	CreateNew:        "CreateNew",
	UpdateExisting:   "UpdateExisting",
	ClassicWrite:     "ClassicWrite",
	ClassicAppend:    "ClassicAppend",
	AppendToExisting: "AppendToExisting",
}

// First alias of each mode is its display name.
var aliases = [...][]string{
	CreateNew:        {"CreateNew", "Create", "C"},
	UpdateExisting:   {"UpdateExisting", "Update", "U"},
	ClassicWrite:     {"ClassicWrite", "Write", "W"},
	ClassicAppend:    {"ClassicAppend", "Append", "A"},
	AppendToExisting: {"AppendToExisting", "Extend", "E"},
}

var configs = [...]OpenConfig{
	CreateNew:        {Write: true, CreateNew: true, Create: true},
	UpdateExisting:   {Write: true},
	ClassicWrite:     {Write: true, Create: true},
	ClassicAppend:    {Write: true, Create: true, Append: true},
	AppendToExisting: {Write: true, Append: true},
}

// ASCII lower-cased alias -> mode, restricted to available modes
var lookup = buildLookup()

func buildLookup() map[string]Mode {
	m := make(map[string]Mode)
	for _, mode := range Modes() {
		for _, alias := range aliases[mode] {
			m[asciiLower(alias)] = mode
		}
	}
	return m
}

// asciiLower folds A-Z only. Bytes of multi-byte runes pass through, so
// letters such as U+0130 never fold onto an ASCII alias.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// Default returns CreateNew.
func Default() Mode {
	return CreateNew
}

// Modes returns the modes available in this build, in declaration order.
func Modes() []Mode {
	modes := make([]Mode, 0, len(names))
	for m := range names {
		if Mode(m).Available() {
			modes = append(modes, Mode(m))
		}
	}
	return modes
}

// Parse returns the mode named by text. Matching ignores ASCII case and
// covers the whole token, and only modes available in this build are recognised.
func Parse(text string) (Mode, error) {
	if m, ok := lookup[asciiLower(text)]; ok {
		return m, nil
	}
	return CreateNew, &ParseError{Text: text}
}

func (m Mode) valid() bool {
	return m >= 0 && int(m) < len(names)
}

// Available reports whether m can be parsed and opened in this build.
func (m Mode) Available() bool {
	switch m {
	case CreateNew, UpdateExisting, ClassicWrite:
		return true
	case ClassicAppend, AppendToExisting:
		return AppendEnabled
	default:
		return false
	}
}

// String returns the display name of m.
func (m Mode) String() string {
	if !m.valid() {
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
	return names[m]
}

// Aliases returns the tokens Parse accepts for m, display name first.
func (m Mode) Aliases() []string {
	if !m.valid() {
		return nil
	}
	return slices.Clone(aliases[m])
}

// OpenConfig returns the open configuration for m. Values outside the enum
// get a write-only configuration that neither creates nor appends.
func (m Mode) OpenConfig() OpenConfig {
	if !m.valid() {
		return OpenConfig{Write: true}
	}
	return configs[m]
}

// Open opens name for writing under m, creating it with DefaultPerm when
// the mode allows creation.
func (m Mode) Open(name string) (*os.File, error) {
	return m.OpenFile(name, DefaultPerm)
}

// OpenFile is like Open but creates the file with perm. Errors from the
// platform are returned unchanged, so errors.Is works with fs.ErrExist,
// fs.ErrNotExist and fs.ErrPermission.
func (m Mode) OpenFile(name string, perm os.FileMode) (*os.File, error) {
	if !m.Available() {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrModeUnavailable}
	}
	return wmos.OpenFileWr(name, m.OpenConfig().Flag(), perm)
}
