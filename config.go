package writemode

import (
	"os"
	"strings"
)

// OpenConfig is the set of options handed to the platform open call.
type OpenConfig struct {
	Read      bool
	Write     bool
	CreateNew bool // fail if the file exists
	Create    bool // create the file if it is missing
	Append    bool
}

// Flag returns the os.OpenFile flag word for c. O_TRUNC is never set:
// reopening an existing file overwrites it in place from offset 0.
func (c OpenConfig) Flag() int {
	var flag int
	switch {
	case c.Read && c.Write:
		flag = os.O_RDWR
	case c.Write:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}

	if c.Create || c.CreateNew {
		flag |= os.O_CREATE
	}
	if c.CreateNew {
		flag |= os.O_EXCL
	}
	if c.Append {
		flag |= os.O_APPEND
	}
	return flag
}

// String renders the flag word as its O_* names, e.g. "O_WRONLY|O_CREATE".
func (c OpenConfig) String() string {
	names := []string{"O_RDONLY"}
	switch {
	case c.Read && c.Write:
		names[0] = "O_RDWR"
	case c.Write:
		names[0] = "O_WRONLY"
	}
	if c.Create || c.CreateNew {
		names = append(names, "O_CREATE")
	}
	if c.CreateNew {
		names = append(names, "O_EXCL")
	}
	if c.Append {
		names = append(names, "O_APPEND")
	}
	return strings.Join(names, "|")
}
