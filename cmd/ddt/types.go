package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/slices"

	"github.com/shanebarnes/writemode"
	wmos "github.com/shanebarnes/writemode/internal/os"
)

type ddInfo struct {
	read  writemode.OpInfo
	write writemode.OpInfo
}

func (d *ddInfo) add(other *ddInfo) {
	d.read.Add(other.read)
	d.write.Add(other.write)
}

// copyPlan fixes how the target is opened before any worker starts.
type copyPlan struct {
	mode       writemode.Mode
	threads    int
	appendOnly bool
}

// newCopyPlan resolves the mode for target. Devices such as /dev/null
// always exist, so an unset -mode falls back to ClassicWrite for them.
// Append modes get one thread: WriteAt is rejected on O_APPEND files.
func newCopyPlan(mode writemode.Mode, modeSet bool, target string, threads int) copyPlan {
	if !modeSet && wmos.IsSpecialFile(target) {
		mode = writemode.ClassicWrite
	}
	p := copyPlan{mode: mode, threads: threads}
	if mode.OpenConfig().Append {
		p.appendOnly = true
		p.threads = 1
	}
	return p
}

// openMode is the mode for the target handle of thread i. Only the first
// handle applies the requested mode; later ones reopen what it produced,
// which a second CreateNew would refuse.
func (p copyPlan) openMode(i int) writemode.Mode {
	if i == 0 {
		return p.mode
	}
	return writemode.UpdateExisting
}

func (p copyPlan) String() string {
	return fmt.Sprintf("mode=%v flags=%v threads=%d", p.mode, p.mode.OpenConfig(), p.threads)
}

func exitIf(msg string, err error, ignoreErrs ...error) {
	if err == nil || slices.ContainsFunc(ignoreErrs, func(ignore error) bool { return errors.Is(err, ignore) }) {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
