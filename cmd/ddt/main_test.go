package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanebarnes/writemode"
)

func runWorker(t *testing.T, source []byte, target *os.File, appendOnly bool, blockSize int64) []*ddInfo {
	t.Helper()

	blocks := (int64(len(source)) + blockSize - 1) / blockSize
	input := make(chan int64, blocks)
	output := make(chan *ddInfo, blocks)
	for i := int64(0); i < blocks; i++ {
		input <- i
	}
	close(input)

	copyWorker(0, bytes.NewReader(source), target, appendOnly, blockSize, 0, input, output)
	close(output)

	var infos []*ddInfo
	for ddi := range output {
		infos = append(infos, ddi)
	}
	return infos
}

func TestCopyWorker(t *testing.T) {
	t.Run("offsetWrites", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "out")
		target, err := writemode.CreateNew.Open(name)
		require.NoError(t, err)

		infos := runWorker(t, []byte("ABCDEFG"), target, false, 3)
		require.NoError(t, target.Close())

		require.Len(t, infos, 3)
		assert.EqualValues(t, 3, infos[0].write.NumBytes)
		assert.EqualValues(t, 1, infos[2].write.NumBytes)

		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "ABCDEFG", string(data))
	})

	t.Run("overwriteInPlace", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.WriteFile(name, []byte("0123456789"), 0644))

		target, err := writemode.UpdateExisting.Open(name)
		require.NoError(t, err)
		runWorker(t, []byte("ABCD"), target, false, 2)
		require.NoError(t, target.Close())

		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "ABCD456789", string(data))
	})

	t.Run("sequentialWrites", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.WriteFile(name, []byte("XY"), 0644))

		// O_APPEND is set by hand so the test runs in every build.
		target, err := os.OpenFile(name, os.O_WRONLY|os.O_APPEND, 0)
		require.NoError(t, err)
		runWorker(t, []byte("ABCDE"), target, true, 2)
		require.NoError(t, target.Close())

		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "XYABCDE", string(data))
	})
}

func TestModeUsage(t *testing.T) {
	usage := modeUsage()
	assert.Contains(t, usage, "CreateNew|Create|C")
	assert.Contains(t, usage, "UpdateExisting|Update|U")
	assert.Contains(t, usage, "ClassicWrite|Write|W")
	assert.Equal(t, writemode.AppendEnabled, strings.Contains(usage, "ClassicAppend"))
}

func TestNewCopyPlan(t *testing.T) {
	regular := filepath.Join(t.TempDir(), "out")

	t.Run("defaultModeRegularFile", func(t *testing.T) {
		p := newCopyPlan(writemode.Default(), false, regular, 4)
		assert.Equal(t, copyPlan{mode: writemode.CreateNew, threads: 4}, p)
	})

	t.Run("defaultModeDevNull", func(t *testing.T) {
		p := newCopyPlan(writemode.Default(), false, os.DevNull, 2)
		assert.Equal(t, writemode.ClassicWrite, p.mode)
		assert.Equal(t, 2, p.threads)
	})

	t.Run("explicitModeDevNull", func(t *testing.T) {
		p := newCopyPlan(writemode.CreateNew, true, os.DevNull, 1)
		assert.Equal(t, writemode.CreateNew, p.mode)
	})

	t.Run("appendForcesOneThread", func(t *testing.T) {
		for _, m := range []writemode.Mode{writemode.ClassicAppend, writemode.AppendToExisting} {
			p := newCopyPlan(m, true, regular, 8)
			assert.Equal(t, copyPlan{mode: m, threads: 1, appendOnly: true}, p, m.String())
		}
	})
}

func TestCopyPlan_OpenMode(t *testing.T) {
	p := newCopyPlan(writemode.CreateNew, true, filepath.Join(t.TempDir(), "out"), 3)
	assert.Equal(t, writemode.CreateNew, p.openMode(0))
	assert.Equal(t, writemode.UpdateExisting, p.openMode(1))
	assert.Equal(t, writemode.UpdateExisting, p.openMode(2))

	t.Run("handlesOpen", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "out")
		for i := 0; i < p.threads; i++ {
			f, err := p.openMode(i).Open(name)
			require.NoError(t, err, "thread %d", i)
			require.NoError(t, f.Close())
		}
	})
}

func TestPrintStats(t *testing.T) {
	p := newCopyPlan(writemode.ClassicWrite, true, filepath.Join(t.TempDir(), "out"), 2)
	sum := &ddInfo{}
	sum.add(&ddInfo{
		read:  writemode.OpInfo{NumBytes: 512, NumCalls: 2, Duration: time.Millisecond},
		write: writemode.OpInfo{NumBytes: 512, NumCalls: 1, Duration: time.Millisecond},
	})
	assert.EqualValues(t, 512, sum.write.NumBytes)

	var buf bytes.Buffer
	printStats(&buf, 0, p, sum, 1, 2, time.Second)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "# mode=ClassicWrite flags=O_WRONLY|O_CREATE threads=2", lines[0])
	assert.Contains(t, lines[1], "AVG WRITE")

	buf.Reset()
	printStats(&buf, 1, p, sum, 1, 2, time.Second)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}
