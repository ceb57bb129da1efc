package writemode

import (
	"io"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// OpInfo accumulates what one side of a copy did: bytes moved, calls made
// and time spent inside those calls.
type OpInfo struct {
	NumBytes int64
	NumCalls int64
	Duration time.Duration
}

func (op *OpInfo) record(since time.Time, n int) {
	op.NumCalls++
	op.NumBytes += int64(max(n, 0))
	op.Duration += time.Since(since)
}

// Add folds other into op.
func (op *OpInfo) Add(other OpInfo) {
	op.NumBytes += other.NumBytes
	op.NumCalls += other.NumCalls
	op.Duration += other.Duration
}

// Average returns Duration spread over n units of work, or zero when n < 1.
func (op OpInfo) Average(n int64) time.Duration {
	if n < 1 {
		return 0
	}
	return op.Duration / time.Duration(n)
}

// BytesPerSecond returns NumBytes over elapsed wall time.
func (op OpInfo) BytesPerSecond(elapsed time.Duration) int64 {
	usec := int64(elapsed / time.Microsecond)
	if usec <= 0 {
		return 0
	}
	return op.NumBytes * int64(time.Second/time.Microsecond) / usec
}

type Reader struct {
	info   OpInfo
	reader io.Reader
}

func NewReader(reader io.Reader) *Reader {
	return &Reader{reader: reader}
}

func (r *Reader) Info() OpInfo {
	return r.info
}

func (r *Reader) Read(p []byte) (n int, err error) {
	start := time.Now()
	n, err = r.reader.Read(p)
	r.info.record(start, n)
	return
}

// Writer meters writes into a target, typically a file returned by
// Mode.Open or an io.OffsetWriter over one.
type Writer struct {
	info   OpInfo
	writer io.Writer
}

func NewWriter(writer io.Writer) *Writer {
	return &Writer{writer: writer}
}

func (w *Writer) Info() OpInfo {
	return w.info
}

func (w *Writer) Write(p []byte) (n int, err error) {
	start := time.Now()
	n, err = w.writer.Write(p)
	w.info.record(start, n)
	return
}

// NullWriter discards everything written to it.
type NullWriter struct{}

func NewNullWriter() *NullWriter {
	return &NullWriter{}
}

func (w *NullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func (w *NullWriter) WriteAt(p []byte, off int64) (int, error) {
	return len(p), nil
}

// ZeroReader fills every buffer with zero bytes.
type ZeroReader struct{}

func NewZeroReader() *ZeroReader {
	return &ZeroReader{}
}

func (r *ZeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func (r *ZeroReader) ReadAt(p []byte, off int64) (int, error) {
	return r.Read(p)
}

// RandReader fills buffers with pseudo-random bytes. The offset passed to
// ReadAt is ignored; every call yields fresh bytes.
type RandReader struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed uint64
}

func NewRandReader() *RandReader {
	seed := rand.Uint64()
	return &RandReader{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

func (r *RandReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Read(p)
}

func (r *RandReader) ReadAt(p []byte, off int64) (int, error) {
	return r.Read(p)
}
