package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shanebarnes/goto/tokenbucket"
	"github.com/shanebarnes/goto/units"

	"github.com/shanebarnes/writemode"
	wmos "github.com/shanebarnes/writemode/internal/os"
)

func main() {
	var (
		blockSize      string
		blockCount     int64
		generator      string
		mode           writemode.Mode
		sourceFilename string
		targetFilename string
		rateLimit      string
		shareFiles     bool
		threadCount    int
	)

	flag.StringVar(&blockSize, "bs", "512", "Set both input and output block size to n bytes")
	flag.Int64Var(&blockCount, "count", -1, "Copy only n input blocks")
	flag.StringVar(&generator, "gen", "", "Generate input blocks instead of reading a file: zero or rand")
	flag.StringVar(&sourceFilename, "if", "", "Read input from file instead of the standard input")
	flag.Var(&mode, "mode", "Open the output file as one of "+modeUsage())
	flag.StringVar(&targetFilename, "of", "", "Write output to file instead of the standard output")
	flag.StringVar(&rateLimit, "rate", "0", "Copy rate limit in bits per second")
	flag.BoolVar(&shareFiles, "share", false, "Share a single read and write file descriptor between threads")
	flag.IntVar(&threadCount, "threads", 1, "Number of copy threads")

	flag.Parse()

	var blockSizeInBytes int64
	if f, err := units.ToNumber(blockSize); err == nil {
		blockSizeInBytes = int64(f)
	}

	var rateLimitInBps uint64
	if f, err := units.ToNumber(rateLimit); err == nil {
		rateLimitInBps = uint64(f)
	}

	err := validateFlags(blockSizeInBytes, blockCount, generator, sourceFilename, targetFilename, threadCount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Argument validation failed: %v\n\n", err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	openSource := func() io.ReaderAt {
		switch generator {
		case "zero":
			return writemode.NewZeroReader()
		case "rand":
			return writemode.NewRandReader()
		}
		f, err := os.Open(sourceFilename)
		exitIf("Failed to open source file", err)
		closers = append(closers, f)
		return f
	}

	if generator == "" {
		sourceFilename, err = filepath.Abs(sourceFilename)
		exitIf("Failed to open input file", err)

		if blockCount < 0 {
			fi, err := os.Stat(sourceFilename)
			exitIf("Failed to stat input file", err)
			blockCount = fi.Size() / blockSizeInBytes
			if fi.Size()%blockSizeInBytes != 0 {
				blockCount++
			}
		}
	}

	targetFilename, err = filepath.Abs(targetFilename)
	exitIf("Failed to create output file", err)

	if !wmos.IsSpecialFile(targetFilename) {
		err = os.MkdirAll(filepath.Dir(targetFilename), 0755)
		exitIf("Failed to create output directory", err)
	}

	modeSet := false
	flag.Visit(func(f *flag.Flag) { modeSet = modeSet || f.Name == "mode" })
	plan := newCopyPlan(mode, modeSet, targetFilename, threadCount)
	threadCount = plan.threads

	workerInputCh := make(chan int64, threadCount)
	workerOutputCh := make(chan *ddInfo, threadCount)

	var (
		source io.ReaderAt
		target *os.File
		wg     sync.WaitGroup
	)

	for i := 0; i < threadCount; i++ {
		if i == 0 || !shareFiles {
			source = openSource()

			openMode := plan.openMode(i)
			target, err = openMode.Open(targetFilename)
			exitIf(fmt.Sprintf("Failed to open target file instance %d (%v)", i, openMode), err)
			closers = append(closers, target)
		}

		wg.Add(1)
		go func(id int, source io.ReaderAt, target *os.File) {
			defer wg.Done()
			copyWorker(id, source, target, plan.appendOnly, blockSizeInBytes, rateLimitInBps/(8*uint64(threadCount)), workerInputCh, workerOutputCh)
		}(i, source, target)
	}

	start := time.Now()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var (
		copiedBlocks    int64
		receivedBlocks  int64
		sum             ddInfo
		statusIteration int
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for receivedBlocks < blockCount {
			select {
			case ddi := <-workerOutputCh:
				receivedBlocks++
				if ddi.write.NumBytes > 0 {
					copiedBlocks++
					sum.add(ddi)
				}
			case <-ticker.C:
				printStats(os.Stdout, statusIteration, plan, &sum, copiedBlocks, blockCount, time.Since(start))
				statusIteration++
			}
		}
	}()

	for i := int64(0); i < blockCount; i++ {
		workerInputCh <- i
	}
	close(workerInputCh)
	wg.Wait()
	stop := time.Now()
	printStats(os.Stdout, statusIteration, plan, &sum, copiedBlocks, blockCount, stop.Sub(start))
	fmt.Fprintf(os.Stdout, "Wrote %s to %s (%v)\n", humanize.IBytes(uint64(sum.write.NumBytes)), targetFilename, plan)
}

func modeUsage() string {
	var s []string
	for _, m := range writemode.Modes() {
		s = append(s, strings.Join(m.Aliases(), "|"))
	}
	return strings.Join(s, ", ")
}

const statsFormat = "%17s %9s %9s %9s %9s %9s %12s\n"

// printStats writes one progress row, preceded every tenth row by a header
// naming the target's open mode and flag word.
func printStats(w io.Writer, iteration int, plan copyPlan, sum *ddInfo, blocksCopied, blocksTotal int64, duration time.Duration) {
	if iteration%10 == 0 {
		fmt.Fprintf(w, "# %v\n", plan)
		fmt.Fprintf(w, statsFormat, "ELAPSED TIME", "BLOCKS", "PROGRESS", "AVG READ", "AVG WRITE", "SIZE", "RATE")
	}

	var progress float64
	if blocksTotal > 0 {
		progress = float64(blocksCopied) / float64(blocksTotal) * 100
	}

	fmt.Fprintf(w, statsFormat,
		units.ToTimeString(duration.Seconds()),
		units.ToMetricString(float64(blocksCopied), 3, "", ""),
		fmt.Sprintf("%3.03f%%", progress),
		units.ToMetricString(sum.read.Average(blocksCopied).Seconds(), 3, "", "s"),
		units.ToMetricString(sum.write.Average(blocksCopied).Seconds(), 3, "", "s"),
		units.ToMetricString(float64(sum.write.NumBytes), 3, "", "B"),
		units.ToMetricString(float64(sum.write.BytesPerSecond(duration)*8), 3, "", "bps"))
}

func validateFlags(blockSizeInBytes, blockCount int64, generator, sourceFilename, targetFilename string, threadCount int) error {
	switch {
	case len(os.Args) < 2:
		return fmt.Errorf("argc < 2")
	case blockSizeInBytes <= 0:
		return fmt.Errorf("bs <= 0")
	case generator != "" && generator != "zero" && generator != "rand":
		return fmt.Errorf("gen != zero|rand")
	case generator != "" && sourceFilename != "":
		return fmt.Errorf("gen and if are exclusive")
	case generator != "" && blockCount < 0:
		return fmt.Errorf("gen requires count")
	case generator == "" && sourceFilename == "":
		return fmt.Errorf("if == \"\"")
	case targetFilename == "":
		return fmt.Errorf("of == \"\"")
	case threadCount < 1:
		return fmt.Errorf("threads < 1")
	default:
		return nil
	}
}

func copyWorker(id int, source io.ReaderAt, target *os.File, appendOnly bool, blockSize int64, maxRateInBytesPerSecond uint64, input <-chan int64, output chan<- *ddInfo) {
	buf := make([]byte, blockSize)
	limiter := tokenbucket.New(maxRateInBytesPerSecond, uint64(blockSize))

	for blockNumber := range input {
		offset := blockNumber * blockSize
		reader := writemode.NewReader(io.NewSectionReader(source, offset, blockSize))
		var w io.Writer = target
		if !appendOnly {
			w = io.NewOffsetWriter(target, offset)
		}
		writer := writemode.NewWriter(w)
		limiter.Remove(uint64(blockSize))
		_, err := io.CopyBuffer(writer, reader, buf)
		exitIf(fmt.Sprintf("Copy worker instance %d failed", id), err, io.EOF)

		output <- &ddInfo{
			read:  reader.Info(),
			write: writer.Info(),
		}
	}
}
