// Command brc is the challenge harness: one positional thread-count
// argument, profiling flags, and the fork+pipe parent/child split that
// isolates allocator teardown from the externally observed completion
// point.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strconv"

	"go.coldcutz.net/go-stuff/utils"

	"github.com/coldcutz/brc-core/internal/driver"
	"github.com/coldcutz/brc-core/internal/format"
)

var (
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile   = flag.String("memprofile", "", "write memory profile to `file`")
	traceprofile = flag.String("trace", "", "write trace to `file`")
)

// childEnv marks a process as the forked worker rather than the
// waiting parent. A real fork() is unsafe once a Go program has
// started goroutines and background runtime threads, so the spec's
// fork+pipe contract is realized here as self-exec of the same binary
// plus an inherited pipe file descriptor, instead of an actual fork().
const childEnv = "BRC_CHILD"

// syncFD is the descriptor the child's half of the sync pipe arrives
// on: stdin/stdout/stderr occupy 0-2, so the lone entry in
// cmd.ExtraFiles lands at 3 in the child.
const syncFD = 3

const defaultFilename = "measurements.txt"

func main() {
	flag.Parse()

	if os.Getenv(childEnv) == "1" {
		os.Exit(runChild())
	}
	os.Exit(runParent())
}

// runParent starts the child, waits on the sync pipe, and propagates
// its outcome. The parent never touches the input file itself.
func runParent() int {
	r, w, err := os.Pipe()
	if err != nil {
		fmt.Fprintf(os.Stderr, "brc: creating sync pipe: %v\n", err)
		return 1
	}

	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(), childEnv+"=1")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{w}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "brc: starting child: %v\n", err)
		return 1
	}
	w.Close() // the child keeps its own copy across exec

	// The externally observed completion point is this read, not
	// cmd.Wait: by the time the child writes its sync byte, every
	// byte of output has already been flushed to cmd.Stdout.
	buf := make([]byte, 1)
	_, readErr := r.Read(buf)
	r.Close()

	waitErr := cmd.Wait()
	if readErr != nil || waitErr != nil {
		return 1
	}
	return 0
}

// runChild performs the actual work, then signals completion by
// writing one byte to the inherited sync pipe. On failure it exits
// without writing, so the parent's blocking read observes EOF and
// surfaces the failure per the harness's error-handling contract.
func runChild() int {
	sync := os.NewFile(syncFD, "brc-sync")
	defer sync.Close()

	code := runWorker()
	if code == 0 {
		if _, err := sync.Write([]byte{1}); err != nil {
			return 1
		}
	}
	return code
}

func runWorker() int {
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceprofile != "" {
		f, err := os.Create(*traceprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := trace.Start(f); err != nil {
			panic(err)
		}
		defer trace.Stop()
	}

	_, done, log, err := utils.StdSetup()
	if err != nil {
		panic(err)
	}
	done() // use default signal stuff

	numWorkers, err := threadCount()
	if err != nil {
		log.Error("error", "err", err)
		return 1
	}

	if err := run(numWorkers); err != nil {
		log.Error("error", "err", err)
		return 1
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic(err)
		}
	}
	return 0
}

// threadCount parses the harness's one positional argument: an
// optional positive integer worker count. Absent, it defaults to
// runtime.NumCPU().
func threadCount() (int, error) {
	args := flag.Args()
	if len(args) == 0 {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("thread count argument must be a positive integer, got %q", args[0])
	}
	return n, nil
}

func run(numWorkers int) error {
	tab, err := driver.Run(defaultFilename, numWorkers)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}
	fmt.Print(format.Render(tab))
	return nil
}
