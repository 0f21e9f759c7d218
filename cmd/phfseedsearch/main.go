// Command phfseedsearch is the offline perfect-hash constant finder:
// given a fixed station name list, it brute-forces a (seed, divisor)
// pair under which the phf package's sample/mix function is injective,
// so a production build can ship frozen constants instead of paying
// the search cost at process startup. It mirrors find_seed_fxhash from
// the original reference implementation, parallelized across
// goroutines instead of a work-stealing thread pool.
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"math/bits"
	"os"
	"runtime"
	"sync"

	"github.com/dolthub/swiss"
)

const fxSeed = 0x517cc1b727220a95

// sample reimplements phf.sample without relying on margin-padded
// input: this tool reads plain station names from a text file, not a
// mmap'd measurements file, so it copies into a fixed-size buffer
// instead of reading past the slice's declared length.
func sample(name []byte) uint64 {
	if len(name) <= 1 {
		return 0
	}
	var buf [8]byte
	n := copy(buf[:], name[1:])
	w := binary.LittleEndian.Uint64(buf[:])
	if n >= 8 {
		return w
	}
	mask := uint64(1)<<(uint(n)*8) - 1
	return w & mask
}

func mix(seed, s uint64) uint64 {
	return (bits.RotateLeft64(seed, 5) ^ s) * fxSeed
}

var (
	namesFile = flag.String("names", "", "path to a file with one station name per line (required)")
	maxSeed   = flag.Uint64("max-seed", 10_000, "exclusive upper bound on the seeds tried per divisor")
	minDiv    = flag.Uint64("min-divisor", 0, "smallest divisor to try (defaults to the name count)")
	maxDiv    = flag.Uint64("max-divisor", 0, "largest divisor to try (defaults to 4x the name count)")
	workers   = flag.Int("workers", 0, "goroutines per divisor (defaults to GOMAXPROCS)")
)

func main() {
	flag.Parse()
	if *namesFile == "" {
		fmt.Fprintln(os.Stderr, "phfseedsearch: -names is required")
		os.Exit(2)
	}

	names, err := readNames(*namesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phfseedsearch: %v\n", err)
		os.Exit(1)
	}

	samples := make([]uint64, len(names))
	for i, n := range names {
		samples[i] = sample(n)
	}

	lo := *minDiv
	if lo == 0 {
		lo = uint64(len(names))
	}
	hi := *maxDiv
	if hi == 0 {
		hi = uint64(len(names)) * 4
	}
	w := *workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}

	for divisor := lo; divisor <= hi; divisor++ {
		if seed, ok := searchSeed(samples, divisor, *maxSeed, w); ok {
			fmt.Printf("Seed Found: %d with divisor: %d\n", seed, divisor)
			return
		}
		fmt.Printf("Failed %d\n", divisor)
	}
	fmt.Println("Failed")
	os.Exit(1)
}

func readNames(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var names [][]byte
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		name := make([]byte, len(line))
		copy(name, line)
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return names, nil
}

// searchSeed splits the [0, maxSeed) seed space across workers
// goroutines and returns the first seed any of them finds to be
// injective for divisor, or false if none is.
func searchSeed(samples []uint64, divisor, maxSeed uint64, workers int) (uint64, bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	found := make(chan uint64, 1)
	var wg sync.WaitGroup
	for tid := 0; tid < workers; tid++ {
		tid := uint64(tid)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := tid; seed < maxSeed; seed += uint64(workers) {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if injective(samples, seed, divisor) {
					select {
					case found <- seed:
					default:
					}
					cancel()
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(found)
	}()

	seed, ok := <-found
	return seed, ok
}

// injective reports whether mix(seed, sample) % divisor is distinct
// for every sample, using a swiss-map seen-set the same way the
// reference implementation's find_seed_fxhash resets a boolean vector
// between attempts.
func injective(samples []uint64, seed, divisor uint64) bool {
	seen := swiss.NewMap[uint64, struct{}](uint32(len(samples)))
	for _, s := range samples {
		idx := mix(seed, s) % divisor
		if _, dup := seen.Get(idx); dup {
			return false
		}
		seen.Put(idx, struct{}{})
	}
	return true
}
