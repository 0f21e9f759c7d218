// Package driver wires mapfile, chunk, simdscan, fixed and stationtable
// together into the parallel fan-out/fan-in pipeline: map the input
// file once, split it into many more chunks than workers, and run a
// work-stealing pool of goroutines that pull chunks off a shared queue
// until it's drained, then merge every worker's table into one.
package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/coldcutz/brc-core/internal/chunk"
	"github.com/coldcutz/brc-core/internal/fixed"
	"github.com/coldcutz/brc-core/internal/mapfile"
	"github.com/coldcutz/brc-core/internal/simdscan"
	"github.com/coldcutz/brc-core/internal/stationtable"
)

// Margin is the sentinel padding every chunk's Readable view carries
// past its nominal end; it must match the margin the backing mapping
// was opened with.
const Margin = mapfile.Margin

// tableSizeHint matches the spec's guidance that station counts stay
// under 10,000; stationtable.New sizes for it at load factor <= 0.5,
// which gives 32,768 slots (twice its 16,384-slot floor).
const tableSizeHint = 10_000

// chunksPerWorker is the spec's work-stealing sizing guidance: cut the
// file into workers*16 pieces rather than one piece per worker, so a
// worker that finishes an easy (short-line, cold-cache) chunk early
// can immediately pull another off the shared queue instead of
// sitting idle while a worker stuck with a skewed chunk catches up.
const chunksPerWorker = 16

// Run maps path, fans the work out across a work-stealing pool of
// numWorkers goroutines, and returns the merged station table.
// numWorkers <= 0 means runtime.NumCPU().
func Run(path string, numWorkers int) (*stationtable.Table, error) {
	m, err := mapfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	return RunOnMapping(m.Bytes(), m.FileSize(), numWorkers)
}

// RunOnMapping runs the same pipeline as Run against an already-opened
// mapping; split out so tests (and callers who manage their own
// mapping lifetime) don't need a real file on disk.
func RunOnMapping(data []byte, fileSize, numWorkers int) (*stationtable.Table, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	chunks := chunk.Split(data, fileSize, numWorkers*chunksPerWorker)

	jobs := make(chan chunk.Chunk, len(chunks))
	for _, c := range chunks {
		jobs <- c
	}
	close(jobs)

	g, _ := errgroup.WithContext(context.Background())
	tables := make([]*stationtable.Table, numWorkers)
	for w := 0; w < numWorkers; w++ {
		w := w
		g.Go(func() error {
			tab := stationtable.New(tableSizeHint)
			// Pulling from the shared channel is the work-stealing
			// step: whichever goroutine finishes its current chunk
			// first grabs the next one, instead of each worker owning
			// a fixed, possibly-skewed slice of the file.
			for c := range jobs {
				if err := processChunk(c.Readable(data, Margin), tab); err != nil {
					return fmt.Errorf("driver: worker %d: %w", w, err)
				}
			}
			tables[w] = tab
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := stationtable.New(tableSizeHint)
	for _, tab := range tables {
		if tab != nil {
			merged.Merge(tab)
		}
	}
	return merged, nil
}

// scanLine locates the separator and newline of the line starting at
// pos within buf. It tries the fixed 32-byte vector window first
// (simdscan.Scan) and only falls back to the unbounded byte-at-a-time
// scan (simdscan.ScanLong) when the line doesn't fit that window —
// long station names are rare, so the fallback is cold by construction.
func scanLine(buf []byte, pos int) (sep, nl int) {
	if pos+32 <= len(buf) {
		if sep, nl = simdscan.Scan(buf, pos); sep != -1 && nl != -1 {
			return
		}
	}
	return simdscan.ScanLong(buf, pos)
}

// processChunk walks every line in buf (a Readable chunk view, real
// bytes followed by Margin sentinel bytes) and folds each reading into
// tab.
func processChunk(buf []byte, tab *stationtable.Table) error {
	end := len(buf) - Margin
	lineStart := 0
	for lineStart < end {
		sep, nl := scanLine(buf, lineStart)
		if sep < 0 || nl < 0 {
			return fmt.Errorf("malformed line at offset %d", lineStart)
		}
		name := buf[lineStart:sep]
		temp := fixed.Parse(buf[sep+1 : nl])
		tab.Insert(name, temp)
		lineStart = nl + 1
	}
	return nil
}
