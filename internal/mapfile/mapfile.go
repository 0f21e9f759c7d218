// Package mapfile memory-maps the measurements file read-only and appends
// a sentinel margin so every downstream 32-byte vector read is safe, even
// for the very last record in the file.
package mapfile

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Margin mirrors simdscan.Margin; kept as an independent constant (rather
// than importing simdscan here) since the mapper is a lower-level
// component than the scanner and shouldn't depend on it.
const Margin = 32

// Mapping is a read-only view of the measurements file plus its trailing
// margin. The mapping outlives any station-name reference taken into it
// (see stationtable's unowned keys) until Close is called.
type Mapping struct {
	data     []byte // length == fileSize + Margin
	fileSize int
}

// Bytes returns the full mapped region, including the unspecified-content
// margin past fileSize. Callers must not treat bytes at or past FileSize()
// as record data.
func (m *Mapping) Bytes() []byte { return m.data }

// FileSize returns the real, on-disk length of the mapped file.
func (m *Mapping) FileSize() int { return m.fileSize }

// Open maps path read-only and advises the kernel the access pattern will
// be sequential. Returns an error wrapping the OS failure on any problem
// opening, statting, or mapping the file — all fatal per the harness's
// error taxonomy.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapfile: opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mapfile: statting %s: %w", path, err)
	}
	size := int(fi.Size())

	data, err := syscall.Mmap(int(f.Fd()), 0, size+Margin, syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mapfile: mmap %s: %w", path, err)
	}

	if size > 0 {
		if err := unix.Madvise(data[:size], unix.MADV_SEQUENTIAL); err != nil {
			_ = syscall.Munmap(data)
			return nil, fmt.Errorf("mapfile: madvise %s: %w", path, err)
		}
	}

	return &Mapping{data: data, fileSize: size}, nil
}

// Close unmaps the file. The mapping (and any station-name reference still
// pointing into it) must not be used afterward.
func (m *Mapping) Close() error {
	if m.data == nil {
		return nil
	}
	err := syscall.Munmap(m.data)
	m.data = nil
	return err
}
