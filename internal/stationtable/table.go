package stationtable

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/kamstrup/intmap"
)

// maxInlineName is the declared boundary of the spec's input domain: a
// name this long or shorter fits the 32-byte scan/equality window. Longer
// names still aggregate correctly, just through the Overflow map instead
// of the fast array path.
const maxInlineName = 31

// defaultSlots is the minimum table size, 2^14 slots, which exceeds the
// spec's maximum distinct station count (<=10,000). At that count it is
// only about 61% full; New grows past this floor when sizeHint calls for
// a load factor of 0.5 or less.
const defaultSlots = 1 << 14

type slot struct {
	name  []byte // nil means empty; otherwise an unowned slice into the mapping
	entry Entry
}

// Table is a single-writer, open-addressing dictionary keyed by station
// name. It is not a general-purpose map (see spec Non-goals): it assumes
// short keys, a backing mapping padded with at least 32 bytes past every
// name, and that only one goroutine ever mutates a given instance.
type Table struct {
	slots    []slot
	mask     uint32
	count    int
	overflow *intmap.Map[uint64, *overflowEntry]
}

type overflowEntry struct {
	name  string
	entry Entry
}

// New allocates a table sized for sizeHint distinct stations at a load
// factor <= 0.5, with a floor of defaultSlots.
func New(sizeHint int) *Table {
	n := defaultSlots
	for n < sizeHint*2 {
		n *= 2
	}
	return &Table{slots: make([]slot, n), mask: uint32(n - 1)}
}

// hashPrefix is the spec's required hash: a 32-bit unaligned load of the
// first 4 bytes of the name. name is always a slice into a margin-padded
// mapping, so reading 4 bytes is safe even when len(name) < 4 — the extra
// bytes (separator, digits) just add entropy, never an out-of-bounds read.
func hashPrefix(name []byte) uint32 {
	return binary.LittleEndian.Uint32(name[0:4:4])
}

// wordsEqual compares a and b (same declared length) 8 bytes at a time,
// masking the final partial word — the Go analogue of the reference
// implementation's single 32-byte vector compare plus length mask, done
// with plain 64-bit words since Go has no portable intrinsic for it.
func wordsEqual(a, b []byte) bool {
	n := len(a)
	for i := 0; i < n; i += 8 {
		end := i + 8
		if end > n {
			end = n
		}
		wa := binary.LittleEndian.Uint64(a[i : i+8 : i+8])
		wb := binary.LittleEndian.Uint64(b[i : i+8 : i+8])
		width := uint(end-i) * 8
		var mask uint64 = ^uint64(0)
		if width < 64 {
			mask = 1<<width - 1
		}
		if (wa^wb)&mask != 0 {
			return false
		}
	}
	return true
}

func namesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return wordsEqual(a, b)
}

// Insert folds one reading for the named station into the table,
// inserting a fresh slot on first sight.
func (t *Table) Insert(name []byte, temp int32) {
	if len(name) > maxInlineName {
		t.insertOverflow(name, temp)
		return
	}
	idx := hashPrefix(name) & t.mask
	for {
		s := &t.slots[idx]
		if s.name == nil {
			s.name = name
			s.entry.Update(temp)
			t.count++
			return
		}
		if namesEqual(s.name, name) {
			s.entry.Update(temp)
			return
		}
		idx = (idx + 1) & t.mask
	}
}

func (t *Table) insertOverflow(name []byte, temp int32) {
	if t.overflow == nil {
		t.overflow = intmap.New[uint64, *overflowEntry](16)
	}
	h := xxhash.Sum64(name)
	e, ok := t.overflow.Get(h)
	if !ok {
		e = &overflowEntry{name: string(name)}
		t.overflow.Put(h, e)
	}
	e.entry.Update(temp)
}

// mergeEntry folds a whole accumulator (rather than a single reading)
// into the slot for name, inserting a copy of entry on first sight.
func (t *Table) mergeEntry(name []byte, entry *Entry) {
	if len(name) > maxInlineName {
		t.mergeOverflow(name, entry)
		return
	}
	idx := hashPrefix(name) & t.mask
	for {
		s := &t.slots[idx]
		if s.name == nil {
			s.name = name
			s.entry = *entry
			t.count++
			return
		}
		if namesEqual(s.name, name) {
			s.entry.Merge(entry)
			return
		}
		idx = (idx + 1) & t.mask
	}
}

func (t *Table) mergeOverflow(name []byte, entry *Entry) {
	if t.overflow == nil {
		t.overflow = intmap.New[uint64, *overflowEntry](16)
	}
	h := xxhash.Sum64(name)
	e, ok := t.overflow.Get(h)
	if !ok {
		e = &overflowEntry{name: string(name)}
		t.overflow.Put(h, e)
	}
	e.entry.Merge(entry)
}

// Merge folds every station in o into t. Safe to call with o discarded
// afterward; does not mutate o.
func (t *Table) Merge(o *Table) {
	for i := range o.slots {
		s := &o.slots[i]
		if s.name != nil {
			t.mergeEntry(s.name, &s.entry)
		}
	}
	if o.overflow != nil {
		o.overflow.ForEach(func(_ uint64, oe *overflowEntry) {
			t.mergeEntry([]byte(oe.name), &oe.entry)
		})
	}
}

// Named is one (station name, accumulator) pair, as produced by Entries.
type Named struct {
	Name  string
	Entry Entry
}

// Entries returns every station currently in the table. Safe to call only
// once the table is done being written to.
func (t *Table) Entries() []Named {
	out := make([]Named, 0, t.count)
	for i := range t.slots {
		s := &t.slots[i]
		if s.name != nil {
			out = append(out, Named{Name: string(s.name), Entry: s.entry})
		}
	}
	if t.overflow != nil {
		t.overflow.ForEach(func(_ uint64, oe *overflowEntry) {
			out = append(out, Named{Name: oe.name, Entry: oe.entry})
		})
	}
	return out
}

// Len returns the number of distinct stations seen so far.
func (t *Table) Len() int {
	n := t.count
	if t.overflow != nil {
		n += t.overflow.Len()
	}
	return n
}
