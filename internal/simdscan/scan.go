// Package simdscan locates the ';' separator and '\n' terminator of a
// measurement record using a word-parallel ("SIMD within a register")
// technique instead of a byte-at-a-time loop.
//
// A real vector realization of this same algorithm, gated behind
// GOEXPERIMENT=simd and a runtime AVX-512 check, lives in
// archsimd_amd64.go. This file is the portable default: it runs on
// every architecture Go targets and needs no special build flags.
package simdscan

import "encoding/binary"

// Margin is the minimum number of readable sentinel bytes a caller must
// guarantee exist past the logical end of any chunk it passes to Scan.
// One 32-byte window read always stays inside that padding.
const Margin = 32

const (
	loBits = 0x0101010101010101
	hiBits = 0x8080808080808080
)

// hasByte is nonzero exactly when some byte of w equals b. The lowest set
// high bit marks the first such byte; bits above it may also be set for
// bytes that do not equal b (borrow propagation), so callers only test the
// result against zero. Classic "has zero byte" trick (Knuth / Bit Twiddling
// Hacks), applied to w^broadcast(b) instead of w directly.
func hasByte(w uint64, b byte) uint64 {
	x := w ^ (loBits * uint64(b))
	return (x - loBits) &^ x & hiBits
}

// firstMatch returns the offset in [0,8) of the first byte in w equal to b,
// or -1. Only called after hasByte(w, b) != 0, so the result always lands
// inside the word.
func firstMatch(w uint64, b byte) int {
	for i := 0; i < 8; i++ {
		if byte(w) == b {
			return i
		}
		w >>= 8
	}
	return -1
}

// Scan locates the separator and terminator of the record starting at
// chunk[pos]. It requires chunk[pos:pos+32] to be readable (true for any
// position at least Margin bytes before the end of a mapped chunk).
//
// sep and nl are absolute offsets into chunk. Either is -1 if not found in
// the 32-byte window: sep == -1 means the record's name is >= 32 bytes (nl
// is then -1 too), and nl == -1 with sep found means the name is long
// enough (26 bytes or more) that the temperature field runs past the
// window — callers fall back to ScanLong for those.
func Scan(chunk []byte, pos int) (sep, nl int) {
	sep, nl = -1, -1
	for i := 0; i < 4 && (sep == -1 || nl == -1); i++ {
		off := pos + i*8
		w := binary.LittleEndian.Uint64(chunk[off : off+8])
		if sep == -1 && hasByte(w, ';') != 0 {
			sep = off + firstMatch(w, ';')
		}
		if nl == -1 && hasByte(w, '\n') != 0 {
			nl = off + firstMatch(w, '\n')
		}
	}
	return
}

// ScanLong is the declared scalar fallback for records whose station name
// is too long to fit the 32-byte scan window (spec domain boundary: names
// are supposed to be <= 31 bytes). It scans byte-by-byte from pos, skipping
// the first 3 bytes before searching for ';', so it finds the right
// separator only for names of at least 3 bytes; a 1- or 2-byte name's ';'
// is skipped. The driver reaches it only for lines that did not fit Scan's
// window, whose names are far longer than that.
func ScanLong(chunk []byte, pos int) (sep, nl int) {
	sep, nl = -1, -1
	for i := pos + 3; i < len(chunk); i++ {
		if chunk[i] == ';' {
			sep = i
			break
		}
	}
	if sep == -1 {
		return -1, -1
	}
	for i := sep + 1; i < len(chunk); i++ {
		if chunk[i] == '\n' {
			nl = i
			break
		}
	}
	return sep, nl
}
