//go:build goexperiment.simd && amd64

package simdscan

import (
	"math/bits"
	"simd/archsimd"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// hasVPMOVB2M gates ScanAVX2: archsimd's Int8x32.Equal().ToBits() lowers
// to the VPMOVB2M instruction, which requires AVX-512F + AVX-512BW +
// AVX-512VL, not just AVX2 (VPCMPEQB/VPMOVMSKB). Checking HasAVX2 alone
// SIGILLs on AVX2-only hardware, including most CI runners — see the
// pack's own go-simdcsv example, which hit and documented this exact
// gap. All three AVX-512 flags are required before this path runs.
var hasVPMOVB2M = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL

// ScanAVX2 is the literal vector realization of Scan: one Int8x32 load,
// two broadcast-compare-to-bitmask operations, two TrailingZeros32
// calls. Falls back to the portable Scan when the running CPU lacks the
// AVX-512 feature set ToBits() actually requires.
func ScanAVX2(chunk []byte, pos int) (sep, nl int) {
	if !hasVPMOVB2M {
		return Scan(chunk, pos)
	}
	line := archsimd.LoadInt8x32((*[32]int8)(unsafe.Pointer(&chunk[pos])))
	sepCmp := archsimd.BroadcastInt8x32(';')
	nlCmp := archsimd.BroadcastInt8x32('\n')

	sepMask := line.Equal(sepCmp).ToBits()
	nlMask := line.Equal(nlCmp).ToBits()

	sep, nl = -1, -1
	if sepMask != 0 {
		sep = pos + bits.TrailingZeros32(uint32(sepMask))
	}
	if nlMask != 0 {
		nl = pos + bits.TrailingZeros32(uint32(nlMask))
	}
	return
}
