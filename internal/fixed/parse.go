// Package fixed decodes the one-fractional-digit signed temperature field
// (grammar -?\d{1,2}\.\d) into a scaled integer ("tenths") using a single
// lookup-table index instead of a handwritten branch per digit count.
package fixed

import "encoding/binary"

// lut maps a 16-bit packed-nibble key to the absolute value of the decoded
// reading, in tenths. Built once at package init, same as the reference
// implementation's compile-time table — Go has no const-eval story for a
// 64K-entry table, so we pay the init() cost instead.
var lut [1 << 16]int16

func init() {
	for i := 0; i < len(lut); i++ {
		d0 := int16(i) & 0xf
		d1 := int16(i>>4) & 0xf
		d2 := int16(i>>8) & 0xf
		d3 := int16(i>>12) & 0xf
		if d1 == int16('.')&0xf {
			// text[1] was '.': a one-digit integer part, "d.d".
			lut[i] = d0*10 + d2
		} else {
			// text[2] is '.': a two-digit integer part, "dd.d".
			lut[i] = d0*100 + d1*10 + d3
		}
	}
}

// key packs the low nibble of each of w's four bytes into a 16-bit value,
// nibble i of the result coming from byte i of w. This is what a BMI2
// PEXT with mask 0x0F0F0F0F would produce directly; Go has no PEXT
// intrinsic, so we assemble the same bits with shifts.
func key(w uint32) uint16 {
	b0 := uint16(w) & 0xf
	b1 := uint16(w>>8) & 0xf
	b2 := uint16(w>>16) & 0xf
	b3 := uint16(w>>24) & 0xf
	return b0 | b1<<4 | b2<<8 | b3<<12
}

// Parse decodes a temperature field into tenths (e.g. "-45.4" -> -454).
// text must have at least 4 readable bytes starting at its first digit
// (true for any field sliced out of a mmap'd chunk with the mapper's
// sentinel margin, even when the field itself is only 3 bytes).
func Parse(text []byte) int32 {
	neg := text[0] == '-'
	var q []byte
	if neg {
		q = text[1:]
	} else {
		q = text
	}
	w := binary.LittleEndian.Uint32(q[0:4])
	abs := int32(lut[key(w)])
	if neg {
		return -abs
	}
	return abs
}
