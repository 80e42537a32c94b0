// SPDX-License-Identifier: MIT

package lzs

// LZS format constants: ring-buffer geometry and match bounds shared by the
// decoder and the encoder. These values are fixed by the consuming engine's
// decoder and must not change.
const (
	// ringSize is the sliding-window / ring-buffer size.
	ringSize = 4096
	// ringMask masks a ring index into [0, ringSize).
	ringMask = ringSize - 1
	// ringInitPos is the ring write cursor at stream start; the first
	// ringInitPos bytes of the ring are logically zero.
	ringInitPos = ringSize - maxMatch
	// maxMatch is the lookahead size (longest encodable match).
	maxMatch = 18
	// threshold is the longest match still emitted as literals; profitable
	// matches are threshold+1 .. maxMatch bytes.
	threshold = 2
)

// headerSize is the optional little-endian compressed-payload-size prefix.
const headerSize = 4
