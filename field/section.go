// SPDX-License-Identifier: MIT

package field

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
)

// sectionCount is the fixed number of sections in a PC field file.
const sectionCount = 9

// fileHeaderSize covers the 2 padding bytes, the u32 section count and the
// 9 u32 section positions.
const fileHeaderSize = 6 + sectionCount*4

// section1HeaderSize is the fixed sub-header size at the start of Section1;
// the entity table follows immediately after it.
const section1HeaderSize = 32

// section1Header is the leading part of the Section1 sub-header. The
// remaining bytes up to section1HeaderSize are engine scratch data the
// package preserves untouched.
type section1Header struct {
	Version     uint16 `struct:"uint16"`
	EntityCount uint8  `struct:"uint8"`
	ModelCount  uint8  `struct:"uint8"`
	PosTexts    uint16 `struct:"uint16"`
	AkaoCount   uint16 `struct:"uint16"`
}

// fileLayout is the decoded shape of one field resource: the section
// position table plus the bounds of Section1 inside the buffer.
type fileLayout struct {
	positions [sectionCount]uint32

	// sec0 is the offset of Section0's u32 size field; Section1's payload
	// starts right after it.
	sec0      int
	sec1Start int
	sec1End   int

	header section1Header
}

// parseLayout decodes the fixed file header and the Section1 sub-header.
// Any inconsistency (wrong section count, out-of-range offsets) fails
// softly with ok=false.
func parseLayout(buf []byte) (*fileLayout, bool) {
	if len(buf) < fileHeaderSize {
		return nil, false
	}

	if binary.LittleEndian.Uint32(buf[2:]) != sectionCount {
		return nil, false
	}

	var l fileLayout
	o := 6
	for i := range sectionCount {
		l.positions[i] = binary.LittleEndian.Uint32(buf[o:])
		o += 4
	}

	s0 := int(l.positions[0])
	s1 := int(l.positions[1])
	if s0+4 > len(buf) || s1 <= s0+4 || s1 > len(buf) {
		return nil, false
	}

	l.sec0 = s0
	l.sec1Start = s0 + 4
	l.sec1End = s1

	if l.sec1End-l.sec1Start < 8 {
		return nil, false
	}
	if err := restruct.Unpack(buf[l.sec1Start:l.sec1Start+8], binary.LittleEndian, &l.header); err != nil {
		return nil, false
	}

	return &l, true
}

// entitiesOffset returns the absolute offset of the entity table.
func (l *fileLayout) entitiesOffset() int {
	return l.sec1Start + section1HeaderSize
}

// akaoOffset returns the absolute offset of the AKAO relative-offset table
// (entity_count 8-byte records precede it).
func (l *fileLayout) akaoOffset() int {
	return l.entitiesOffset() + int(l.header.EntityCount)*8
}

// ScriptRegion returns the [start, end) byte range holding Section1's
// executable bytecode, excluding the trailing text table. It fails softly
// (ok=false) on any header inconsistency.
func ScriptRegion(buf []byte) (start, end int, ok bool) {
	l, ok := parseLayout(buf)
	if !ok {
		return 0, 0, false
	}

	posTexts := int(l.header.PosTexts)
	if posTexts == 0 {
		return l.sec1Start, l.sec1End, true
	}

	sec1Len := l.sec1End - l.sec1Start
	if posTexts > sec1Len {
		posTexts = sec1Len
	}

	return l.sec1Start, l.sec1Start + posTexts, true
}
