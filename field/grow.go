// SPDX-License-Identifier: MIT

package field

import "encoding/binary"

// AddDialogEntry grows the text table by appending message as a new string,
// rebuilding the whole {count, offsets[count], strings} block and splicing
// it over the old one. Because the table's total length changes, every
// structure holding a byte offset into the same buffer is shifted by the
// size delta in the same operation: AKAO relative offsets at or after the
// old table boundary, Section0's declared size, and the section-position
// table. Returns the new buffer, the new string's id and ok=true; on any
// layout inconsistency the original buffer is returned unchanged with
// ok=false.
func AddDialogEntry(buf []byte, message string) ([]byte, uint8, bool) {
	l, ok := parseLayout(buf)
	if !ok {
		return buf, 0, false
	}

	posTexts := int(l.header.PosTexts)
	if posTexts == 0 {
		return buf, 0, false
	}
	textsBase := l.sec1Start + posTexts
	if textsBase+4 > len(buf) {
		return buf, 0, false
	}

	if l.sec1Start+section1HeaderSize > len(buf) {
		return buf, 0, false
	}

	nAkao := int(l.header.AkaoCount)
	akaoOff := l.akaoOffset()
	if akaoOff+nAkao*4 > len(buf) {
		return buf, 0, false
	}

	layout, ok := TextLayout(buf)
	if !ok || layout.Base != textsBase {
		return buf, 0, false
	}

	regionEnd := textRegionEnd(buf, l, textsBase)
	if regionEnd <= textsBase {
		return buf, 0, false
	}

	strings, ok := collectStrings(buf, layout, regionEnd)
	if !ok {
		return buf, 0, false
	}

	enc := append(EncodeFieldText(message), textSentinel)
	newID := uint8(len(strings))
	strings = append(strings, enc)

	block := buildTextBlock(strings)

	oldLen := regionEnd - textsBase
	delta := len(block) - oldLen

	out := make([]byte, 0, len(buf)+delta)
	out = append(out, buf[:textsBase]...)
	out = append(out, block...)
	out = append(out, buf[regionEnd:]...)

	if delta != 0 {
		boundaryRel := (textsBase - l.sec1Start) + oldLen
		relocateAfterTextGrowth(out, l, boundaryRel, delta)
	}

	return out, newID, true
}

// textRegionEnd bounds the string bytes: Section1's end, tightened to the
// nearest AKAO block when any AKAO data is anchored past the table.
func textRegionEnd(buf []byte, l *fileLayout, textsBase int) int {
	end := l.sec1End

	nAkao := int(l.header.AkaoCount)
	if nAkao == 0 {
		return end
	}

	akaoOff := l.akaoOffset()
	minRel := -1
	for j := range nAkao {
		rel := int(binary.LittleEndian.Uint32(buf[akaoOff+j*4:]))
		if rel != 0 && (minRel < 0 || rel < minRel) {
			minRel = rel
		}
	}

	if minRel > 0 {
		cand := l.sec1Start + minRel
		if cand > textsBase && cand <= l.sec1End {
			end = cand
		}
	}

	return end
}

// collectStrings re-reads every existing string as a sentinel-terminated
// byte run. A slot with no usable span degrades to a bare sentinel.
func collectStrings(buf []byte, t *TextTableLayout, regionEnd int) ([][]byte, bool) {
	total := int(t.Count)
	strings := make([][]byte, 0, total+1)

	for id := range total {
		start := t.Base + int(t.Positions[id])
		if start >= regionEnd {
			return nil, false
		}

		next := regionEnd
		if next > len(buf) {
			next = len(buf)
		}
		if id+1 < total {
			rel := int(t.Positions[id+1])
			if limit := len(buf) - t.Base; rel > limit {
				rel = limit
			}
			next = t.Base + rel
		}
		if start >= next {
			strings = append(strings, []byte{textSentinel})
			continue
		}

		end := start
		for end < next {
			b := buf[end]
			end++
			if b == textSentinel {
				break
			}
		}
		if end <= start {
			strings = append(strings, []byte{textSentinel})
			continue
		}

		s := make([]byte, end-start)
		copy(s, buf[start:end])
		strings = append(strings, s)
	}

	return strings, true
}

// buildTextBlock serializes {count, offsets[count], strings}; offsets are
// relative to the block base.
func buildTextBlock(strings [][]byte) []byte {
	count := len(strings)
	size := 2 + count*2
	for _, s := range strings {
		size += len(s)
	}

	block := make([]byte, 0, size)
	block = binary.LittleEndian.AppendUint16(block, uint16(count))

	off := 2 + count*2
	for _, s := range strings {
		block = binary.LittleEndian.AppendUint16(block, uint16(off))
		off += len(s)
	}
	for _, s := range strings {
		block = append(block, s...)
	}

	return block
}

// relocateAfterTextGrowth applies the post-splice offset cascade: pure
// arithmetic over the already-spliced buffer. Every AKAO relative offset at
// or after boundaryRel, Section0's declared size and the section positions
// after Section0 move by exactly delta.
func relocateAfterTextGrowth(buf []byte, l *fileLayout, boundaryRel, delta int) {
	nAkao := int(l.header.AkaoCount)
	akaoOff := l.akaoOffset()
	for j := range nAkao {
		o := akaoOff + j*4
		rel := int(binary.LittleEndian.Uint32(buf[o:]))
		if rel >= boundaryRel {
			binary.LittleEndian.PutUint32(buf[o:], uint32(rel+delta))
		}
	}

	size0 := int(binary.LittleEndian.Uint32(buf[l.sec0:]))
	binary.LittleEndian.PutUint32(buf[l.sec0:], uint32(size0+delta))

	for idx := 1; idx < sectionCount; idx++ {
		o := 6 + idx*4
		pos := int(binary.LittleEndian.Uint32(buf[o:]))
		binary.LittleEndian.PutUint32(buf[o:], uint32(pos+delta))
	}
}
