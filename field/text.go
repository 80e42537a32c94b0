// SPDX-License-Identifier: MIT

package field

import (
	"encoding/binary"
	"fmt"
)

// textSentinel terminates every string in the text table.
const textSentinel = 0xFF

// TextTableLayout locates the dialogue text table inside a field resource.
// Positions are relative to Base, which is the absolute offset of the
// table's u16 count field.
type TextTableLayout struct {
	Base      int
	Count     uint16
	Positions []uint16
}

// TextLayout parses the text-table header of Section1. The entry count is
// recovered from the first string position (first/2 - 1), matching the
// on-disk layout {count, offsets[count]}. Fails softly on inconsistent
// headers.
func TextLayout(buf []byte) (*TextTableLayout, bool) {
	l, ok := parseLayout(buf)
	if !ok {
		return nil, false
	}

	posTexts := int(l.header.PosTexts)
	if posTexts == 0 || posTexts+4 > l.sec1End-l.sec1Start {
		return nil, false
	}

	base := l.sec1Start + posTexts
	if base+4 > len(buf) {
		return nil, false
	}

	firstPos := int(binary.LittleEndian.Uint16(buf[base+2:]))
	if firstPos < 4 {
		return nil, false
	}

	count := uint16(firstPos/2 - 1)
	layout := &TextTableLayout{Base: base, Count: count}
	if count == 0 {
		return layout, true
	}

	layout.Positions = make([]uint16, count)
	for i := range int(count) {
		o := base + 2 + i*2
		if o+2 > len(buf) {
			return nil, false
		}
		layout.Positions[i] = binary.LittleEndian.Uint16(buf[o:])
	}

	return layout, true
}

// slotSpan resolves text slot id to its absolute [start, end) span. The end
// is the byte after the first sentinel, bounded by the next slot's start
// (or the buffer end for the last slot).
func (t *TextTableLayout) slotSpan(buf []byte, id int) (start, end int, ok bool) {
	if id >= int(t.Count) {
		return 0, 0, false
	}

	start = t.Base + int(t.Positions[id])
	if start >= len(buf) {
		return 0, 0, false
	}

	next := len(buf)
	if id+1 < int(t.Count) {
		rel := int(t.Positions[id+1])
		if limit := len(buf) - t.Base; rel > limit {
			rel = limit
		}
		next = t.Base + rel
	}
	if start >= next {
		return 0, 0, false
	}

	end = start
	for end < next {
		if buf[end] == textSentinel {
			end++
			break
		}
		end++
	}
	if end <= start {
		return 0, 0, false
	}

	return start, end, true
}

// FindEmptyTextSlots returns the ids of slots whose first byte is already
// the sentinel, i.e. unused strings that can be retargeted.
func FindEmptyTextSlots(buf []byte, t *TextTableLayout) []uint8 {
	var result []uint8
	for id := range int(t.Count) {
		start := t.Base + int(t.Positions[id])
		if start >= len(buf) {
			continue
		}

		next := len(buf)
		if id+1 < int(t.Count) {
			rel := int(t.Positions[id+1])
			if limit := len(buf) - t.Base; rel > limit {
				rel = limit
			}
			next = t.Base + rel
		}
		if start >= next {
			continue
		}

		if buf[start] == textSentinel {
			result = append(result, uint8(id))
		}
	}

	return result
}

// EncodeFieldText converts s to the engine's text encoding: printable ASCII
// minus 0x20, anything else becomes the '?' code.
func EncodeFieldText(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, ch := range s {
		c := byte('?')
		if ch < 0x80 {
			c = byte(ch)
		}
		if c < 0x20 || c > 0x7E {
			c = '?'
		}
		out = append(out, c-0x20)
	}

	return out
}

// PatchTextInPlace overwrites slot id with the first candidate string whose
// encoding plus sentinel fits the slot's span; candidates are expected in
// longest-first order. The remainder of the span is padded with sentinels.
// Returns false, leaving buf unmodified, when no candidate fits.
func PatchTextInPlace(buf []byte, t *TextTableLayout, id uint8, candidates []string) bool {
	start, end, ok := t.slotSpan(buf, int(id))
	if !ok {
		return false
	}

	capacity := end - start
	for _, s := range candidates {
		enc := EncodeFieldText(s)
		if len(enc)+1 > capacity {
			continue
		}

		copy(buf[start:], enc)
		for k := start + len(enc); k < end; k++ {
			buf[k] = textSentinel
		}

		return true
	}

	return false
}

// PatchKeyText rewrites slot id with a pickup line for the named key item,
// trying progressively shorter renderings.
func PatchKeyText(buf []byte, t *TextTableLayout, id uint8, keyName string) bool {
	return PatchTextInPlace(buf, t, id, []string{
		fmt.Sprintf("Found %q!", keyName),
		fmt.Sprintf("Found %s!", keyName),
		keyName,
	})
}

// PatchPickupText rewrites slot id with a pickup line for an inventory item
// or materia. name is the display name resolved by the caller; itemID only
// selects the generic fallback wording when even the bare name is too long
// for the slot.
func PatchPickupText(buf []byte, t *TextTableLayout, id uint8, name string, itemID uint16) bool {
	candidates := []string{
		fmt.Sprintf("Found %q!", name),
		fmt.Sprintf("Found %s!", name),
		name,
	}
	candidates = append(candidates, genericPickupCandidates(itemID)...)

	return PatchTextInPlace(buf, t, id, candidates)
}

// genericPickupCandidates returns category wordings by inventory id range.
func genericPickupCandidates(itemID uint16) []string {
	kind := "Item"
	switch {
	case itemID >= 0x0080 && itemID < 0x0100:
		kind = "Weapon"
	case itemID >= 0x0100 && itemID < 0x0120:
		kind = "Armor"
	case itemID >= 0x0120 && itemID < 0x0140:
		kind = "Accessory"
	}

	return []string{
		fmt.Sprintf("Found \"Randomized %s!\"", kind),
		fmt.Sprintf("Randomized %s!", kind),
		fmt.Sprintf("Rnd %s!", kind),
		kind + "!",
	}
}

// PickupMessage renders the dialogue line used for a grown text entry.
func PickupMessage(qty uint8, name string) string {
	if qty > 1 {
		return fmt.Sprintf("Found x%d %q!", qty, name)
	}

	return fmt.Sprintf("Found %q!", name)
}
