// SPDX-License-Identifier: MIT

package field

// FindNearbyMessage looks for the MESSAGE opcode closest to the instruction
// at from, within maxDist bytes. It first walks opcodes forward from the
// instruction and backward from the script start (structured scan), then
// falls back to a bounded byte-wise search. Returns the MESSAGE offset and
// its text id argument.
func FindNearbyMessage(buf []byte, scriptStart, scriptEnd, from, maxDist int) (msgOff int, textID uint8, ok bool) {
	bestOff, bestID, bestDist := 0, uint8(0), -1

	consider := func(off int, id uint8, dist int) {
		if dist <= maxDist && (bestDist < 0 || dist < bestDist) {
			bestOff, bestID, bestDist = off, id, dist
		}
	}

	if off, id, found := findFollowingMessage(buf, from, scriptEnd); found {
		consider(off, id, off-from)
	}

	// Last MESSAGE before the instruction, found by walking from the top.
	lastOff, lastID, haveLast := 0, uint8(0), false
	i := scriptStart
	for i < from {
		op := buf[i]
		if op == OpMessage {
			lastOff, haveLast = i, true
			lastID = argByte(buf, i+2)
		}
		if op == OpRet {
			break
		}

		sz := InstructionLength(buf, i, from)
		if sz == 0 {
			break
		}
		i += sz
	}
	if haveLast {
		consider(lastOff, lastID, from-lastOff)
	}

	// Byte-wise fallback around the instruction, nearest hit on each side.
	low := from - maxDist
	if low < scriptStart {
		low = scriptStart
	}
	high := from + maxDist
	if high > scriptEnd {
		high = scriptEnd
	}

	for pos := from - 1; pos >= low; pos-- {
		if buf[pos] != OpMessage {
			continue
		}
		if InstructionLength(buf, pos, scriptEnd) >= 3 {
			consider(pos, argByte(buf, pos+2), from-pos)
		}
		break
	}

	for pos := from; pos < high; pos++ {
		if buf[pos] != OpMessage {
			continue
		}
		if InstructionLength(buf, pos, scriptEnd) >= 3 {
			consider(pos, argByte(buf, pos+2), pos-from)
		}
		break
	}

	if bestDist < 0 {
		return 0, 0, false
	}

	return bestOff, bestID, true
}

// findFollowingMessage walks opcodes after the instruction at start until a
// MESSAGE or a RET.
func findFollowingMessage(buf []byte, start, scriptEnd int) (int, uint8, bool) {
	size := InstructionLength(buf, start, scriptEnd)
	if size == 0 {
		return 0, 0, false
	}

	i := start + size
	for i < scriptEnd {
		op := buf[i]
		if op == OpMessage {
			return i, argByte(buf, i+2), true
		}
		if op == OpRet {
			break
		}

		sz := InstructionLength(buf, i, scriptEnd)
		if sz == 0 {
			break
		}
		i += sz
	}

	return 0, 0, false
}

// argByte reads buf[off], zero past the end.
func argByte(buf []byte, off int) uint8 {
	if off >= len(buf) {
		return 0
	}

	return buf[off]
}
