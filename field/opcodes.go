// SPDX-License-Identifier: MIT

package field

// Opcodes the package handles by name. The full instruction set is covered
// by opcodeLength below.
const (
	OpRet     = 0x00
	OpKawai   = 0x28
	OpMessage = 0x40
	OpStitm   = 0x58
	OpSmtra   = 0x5B
	OpNop     = 0x5F
	OpSetword = 0x81
	OpBiton   = 0x82
	OpBitoff  = 0x83
	OpBitxor  = 0x84
)

// kawaiMaxExtra caps the variable payload of opcode 0x1C.
const kawaiMaxExtra = 128

// opcodeLength holds the base instruction length for every opcode plus the
// virtual 0x100 LABEL entry. Derived from the PC engine's instruction set;
// the values are fixed and must not change. Two opcodes carry dynamic
// length on top of this table: 0x1C (extra payload byte at +5) and 0x28
// (full size stored at +1), both handled in InstructionLength.
var opcodeLength = [257]uint8{
	// 0x00-0x0F: RET, the REQ family, JOIN/SPLIT, SPTYE/GTPYE, DSKCG, SPECIAL
	1, 3, 3, 3, 3, 3, 3, 2, 2, 15, 6, 6, 1, 1, 2, 2,
	// 0x10-0x1F: jumps and the IF family
	2, 3, 2, 3, 6, 7, 8, 9, 8, 9, 10, 3, 6, 1, 1, 1,
	// 0x20-0x2F: MINIGAME..WSIZW
	11, 2, 5, 3, 3, 9, 2, 2, 3, 1, 2, 2, 5, 7, 2, 10,
	// 0x30-0x3F: key checks, WSPCL/WNUMB, timers, gil
	4, 4, 4, 2, 2, 4, 5, 8, 6, 6, 6, 4, 1, 1, 1, 1,
	// 0x40-0x4F: MESSAGE, MPARA.., ASK/MENU, HP/MP
	3, 5, 6, 2, 1, 5, 1, 5, 7, 4, 2, 2, 1, 5, 1, 5,
	// 0x50-0x5F: windows, STITM/DLITM/CKITM, SMTRA/DMTRA/CMTRA, SHAKE, NOP
	10, 6, 4, 2, 2, 3, 7, 7, 5, 5, 5, 7, 8, 10, 8, 1,
	// 0x60-0x6F: MAPJUMP and scroll group
	10, 2, 5, 6, 6, 1, 9, 1, 9, 2, 7, 9, 1, 4, 3, 6,
	// 0x70-0x7F: BATTLE group, party arithmetic
	4, 2, 3, 4, 4, 8, 4, 5, 4, 5, 3, 3, 3, 3, 2, 3,
	// 0x80-0x8F: SETBYTE/SETWORD, bit ops, arithmetic
	4, 5, 4, 4, 4, 4, 5, 4, 5, 4, 5, 4, 5, 4, 5, 4,
	// 0x90-0x9F: arithmetic continued, RANDOM, SETX/GETX/SEARCHX
	5, 4, 5, 4, 5, 3, 3, 3, 3, 3, 4, 5, 6, 7, 7, 11,
	// 0xA0-0xAF: model control
	2, 2, 3, 3, 2, 11, 9, 9, 6, 6, 2, 4, 1, 6, 3, 3,
	// 0xB0-0xBF: animation control
	5, 5, 4, 3, 6, 6, 2, 4, 5, 4, 3, 5, 5, 4, 1, 2,
	// 0xC0-0xCF: JUMP/AXYZI/LADER/OFST, party membership
	11, 8, 15, 12, 1, 3, 3, 2, 2, 2, 4, 3, 3, 3, 2, 2,
	// 0xD0-0xDF: LINE group, SIN/COS, AKAO2, MPPAL
	13, 2, 2, 16, 10, 10, 4, 4, 3, 1, 15, 2, 4, 1, 1, 11,
	// 0xE0-0xEF: background and palette ops
	4, 4, 3, 3, 3, 5, 5, 5, 7, 10, 10, 5, 5, 8, 8, 11,
	// 0xF0-0xFF: music, SOUND, AKAO, movies, GAMEOVER
	2, 5, 14, 2, 2, 2, 2, 4, 2, 1, 3, 2, 2, 8, 3, 1,
	// 0x100: virtual LABEL
	0,
}

// InstructionLength returns the byte length of the instruction at off, given
// the script region end. It guarantees forward progress and never reads
// outside [0, len(buf)): a zero or region-overrunning length is clamped to
// min(1, end-off). The clamp is permissive by contract: malformed bytecode
// desynchronizes the walk instead of failing it.
func InstructionLength(buf []byte, off, end int) int {
	if off >= end {
		return 0
	}

	op := int(buf[off])
	size := int(opcodeLength[op])

	switch op {
	case 0x1C:
		// Variable extra payload, its size byte at +5 capped at 128.
		if off+6 <= end {
			extra := int(buf[off+5])
			if extra > kawaiMaxExtra {
				extra = kawaiMaxExtra
			}
			size += extra
		}

	case OpKawai:
		// KAWAI stores the full opcode size (opcode byte included) at +1.
		if off+2 <= end {
			if full := int(buf[off+1]); full > 0 {
				size = full
				if size > end-off {
					size = end - off
				}
			}
		}
	}

	if size == 0 || off+size > end {
		return min(1, end-off)
	}

	return size
}
