// SPDX-License-Identifier: MIT

package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel causes for compile failures; match with errors.Is.
var (
	// ErrEmptyInstruction is returned for a line with no opcode token.
	ErrEmptyInstruction = errors.New("empty instruction")
	// ErrUnknownOpcode is returned for an opcode outside the DSL vocabulary.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrWrongArgCount is returned when an opcode has the wrong number of arguments.
	ErrWrongArgCount = errors.New("wrong argument count")
	// ErrBadIntLiteral is returned for an unparseable integer token.
	ErrBadIntLiteral = errors.New("malformed integer literal")
	// ErrBankOutOfRange is returned when a bank value does not fit a nibble.
	ErrBankOutOfRange = errors.New("bank nibble out of range")
)

// CompileError reports a compile failure with its source line number and a
// sentinel cause.
type CompileError struct {
	Line   int
	Detail string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Detail)
}

func (e *CompileError) Unwrap() error { return e.Err }

func compileErr(line int, cause error, format string, args ...any) error {
	return &CompileError{Line: line, Detail: fmt.Sprintf(format, args...), Err: cause}
}

// Compile turns a small textual script form into exact field bytecode.
//
// Line format (case-insensitive opcodes; decimal or 0x-prefixed hex
// integers, trailing commas tolerated):
//
//	RET
//	SETWORD bank addr value            -> [0x81, bank<<4, addr, lo, hi]
//	STITM banks item_id qty            -> [0x58, banks, lo, hi, qty]
//	SMTRA materia_id ap0 ap1 ap2       -> [0x5B, 0, 0, id, ap0, ap1, ap2]
//	SMTRA b1b2 b3b4 id ap0 ap1 ap2     -> [0x5B, b1b2, b3b4, id, ap0, ap1, ap2]
//	BITON|BITOFF|BITXOR b1 b2 var bit  -> [op, (b1<<4)|b2, var, bit]
//	MESSAGE window_id text_id          -> [0x40, window, text]
//
// Blank lines and lines starting with '#' or "//" are ignored. Errors carry
// the 1-based line number.
func Compile(src string) ([]byte, error) {
	var out []byte

	for idx, rawLine := range strings.Split(src, "\n") {
		lineNo := idx + 1
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		tokens := strings.Fields(line)
		opcode := strings.ToUpper(strings.Trim(tokens[0], ","))
		if opcode == "" {
			return nil, compileErr(lineNo, ErrEmptyInstruction, "%q", line)
		}
		args := tokens[1:]

		var err error
		out, err = compileLine(out, lineNo, opcode, args)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

func compileLine(out []byte, line int, opcode string, args []string) ([]byte, error) {
	switch opcode {
	case "RET":
		if len(args) != 0 {
			return nil, wrongArgs(line, opcode, 0, len(args))
		}
		out = append(out, OpRet)

	case "SETWORD":
		// Constant form only: the low source nibble stays zero.
		if len(args) != 3 {
			return nil, wrongArgs(line, opcode, 3, len(args))
		}
		bank, err := parseU8(line, args[0])
		if err != nil {
			return nil, err
		}
		if bank > 0x0F {
			return nil, compileErr(line, ErrBankOutOfRange, "bank %#x (0-15)", bank)
		}
		addr, err := parseU8(line, args[1])
		if err != nil {
			return nil, err
		}
		value, err := parseU16(line, args[2])
		if err != nil {
			return nil, err
		}
		out = append(out, OpSetword, bank<<4, addr, byte(value), byte(value>>8))

	case "STITM":
		if len(args) != 3 {
			return nil, wrongArgs(line, opcode, 3, len(args))
		}
		banks, err := parseU8(line, args[0])
		if err != nil {
			return nil, err
		}
		itemID, err := parseU16(line, args[1])
		if err != nil {
			return nil, err
		}
		qty, err := parseU8(line, args[2])
		if err != nil {
			return nil, err
		}
		out = append(out, OpStitm, banks, byte(itemID), byte(itemID>>8), qty)

	case "SMTRA":
		vals := make([]uint8, len(args))
		for i, a := range args {
			v, err := parseU8(line, a)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		switch len(args) {
		case 4:
			// Shorthand constant form, zero bank bytes.
			out = append(out, OpSmtra, 0, 0, vals[0], vals[1], vals[2], vals[3])
		case 6:
			out = append(out, OpSmtra, vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
		default:
			return nil, wrongArgs(line, opcode, 4, len(args))
		}

	case "BITON", "BITOFF", "BITXOR":
		if len(args) != 4 {
			return nil, wrongArgs(line, opcode, 4, len(args))
		}
		bank1, err := parseU8(line, args[0])
		if err != nil {
			return nil, err
		}
		bank2, err := parseU8(line, args[1])
		if err != nil {
			return nil, err
		}
		banks, err := packBanks(line, bank1, bank2)
		if err != nil {
			return nil, err
		}
		variable, err := parseU8(line, args[2])
		if err != nil {
			return nil, err
		}
		bit, err := parseU8(line, args[3])
		if err != nil {
			return nil, err
		}

		op := byte(OpBitxor)
		switch opcode {
		case "BITON":
			op = OpBiton
		case "BITOFF":
			op = OpBitoff
		}
		out = append(out, op, banks, variable, bit)

	case "MESSAGE":
		if len(args) != 2 {
			return nil, wrongArgs(line, opcode, 2, len(args))
		}
		windowID, err := parseU8(line, args[0])
		if err != nil {
			return nil, err
		}
		textID, err := parseU8(line, args[1])
		if err != nil {
			return nil, err
		}
		out = append(out, OpMessage, windowID, textID)

	default:
		return nil, compileErr(line, ErrUnknownOpcode, "%s", opcode)
	}

	return out, nil
}

func wrongArgs(line int, opcode string, expected, got int) error {
	return compileErr(line, ErrWrongArgCount, "%s: expected %d, got %d", opcode, expected, got)
}

func packBanks(line int, b1, b2 uint8) (uint8, error) {
	if b1 > 0x0F {
		return 0, compileErr(line, ErrBankOutOfRange, "bank1 %#x (0-15)", b1)
	}
	if b2 > 0x0F {
		return 0, compileErr(line, ErrBankOutOfRange, "bank2 %#x (0-15)", b2)
	}

	return b1<<4 | b2&0x0F, nil
}

func parseU8(line int, token string) (uint8, error) {
	v, err := parseUint(token, 8)
	if err != nil {
		return 0, compileErr(line, ErrBadIntLiteral, "%q", strings.TrimSuffix(token, ","))
	}

	return uint8(v), nil
}

func parseU16(line int, token string) (uint16, error) {
	v, err := parseUint(token, 16)
	if err != nil {
		return 0, compileErr(line, ErrBadIntLiteral, "%q", strings.TrimSuffix(token, ","))
	}

	return uint16(v), nil
}

func parseUint(token string, bits int) (uint64, error) {
	t := strings.TrimSuffix(token, ",")
	if rest, ok := strings.CutPrefix(t, "0x"); ok {
		return strconv.ParseUint(rest, 16, bits)
	}
	if rest, ok := strings.CutPrefix(t, "0X"); ok {
		return strconv.ParseUint(rest, 16, bits)
	}

	return strconv.ParseUint(t, 10, bits)
}

// ReplaceScriptBody compiles src and overwrites the script span
// [start, end) with the result, NOP-padded to the exact original length.
// Returns false, leaving buf unmodified, when compilation fails or the
// compiled form is longer than the span.
func ReplaceScriptBody(buf []byte, start, end int, src string) bool {
	if start < 0 || end > len(buf) || end <= start {
		return false
	}

	code, err := Compile(src)
	if err != nil || len(code) > end-start {
		return false
	}

	copy(buf[start:], code)
	for k := start + len(code); k < end; k++ {
		buf[k] = OpNop
	}

	return true
}
