// SPDX-License-Identifier: MIT

package field

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSingleInstructions(t *testing.T) {
	tests := []struct {
		src  string
		want []byte
	}{
		{"RET", []byte{0x00}},
		{"STITM 0 0x0068 1", []byte{0x58, 0x00, 0x68, 0x00, 0x01}},
		{"SETWORD 2 0x1C 0xFEFF", []byte{0x81, 0x20, 0x1C, 0xFF, 0xFE}},
		{"SMTRA 0x31 0 0 0", []byte{0x5B, 0x00, 0x00, 0x31, 0x00, 0x00, 0x00}},
		{"SMTRA 1 2 0x31 10 0 0", []byte{0x5B, 0x01, 0x02, 0x31, 0x0A, 0x00, 0x00}},
		{"BITON 1 0 66 4", []byte{0x82, 0x10, 66, 4}},
		{"BITOFF 0 0 12 7", []byte{0x83, 0x00, 12, 7}},
		{"BITXOR 2 3 1 0", []byte{0x84, 0x23, 1, 0}},
		{"MESSAGE 0 5", []byte{0x40, 0x00, 0x05}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Compile(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileProgram(t *testing.T) {
	src := `
# give one potion
STITM 0, 0x0000, 1
// announce it
MESSAGE 0 5
ret
`
	got, err := Compile(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x58, 0x00, 0x00, 0x00, 0x01,
		0x40, 0x00, 0x05,
		0x00,
	}, got)
}

func TestCompileEmptySource(t *testing.T) {
	got, err := Compile("\n# nothing here\n\n")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
	}{
		{"unknown opcode", "RET\nRET\nFROB 1 2", ErrUnknownOpcode, 3},
		{"empty instruction", "RET\n,", ErrEmptyInstruction, 2},
		{"missing args", "MESSAGE 0", ErrWrongArgCount, 1},
		{"extra args", "RET 1", ErrWrongArgCount, 1},
		{"smtra five args", "SMTRA 1 2 3 4 5", ErrWrongArgCount, 1},
		{"bad literal", "MESSAGE 0 zz", ErrBadIntLiteral, 1},
		{"overflow literal", "STITM 0 0x10000 1", ErrBadIntLiteral, 1},
		{"bank out of range", "SETWORD 16 0 0", ErrBankOutOfRange, 1},
		{"bit bank out of range", "BITON 16 0 1 2", ErrBankOutOfRange, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.line, ce.Line)
		})
	}
}

func TestReplaceScriptBody(t *testing.T) {
	buf := []byte{0xAA, 1, 2, 3, 4, 5, 6, 7, 0xBB}

	ok := ReplaceScriptBody(buf, 1, 8, "MESSAGE 0 5\nRET")
	require.True(t, ok)
	assert.Equal(t, []byte{0xAA, 0x40, 0x00, 0x05, 0x00, OpNop, OpNop, OpNop, 0xBB}, buf)
}

func TestReplaceScriptBodyTooLong(t *testing.T) {
	buf := []byte{1, 2, 3}
	orig := append([]byte(nil), buf...)

	ok := ReplaceScriptBody(buf, 0, 3, "STITM 0 1 1")
	assert.False(t, ok)
	assert.Equal(t, orig, buf)
}

func TestReplaceScriptBodyBadSource(t *testing.T) {
	buf := []byte{1, 2, 3}
	orig := append([]byte(nil), buf...)

	assert.False(t, ReplaceScriptBody(buf, 0, 3, "FROB"))
	assert.False(t, ReplaceScriptBody(buf, 2, 1, "RET"))
	assert.Equal(t, orig, buf)
}

func TestCompileErrorMessage(t *testing.T) {
	_, err := Compile("FROB")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
}
