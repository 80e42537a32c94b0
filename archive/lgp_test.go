// SPDX-License-Identifier: MIT

package archive

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nameField(s string) []byte {
	b := make([]byte, 20)
	copy(b, s)

	return b
}

// buildLgpFixture assembles a two-entry archive with sequential bodies and
// a trailer:
//
//	  0.. 15  creator + file count
//	 16.. 69  TOC (2 x 27 bytes)
//	 70.. 98  entry 0: header + "HELLO"
//	 99..128  entry 1: header + "WORLDX"
//	129..     trailer
func buildLgpFixture() []byte {
	raw := make([]byte, 0, 160)

	raw = append(raw, nameField("SQUARESOFT")[:12]...)
	raw = binary.LittleEndian.AppendUint32(raw, 2)

	toc := func(name string, offset uint32) []byte {
		rec := nameField(name)
		rec = binary.LittleEndian.AppendUint32(rec, offset)
		rec = append(rec, 0)
		rec = binary.LittleEndian.AppendUint16(rec, 0)

		return rec
	}
	raw = append(raw, toc("AAAA.TEX", 70)...)
	raw = append(raw, toc("bb.dat", 99)...)

	entry := func(name string, body string) []byte {
		e := nameField(name)
		e = binary.LittleEndian.AppendUint32(e, uint32(len(body)))
		e = append(e, body...)

		return e
	}
	raw = append(raw, entry("aaaa.tex", "HELLO")...)
	raw = append(raw, entry("bb.dat", "WORLDX")...)

	raw = append(raw, "FINAL FANTASY7"...)

	return raw
}

func TestParseLgp(t *testing.T) {
	l, err := ParseLgp(buildLgpFixture())
	require.NoError(t, err)

	assert.Equal(t, "SQUARESOFT", l.Creator)
	require.Len(t, l.Entries, 2)

	assert.Equal(t, LgpEntry{Name: "aaaa.tex", Offset: 70, Size: 5}, l.Entries[0])
	assert.Equal(t, LgpEntry{Name: "bb.dat", Offset: 99, Size: 6}, l.Entries[1])
}

func TestParseLgpMalformed(t *testing.T) {
	_, err := ParseLgp([]byte("short"))
	assert.ErrorIs(t, err, ErrMalformed)

	// TOC overruns the buffer.
	raw := buildLgpFixture()
	binary.LittleEndian.PutUint32(raw[12:], 1000)
	_, err = ParseLgp(raw)
	assert.ErrorIs(t, err, ErrMalformed)

	// Declared body overruns the buffer.
	raw = buildLgpFixture()
	binary.LittleEndian.PutUint32(raw[99+20:], 1<<20)
	_, err = ParseLgp(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLgpEntryBody(t *testing.T) {
	raw := buildLgpFixture()
	l, err := ParseLgp(raw)
	require.NoError(t, err)

	name, body, err := l.EntryBody(raw, 1)
	require.NoError(t, err)
	assert.Equal(t, "bb.dat", name)
	assert.Equal(t, []byte("WORLDX"), body)

	_, _, err = l.EntryBody(raw, 2)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLgpRebuildIdentity(t *testing.T) {
	raw := buildLgpFixture()
	l, err := ParseLgp(raw)
	require.NoError(t, err)

	out, err := l.Rebuild(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	out, err = l.Rebuild(raw, map[string][]byte{})
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestLgpRebuildReplace(t *testing.T) {
	raw := buildLgpFixture()
	l, err := ParseLgp(raw)
	require.NoError(t, err)

	out, err := l.Rebuild(raw, map[string][]byte{"aaaa.tex": []byte("HI")})
	require.NoError(t, err)
	require.Len(t, out, len(raw)-3)

	// Header and TOC names untouched, offsets reassigned sequentially.
	assert.Equal(t, raw[:16], out[:16])
	assert.Equal(t, uint32(70), binary.LittleEndian.Uint32(out[16+20:]))
	assert.Equal(t, uint32(96), binary.LittleEndian.Uint32(out[16+27+20:]))

	nl, err := ParseLgp(out)
	require.NoError(t, err)

	name, body, err := nl.EntryBody(out, 0)
	require.NoError(t, err)
	assert.Equal(t, "aaaa.tex", name)
	assert.Equal(t, []byte("HI"), body)

	// The untouched entry and the trailer survive verbatim.
	_, body, err = nl.EntryBody(out, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("WORLDX"), body)
	assert.Equal(t, []byte("FINAL FANTASY7"), out[len(out)-14:])
}

func TestLgpRebuildGrow(t *testing.T) {
	raw := buildLgpFixture()
	l, err := ParseLgp(raw)
	require.NoError(t, err)

	out, err := l.Rebuild(raw, map[string][]byte{"bb.dat": []byte("a much longer body")})
	require.NoError(t, err)

	nl, err := ParseLgp(out)
	require.NoError(t, err)

	_, body, err := nl.EntryBody(out, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("a much longer body"), body)
	assert.Equal(t, []byte("FINAL FANTASY7"), out[len(out)-14:])
}
