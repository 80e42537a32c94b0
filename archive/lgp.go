// SPDX-License-Identifier: MIT

package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-restruct/restruct"
)

const (
	lgpCreatorSize     = 12
	lgpTocStart        = lgpCreatorSize + 4
	lgpTocRecordSize   = 27
	lgpEntryHeaderSize = 24
)

// lgpTocRecord is one on-disk table-of-contents entry.
type lgpTocRecord struct {
	Name          [20]byte `struct:"[20]byte"`
	Offset        uint32   `struct:"uint32"`
	Unused        uint8    `struct:"uint8"`
	ConflictCount uint16   `struct:"uint16"`
}

// LgpEntry is one parsed archive member. Offset is absolute and points at
// the entry's {name, size} micro-header inside the data region.
type LgpEntry struct {
	Name   string
	Offset int
	Size   int
}

// Lgp is the parsed shape of an LGP archive: the creator tag and the TOC,
// in file order. Entry names are lowercased with NUL padding stripped.
// The raw bytes are not retained; methods that need them take the original
// buffer again.
type Lgp struct {
	Creator string
	Entries []LgpEntry

	// dataEnd is the first byte past the last entry body; the trailer
	// starts here.
	dataEnd int
}

// ParseLgp decodes the header and TOC of an LGP archive and verifies that
// every entry's micro-header and body fit the buffer.
func ParseLgp(raw []byte) (*Lgp, error) {
	if len(raw) < lgpTocStart {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the lgp header", ErrMalformed, len(raw))
	}

	l := &Lgp{
		Creator: string(bytes.TrimRight(raw[:lgpCreatorSize], "\x00")),
		dataEnd: lgpTocStart,
	}

	count := int(binary.LittleEndian.Uint32(raw[lgpCreatorSize:]))
	tocEnd := lgpTocStart + count*lgpTocRecordSize
	if count < 0 || tocEnd > len(raw) {
		return nil, fmt.Errorf("%w: toc of %d entries overruns %d bytes", ErrMalformed, count, len(raw))
	}
	if count == 0 {
		return l, nil
	}
	l.dataEnd = tocEnd

	l.Entries = make([]LgpEntry, count)
	for i := range count {
		o := lgpTocStart + i*lgpTocRecordSize

		var rec lgpTocRecord
		if err := restruct.Unpack(raw[o:o+lgpTocRecordSize], binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: toc entry %d: %v", ErrMalformed, i, err)
		}

		off := int(rec.Offset)
		if off+lgpEntryHeaderSize > len(raw) {
			return nil, fmt.Errorf("%w: entry %d header at %d overruns %d bytes", ErrMalformed, i, off, len(raw))
		}

		size := int(binary.LittleEndian.Uint32(raw[off+lgpEntryHeaderSize-4:]))
		if off+lgpEntryHeaderSize+size > len(raw) {
			return nil, fmt.Errorf("%w: entry %d body of %d bytes overruns %d bytes", ErrMalformed, i, size, len(raw))
		}

		l.Entries[i] = LgpEntry{
			Name:   entryName(rec.Name[:]),
			Offset: off,
			Size:   size,
		}

		if end := off + lgpEntryHeaderSize + size; end > l.dataEnd {
			l.dataEnd = end
		}
	}

	return l, nil
}

// entryName strips NUL padding and lowercases an on-disk name field.
func entryName(field []byte) string {
	return strings.ToLower(string(bytes.TrimRight(field, "\x00")))
}

// EntryBody returns entry i's micro-header name and its body. The body
// aliases raw.
func (l *Lgp) EntryBody(raw []byte, i int) (string, []byte, error) {
	if i < 0 || i >= len(l.Entries) {
		return "", nil, fmt.Errorf("%w: entry %d of %d", ErrMalformed, i, len(l.Entries))
	}

	e := l.Entries[i]
	if e.Offset+lgpEntryHeaderSize+e.Size > len(raw) {
		return "", nil, fmt.Errorf("%w: entry %d overruns %d bytes", ErrMalformed, i, len(raw))
	}

	name := entryName(raw[e.Offset : e.Offset+lgpEntryHeaderSize-4])
	body := raw[e.Offset+lgpEntryHeaderSize : e.Offset+lgpEntryHeaderSize+e.Size]

	return name, body, nil
}

// Rebuild writes a new archive, substituting the body of every entry whose
// lowercase TOC name has a replacement. Entries keep their original order;
// offsets are reassigned sequentially as bodies are appended and the TOC is
// rewritten in place. The pre-data region (header, TOC, lookup tables) and
// the trailer are carried over verbatim, so an empty replacement set yields
// a byte-identical archive.
func (l *Lgp) Rebuild(raw []byte, replacements map[string][]byte) ([]byte, error) {
	if len(l.Entries) == 0 {
		out := make([]byte, len(raw))
		copy(out, raw)

		return out, nil
	}

	dataStart := l.Entries[0].Offset
	for _, e := range l.Entries[1:] {
		if e.Offset < dataStart {
			dataStart = e.Offset
		}
	}
	if dataStart > len(raw) || l.dataEnd > len(raw) {
		return nil, fmt.Errorf("%w: data region outside %d bytes", ErrMalformed, len(raw))
	}

	out := make([]byte, 0, len(raw))
	out = append(out, raw[:dataStart]...)

	newOffsets := make([]uint32, len(l.Entries))
	for i, e := range l.Entries {
		body := raw[e.Offset+lgpEntryHeaderSize : e.Offset+lgpEntryHeaderSize+e.Size]
		if r, ok := replacements[e.Name]; ok {
			body = r
		}

		newOffsets[i] = uint32(len(out))
		out = append(out, raw[e.Offset:e.Offset+lgpEntryHeaderSize-4]...)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
		out = append(out, body...)
	}

	out = append(out, raw[l.dataEnd:]...)

	for i := range l.Entries {
		o := lgpTocStart + i*lgpTocRecordSize + 20
		binary.LittleEndian.PutUint32(out[o:], newOffsets[i])
	}

	return out, nil
}
