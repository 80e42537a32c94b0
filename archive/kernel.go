// SPDX-License-Identifier: MIT

package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-restruct/restruct"
	"github.com/klauspost/compress/gzip"
)

const kernelHeaderSize = 6

// kernelSectionHeader is the on-disk section header.
type kernelSectionHeader struct {
	CompressedSize uint16 `struct:"uint16"`
	RawSize        uint16 `struct:"uint16"`
	DirID          uint16 `struct:"uint16"`
}

// KernelSection is one parsed section. The payload stays in its compressed
// form until a caller asks for it, so untouched sections survive a rebuild
// byte-for-byte even though gzip output is not canonical.
type KernelSection struct {
	DirID   uint16
	Index   int
	RawSize uint16

	payload []byte
}

// Kernel is the parsed shape of a gzip-sectioned kernel file.
type Kernel struct {
	Sections []*KernelSection

	trailer []byte
}

// ParseKernel walks sequential section headers until the remaining bytes no
// longer hold a section (short remainder, zero compressed size or a payload
// overrunning the buffer); whatever is left becomes the opaque trailer.
// Indices are assigned per dir_id run, resetting to zero on every change.
func ParseKernel(raw []byte) (*Kernel, error) {
	k := &Kernel{}

	pos := 0
	prevDir, index := -1, 0
	for pos+kernelHeaderSize <= len(raw) {
		var h kernelSectionHeader
		if err := restruct.Unpack(raw[pos:pos+kernelHeaderSize], binary.LittleEndian, &h); err != nil {
			return nil, fmt.Errorf("%w: section header at %d: %v", ErrMalformed, pos, err)
		}

		cmp := int(h.CompressedSize)
		if cmp == 0 || pos+kernelHeaderSize+cmp > len(raw) {
			break
		}

		if int(h.DirID) != prevDir {
			prevDir, index = int(h.DirID), 0
		}

		k.Sections = append(k.Sections, &KernelSection{
			DirID:   h.DirID,
			Index:   index,
			RawSize: h.RawSize,
			payload: raw[pos+kernelHeaderSize : pos+kernelHeaderSize+cmp],
		})

		index++
		pos += kernelHeaderSize + cmp
	}

	k.trailer = raw[pos:]

	return k, nil
}

// Section returns the section addressed by (dirID, index), or nil.
func (k *Kernel) Section(dirID uint16, index int) *KernelSection {
	for _, s := range k.Sections {
		if s.DirID == dirID && s.Index == index {
			return s
		}
	}

	return nil
}

// DecompressSection inflates a section's gzip payload.
func DecompressSection(s *KernelSection) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(s.payload))
	if err != nil {
		return nil, fmt.Errorf("section %d/%d: %w", s.DirID, s.Index, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("section %d/%d: %w", s.DirID, s.Index, err)
	}

	return data, nil
}

// ReplaceSection swaps the content of section (dirID, index) for data,
// re-gzipping it and updating both size fields. Only replaced sections are
// recompressed.
func (k *Kernel) ReplaceSection(dirID uint16, index int, data []byte) error {
	s := k.Section(dirID, index)
	if s == nil {
		return fmt.Errorf("%w: %d/%d", ErrNoSuchSection, dirID, index)
	}

	if len(data) > math.MaxUint16 {
		return fmt.Errorf("%w: %d raw bytes", ErrSectionTooLarge, len(data))
	}

	payload, err := compressSection(data)
	if err != nil {
		return err
	}
	if len(payload) > math.MaxUint16 {
		return fmt.Errorf("%w: %d compressed bytes", ErrSectionTooLarge, len(payload))
	}

	s.RawSize = uint16(len(data))
	s.payload = payload

	return nil
}

func compressSection(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Rebuild serializes the kernel back to its on-disk form: sections in
// original order followed by the trailer.
func (k *Kernel) Rebuild() ([]byte, error) {
	size := len(k.trailer)
	for _, s := range k.Sections {
		size += kernelHeaderSize + len(s.payload)
	}

	out := make([]byte, 0, size)
	for _, s := range k.Sections {
		if len(s.payload) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: section %d/%d has %d compressed bytes", ErrSectionTooLarge, s.DirID, s.Index, len(s.payload))
		}

		out = binary.LittleEndian.AppendUint16(out, uint16(len(s.payload)))
		out = binary.LittleEndian.AppendUint16(out, s.RawSize)
		out = binary.LittleEndian.AppendUint16(out, s.DirID)
		out = append(out, s.payload...)
	}

	out = append(out, k.trailer...)

	return out, nil
}
