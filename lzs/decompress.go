// SPDX-License-Identifier: MIT

package lzs

import "encoding/binary"

// Decompress decompresses an LZS stream. Returns ErrEmptyInput if data is
// empty.
//
// Two-phase strategy: data is first interpreted as
// [u32 le compressed_size][payload] and the payload decoded; if that yields
// any output it is returned. Otherwise the entire input is retried as a
// headerless payload. ErrEmptyOutput is returned when both phases decode to
// nothing.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	if len(data) >= headerSize {
		compressedSize := int(binary.LittleEndian.Uint32(data))
		payload := data[headerSize:]
		if compressedSize >= 0 && compressedSize < len(payload) {
			payload = payload[:compressedSize]
		}

		if len(payload) > 0 {
			if out := decompressRaw(payload); len(out) > 0 {
				return out, nil
			}
		}
	}

	out := decompressRaw(data)
	if len(out) == 0 {
		return nil, ErrEmptyOutput
	}

	return out, nil
}

// decompressRaw decodes a headerless LZS payload. Decoding stops when the
// input is exhausted; a stream that encodes nothing yields an empty slice.
func decompressRaw(data []byte) []byte {
	// 5x the compressed size is a comfortable starting estimate for field
	// data; append grows past it when needed.
	out := make([]byte, 0, len(data)*5)

	var ring [ringSize]byte
	cur := ringInitPos

	var flags uint16
	pos := 0

	for {
		// The flag register holds the current flag byte ORed with 0xFF00;
		// once the sentinel bit shifts out, a fresh flag byte is due.
		if (flags>>1)&0x100 == 0 {
			if pos >= len(data) {
				return out
			}

			flags = uint16(data[pos]) | 0xFF00
			pos++
		} else {
			flags >>= 1
		}

		if pos >= len(data) {
			return out
		}

		if flags&1 != 0 {
			c := data[pos]
			pos++

			out = append(out, c)
			ring[cur] = c
			cur = (cur + 1) & ringMask

			continue
		}

		if pos+1 >= len(data) {
			return out
		}

		offset := int(data[pos])
		length := int(data[pos+1])
		pos += 2

		offset |= (length & 0xF0) << 4
		end := offset + (length & 0x0F) + threshold

		// Copied bytes are re-inserted into the ring as they are produced,
		// so a reference that overlaps the write cursor repeats them.
		for i := offset; i <= end; i++ {
			c := ring[i&ringMask]

			out = append(out, c)
			ring[cur] = c
			cur = (cur + 1) & ringMask
		}
	}
}
