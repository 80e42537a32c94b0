// SPDX-License-Identifier: MIT

/*
Package lzs implements the LZSS variant used by FF7's PC resource files
(field scripts, world data and other LZS-compressed payloads).

The format has no magic number. A stream is either headerless or prefixed
by a 4-byte little-endian compressed-payload size; Decompress probes the
header-prefixed interpretation first and falls back to headerless.

Bit layout: one flag byte controls the next 8 units, LSB first. Flag bit 1
is a literal byte; flag bit 0 is a 2-byte back-reference into a 4096-byte
ring buffer, with the first 4078 bytes of the ring logically zero and the
write cursor starting at 4078. The reference encodes an absolute ring
offset (byte0 | ((byte1 & 0xF0) << 4)) and a span of (byte1 & 0x0F) + 3
bytes; copied bytes are re-inserted into the ring, so self-overlapping
references behave as run-length expansion.

# Decompress

	out, err := lzs.Decompress(data)

# Compress

Compress emits a headerless stream (window 4096, lookahead 18, minimum
profitable match 3). It is not required to reproduce the reference
encoder's choice among equal-length matches, only to satisfy
Decompress(Compress(b)) == b.

	cmp, err := lzs.Compress(data)
*/
package lzs
