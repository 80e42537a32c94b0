// SPDX-License-Identifier: MIT

/*
Package archive reads and rebuilds the two container formats holding game
resources: the LGP named-entry archive and the gzip-sectioned kernel file.

Both containers follow the same contract: parsing is non-destructive,
rebuilding walks the entries in their original order and substitutes only
what the caller replaced, and any trailing bytes the parser did not consume
are carried over verbatim. Rebuilding with no replacements reproduces the
input byte-for-byte.

LGP layout:

	creator      [12]byte
	file_count   u32 le
	toc          file_count x 27-byte records
	data region  per entry: {name [20]byte, size u32 le, body}
	trailer      verbatim

Kernel layout:

	sections  sequential {compressed_size u16, raw_size u16, dir_id u16}
	          headers, each followed by compressed_size bytes of gzip data
	trailer   verbatim

Kernel sections are addressed by (dir_id, index), where the index is
zero-based within a run of equal dir_id values and resets when the dir_id
changes.
*/
package archive
