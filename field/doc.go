// SPDX-License-Identifier: MIT

/*
Package field reads and mutates decompressed FF7 PC field-script resources.

A field resource is a fixed 9-section file; Section1 holds the event
scripts and the dialogue text table. The package walks the variable-length
bytecode opcode by opcode, compiles a small textual form into exact opcode
bytes, and edits the 0xFF-delimited string table in place or grows it with
cascading offset relocation.

All functions operate on fully-buffered byte slices and never write outside
the bounds they derive from the section header.
*/
package field
