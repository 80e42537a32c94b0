// SPDX-License-Identifier: MIT

package archive

import "errors"

var (
	// ErrMalformed is returned when a container header, TOC record or
	// declared offset does not fit the buffer.
	ErrMalformed = errors.New("malformed container")
	// ErrNoSuchSection is returned for a (dir_id, index) pair the kernel
	// does not contain.
	ErrNoSuchSection = errors.New("no such section")
	// ErrSectionTooLarge is returned when a section's raw or compressed
	// size does not fit the 16-bit header field.
	ErrSectionTooLarge = errors.New("section exceeds 16-bit size field")
)
