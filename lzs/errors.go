// SPDX-License-Identifier: MIT

package lzs

import "errors"

// Sentinel errors for decompression.
var (
	// ErrEmptyInput is returned when the input slice is empty.
	ErrEmptyInput = errors.New("empty input")
	// ErrEmptyOutput is returned when neither the header-prefixed nor the
	// headerless interpretation of the stream decodes to any bytes.
	ErrEmptyOutput = errors.New("decode produced empty output")
)
