// SPDX-License-Identifier: MIT

package lzs

import (
	"bytes"
	"testing"
)

func TestCompress_Empty(t *testing.T) {
	out, err := Compress(nil)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(out))
	}
}

func TestCompress_KnownStream(t *testing.T) {
	out, err := Compress([]byte("AAAAAA"))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	want := []byte{0x01, 0x41, 0xEE, 0xF2}
	if !bytes.Equal(out, want) {
		t.Fatalf("encoded mismatch: got=%x want=%x", out, want)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"single byte", []byte("A")},
		{"two bytes", []byte("AB")},
		{"short run", []byte("AAAAAA")},
		{"text", []byte("the quick brown fox jumps over the lazy dog")},
		{"repeated phrase", bytes.Repeat([]byte("field script "), 100)},
		{"all zero beyond window", make([]byte, 5000)},
		{"period below threshold", bytes.Repeat([]byte{1, 2}, 300)},
		{"binary ramp", rampData(4096 + 123)},
		{"incompressible", lcgData(2048)},
		{"window boundary", lcgData(ringSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := Compress(tt.data)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}

			// Compress emits a headerless stream; decode it directly. The
			// public Decompress expects the size header the containers
			// store, covered by TestRoundTrip_WithSizeHeader.
			out := decompressRaw(compressed)
			if !bytes.Equal(out, tt.data) {
				t.Fatalf("round trip mismatch: got=%d want=%d bytes", len(out), len(tt.data))
			}
		})
	}
}

func TestRoundTrip_WithSizeHeader(t *testing.T) {
	src := bytes.Repeat([]byte("header round trip "), 64)

	compressed, err := Compress(src)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	header := []byte{
		byte(len(compressed)),
		byte(len(compressed) >> 8),
		byte(len(compressed) >> 16),
		byte(len(compressed) >> 24),
	}
	payload := append(header, compressed...)

	out, err := Decompress(payload)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	if !bytes.Equal(out, src) {
		t.Fatal("decoded output mismatch for size-header input")
	}
}

// rampData returns n bytes cycling 0..255.
func rampData(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}

	return out
}

// lcgData returns n deterministic pseudo-random bytes.
func lcgData(n int) []byte {
	out := make([]byte, n)
	state := uint32(0x12345678)
	for i := range out {
		state = state*1664525 + 1013904223
		out[i] = byte(state >> 24)
	}

	return out
}
