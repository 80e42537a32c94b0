// SPDX-License-Identifier: MIT

package lzs

// nilNode marks an unused tree link.
const nilNode = ringSize

// encoder holds the Okumura-style match finder: the text ring plus one
// binary search tree per leading byte value, threaded through the lson /
// rson / dad arrays by ring position. rson[ringSize+1 .. ringSize+256] are
// the 256 tree roots.
type encoder struct {
	ring [ringSize + maxMatch - 1]byte
	lson [ringSize + 1]int
	rson [ringSize + 257]int
	dad  [ringSize + 1]int

	matchPos int
	matchLen int
}

func newEncoder() *encoder {
	e := &encoder{}
	for i := ringSize + 1; i <= ringSize+256; i++ {
		e.rson[i] = nilNode
	}
	for i := range ringSize {
		e.dad[i] = nilNode
	}

	return e
}

// insertNode inserts the string starting at ring position r into its tree
// and records the longest match found on the way down in matchPos/matchLen.
// Equal-length ties keep the first candidate met from the root, which is
// the most recently inserted (nearest) occurrence.
func (e *encoder) insertNode(r int) {
	cmp := 1
	p := ringSize + 1 + int(e.ring[r])

	e.lson[r] = nilNode
	e.rson[r] = nilNode
	e.matchLen = 0

	for {
		if cmp >= 0 {
			if e.rson[p] == nilNode {
				e.rson[p] = r
				e.dad[r] = p
				return
			}
			p = e.rson[p]
		} else {
			if e.lson[p] == nilNode {
				e.lson[p] = r
				e.dad[r] = p
				return
			}
			p = e.lson[p]
		}

		i := 1
		for ; i < maxMatch; i++ {
			cmp = int(e.ring[r+i]) - int(e.ring[p+i])
			if cmp != 0 {
				break
			}
		}

		if i > e.matchLen {
			e.matchPos = p
			e.matchLen = i
			if i >= maxMatch {
				break
			}
		}
	}

	// Full-length match: r replaces p in the tree.
	e.dad[r] = e.dad[p]
	e.lson[r] = e.lson[p]
	e.rson[r] = e.rson[p]
	e.dad[e.lson[p]] = r
	e.dad[e.rson[p]] = r

	if e.rson[e.dad[p]] == p {
		e.rson[e.dad[p]] = r
	} else {
		e.lson[e.dad[p]] = r
	}
	e.dad[p] = nilNode
}

// deleteNode unlinks ring position p from its tree.
func (e *encoder) deleteNode(p int) {
	if e.dad[p] == nilNode {
		return
	}

	var q int
	switch {
	case e.rson[p] == nilNode:
		q = e.lson[p]
	case e.lson[p] == nilNode:
		q = e.rson[p]
	default:
		q = e.lson[p]
		if e.rson[q] != nilNode {
			for e.rson[q] != nilNode {
				q = e.rson[q]
			}
			e.rson[e.dad[q]] = e.lson[q]
			e.dad[e.lson[q]] = e.dad[q]
			e.lson[q] = e.lson[p]
			e.dad[e.lson[p]] = q
		}
		e.rson[q] = e.rson[p]
		e.dad[e.rson[p]] = q
	}

	e.dad[q] = e.dad[p]
	if e.rson[e.dad[p]] == p {
		e.rson[e.dad[p]] = q
	} else {
		e.lson[e.dad[p]] = q
	}
	e.dad[p] = nilNode
}

// Compress compresses input into a headerless LZS stream. Empty input
// yields an empty stream and no error.
//
// Output is a sequence of code groups: one control byte (bit 1 = literal,
// bit 0 = match, LSB first) followed by one byte per literal or two bytes
// per match. Matches shorter than threshold+1 bytes are emitted as
// literals.
func Compress(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}

	e := newEncoder()
	out := make([]byte, 0, len(input)/2)

	// codeBuf accumulates one control byte plus up to 8 code units.
	var codeBuf [1 + 8*2]byte
	codePtr := 1
	mask := byte(1)

	s := 0
	r := ringSize - maxMatch

	pos := 0
	length := 0
	for length < maxMatch && pos < len(input) {
		e.ring[r+length] = input[pos]
		pos++
		length++
	}

	for i := 1; i <= maxMatch; i++ {
		e.insertNode(r - i)
	}
	e.insertNode(r)

	for length > 0 {
		if e.matchLen > length {
			e.matchLen = length
		}

		if e.matchLen <= threshold {
			e.matchLen = 1
			codeBuf[0] |= mask
			codeBuf[codePtr] = e.ring[r]
			codePtr++
		} else {
			// Match positions are absolute ring offsets; the engine's
			// decoder resolves them against the same ring geometry.
			codeBuf[codePtr] = byte(e.matchPos)
			codeBuf[codePtr+1] = byte(((e.matchPos >> 4) & 0xF0) | (e.matchLen - (threshold + 1)))
			codePtr += 2
		}

		mask <<= 1
		if mask == 0 {
			out = append(out, codeBuf[:codePtr]...)
			codeBuf[0] = 0
			codePtr = 1
			mask = 1
		}

		lastMatchLen := e.matchLen
		i := 0
		for ; i < lastMatchLen && pos < len(input); i++ {
			c := input[pos]
			pos++

			e.deleteNode(s)
			e.ring[s] = c
			if s < maxMatch-1 {
				e.ring[s+ringSize] = c
			}

			s = (s + 1) & ringMask
			r = (r + 1) & ringMask
			e.insertNode(r)
		}

		// Past end of input: slide the window without reading.
		for ; i < lastMatchLen; i++ {
			e.deleteNode(s)
			s = (s + 1) & ringMask
			r = (r + 1) & ringMask

			length--
			if length > 0 {
				e.insertNode(r)
			}
		}
	}

	if codePtr > 1 {
		out = append(out, codeBuf[:codePtr]...)
	}

	return out, nil
}
