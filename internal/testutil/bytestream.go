package testutil

// ByteStream reads bytes sequentially from fuzz input.
//
// When the stream is exhausted, all reads return zero values, so the same
// input always decodes to the same sequence of operations.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over b.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextInt returns a value in [0, maxVal) derived from the next byte.
func (s *ByteStream) NextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}

	return int(s.NextByte()) % maxVal
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// textAlphabet mixes letters with the whitespace characters trimming cares about.
const textAlphabet = "abcdefghijklmnopqrstuvwxyz      \t\n"

// NextText returns a string of length 0-maxLen over a small alphabet that
// includes spaces, tabs and newlines. Roughly one in four results is blank.
func (s *ByteStream) NextText(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	length := s.NextInt(maxLen + 1)
	out := make([]byte, length)

	for i := range out {
		out[i] = textAlphabet[s.NextInt(len(textAlphabet))]
	}

	return string(out)
}
