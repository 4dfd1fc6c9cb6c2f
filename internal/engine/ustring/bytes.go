package ustring

import "io"

// Byte interop
//
// Byte sizes include one terminator byte, matching the layout produced by
// CBytes and CopyTo.

// Size returns the number of bytes needed to hold the encoded string plus
// a terminator.
func (s *String) Size() int {
	bytes := 1
	for i := 0; i < s.length; i++ {
		bytes += s.buf[i].Size()
	}
	return bytes
}

// SizeRange returns the encoded size of up to n characters starting at pos,
// plus a terminator. A negative n measures through the end.
func (s *String) SizeRange(n, pos int) (int, error) {
	if pos < 0 || pos >= s.length {
		return 0, outOfRange("size", pos, s.length)
	}

	n = clampLen(n, s.length-pos)
	bytes := 1
	for i := pos; i < pos+n; i++ {
		bytes += s.buf[i].Size()
	}
	return bytes, nil
}

// CBytes materializes the string as its encoded bytes followed by a zero
// terminator. The result is rebuilt on every call and owned by the caller.
func (s *String) CBytes() []byte {
	out := make([]byte, 0, s.Size())
	out = s.encode(out)
	return append(out, 0)
}

// Bytes returns the encoded bytes without a terminator.
func (s *String) Bytes() []byte {
	return s.encode(make([]byte, 0, s.Size()-1))
}

// String returns the encoded string without a terminator.
func (s *String) String() string {
	return string(s.Bytes())
}

// encode appends the encoded bytes of every live character to dst.
func (s *String) encode(dst []byte) []byte {
	for i := 0; i < s.length; i++ {
		dst = s.buf[i].AppendTo(dst)
	}
	return dst
}

// CopyTo copies up to n whole characters starting at pos into dst and
// writes a zero terminator after them. A character that would not fit in
// len(dst)-1 bytes is not copied, nor is anything after it. n <= 0 copies
// as many characters as fit. It returns the number of bytes copied, not
// counting the terminator.
func (s *String) CopyTo(dst []byte, n, pos int) (int, error) {
	if pos < 0 || pos >= s.length {
		return 0, outOfRange("copy", pos, s.length)
	}
	if len(dst) == 0 {
		return 0, nil
	}

	limit := len(dst) - 1
	if n <= 0 || n > s.length-pos {
		n = s.length - pos
	}

	written := 0
	for i := pos; i < pos+n; i++ {
		size := s.buf[i].Size()
		if written+size > limit {
			break
		}
		s.buf[i].AppendTo(dst[:written])
		written += size
	}
	dst[written] = 0
	return written, nil
}

// WriteTo writes the encoded string, without a terminator, to w.
func (s *String) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}
