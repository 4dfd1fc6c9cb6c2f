package ustring

import "github.com/dshills/unistr/internal/engine/char"

// Comparison
//
// Compare results are only meaningful in relation to zero. When the
// character counts differ the count difference itself is returned.

// Compare compares s with o. It returns a negative value if s is shorter
// or sorts first, zero if both are equal, and a positive value otherwise.
func (s *String) Compare(o *String) int {
	if diff := s.length - o.length; diff != 0 {
		return diff
	}
	for i := 0; i < s.length; i++ {
		if r := s.buf[i].Compare(o.buf[i]); r != 0 {
			return r
		}
	}
	return 0
}

// CompareChar compares s with the single character c. A string that is
// not exactly one character long returns Len()-1.
func (s *String) CompareChar(c char.Char) int {
	if diff := s.length - 1; diff != 0 {
		return diff
	}
	return s.buf[0].Compare(c)
}

// CompareString compares s with the characters encoded in str.
func (s *String) CompareString(str string) int {
	return s.compareEncoded(strSeq(str))
}

// CompareBytes compares s with the characters encoded in p.
func (s *String) CompareBytes(p []byte) int {
	return s.compareEncoded(byteSeq(p))
}

func (s *String) compareEncoded(e encoded) int {
	if diff := s.length - e.count(); diff != 0 {
		return diff
	}
	off := 0
	for i := 0; i < s.length; i++ {
		if r := e.compareAt(s.buf[i], off); r != 0 {
			return r
		}
		_, n := e.parse(off)
		off += n
	}
	return 0
}

// Equal reports whether s and o hold the same characters.
func (s *String) Equal(o *String) bool {
	if s.length != o.length {
		return false
	}
	for i := 0; i < s.length; i++ {
		if !s.buf[i].Equal(o.buf[i]) {
			return false
		}
	}
	return true
}

// EqualChar reports whether s is exactly the single character c.
func (s *String) EqualChar(c char.Char) bool {
	return s.length == 1 && s.buf[0].Equal(c)
}

// EqualString reports whether s holds exactly the characters of str.
func (s *String) EqualString(str string) bool {
	return s.equalEncoded(strSeq(str))
}

// EqualBytes reports whether s holds exactly the characters encoded in p.
func (s *String) EqualBytes(p []byte) bool {
	return s.equalEncoded(byteSeq(p))
}

func (s *String) equalEncoded(e encoded) bool {
	if s.length != e.count() {
		return false
	}
	off := 0
	for i := 0; i < s.length; i++ {
		if e.compareAt(s.buf[i], off) != 0 {
			return false
		}
		_, n := e.parse(off)
		off += n
	}
	return true
}
