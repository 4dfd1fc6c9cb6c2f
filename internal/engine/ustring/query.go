package ustring

import "github.com/dshills/unistr/internal/engine/char"

// At returns the character at pos.
func (s *String) At(pos int) (char.Char, error) {
	if pos < 0 || pos >= s.length {
		return char.Char{}, outOfRange("at", pos, s.length)
	}
	return s.buf[pos], nil
}

// Set overwrites the character at pos.
func (s *String) Set(pos int, c char.Char) error {
	if pos < 0 || pos >= s.length {
		return outOfRange("set", pos, s.length)
	}
	s.buf[pos] = c
	return nil
}

// Front returns the first character, or false if the string is empty.
func (s *String) Front() (char.Char, bool) {
	if s.length == 0 {
		return char.Char{}, false
	}
	return s.buf[0], true
}

// Back returns the last character, or false if the string is empty.
func (s *String) Back() (char.Char, bool) {
	if s.length == 0 {
		return char.Char{}, false
	}
	return s.buf[s.length-1], true
}

// Chars returns a copy of the live characters.
func (s *String) Chars() []char.Char {
	out := make([]char.Char, s.length)
	copy(out, s.buf[:s.length])
	return out
}

// Substr returns a new String holding up to n characters starting at pos.
// A negative n or NPos takes everything through the end.
func (s *String) Substr(pos, n int) (*String, error) {
	if pos < 0 || pos >= s.length {
		return nil, outOfRange("substr", pos, s.length)
	}

	n = clampLen(n, s.length-pos)
	r := New()
	r.Reserve(n)
	copy(r.buf[:n], s.buf[pos:pos+n])
	r.length = n
	return r, nil
}
