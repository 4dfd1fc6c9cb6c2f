package char

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// MaxSize is the largest number of bytes a single Char can occupy.
const MaxSize = utf8.UTFMax

// Char is one character and its encoded bytes.
// The zero value is the NUL character, identical to FromByte(0).
//
// Char is comparable: bytes past the encoding are always zero, so == and
// Equal agree.
type Char struct {
	b    [MaxSize]byte
	tail uint8 // encoded length minus one
}

// FromByte creates a one-byte Char.
func FromByte(b byte) Char {
	return Char{b: [MaxSize]byte{b}}
}

// FromRune creates a Char holding the UTF-8 encoding of r.
// Invalid runes encode as U+FFFD.
func FromRune(r rune) Char {
	var c Char
	c.tail = uint8(utf8.EncodeRune(c.b[:], r) - 1)
	return c
}

// Parse decodes the character starting at p[off].
// It returns the Char and the number of bytes consumed.
// An offset outside p returns the zero Char and 0.
func Parse(p []byte, off int) (Char, int) {
	if off < 0 || off >= len(p) {
		return Char{}, 0
	}
	n := EvaluateLength(p, off)
	var c Char
	copy(c.b[:], p[off:off+n])
	c.tail = uint8(n - 1)
	return c, n
}

// ParseString decodes the character starting at s[off].
func ParseString(s string, off int) (Char, int) {
	if off < 0 || off >= len(s) {
		return Char{}, 0
	}
	n := evaluateStringLength(s, off)
	var c Char
	copy(c.b[:], s[off:off+n])
	c.tail = uint8(n - 1)
	return c, n
}

// MustParse returns the first character of s.
// It panics if s is empty.
func MustParse(s string) Char {
	c, n := ParseString(s, 0)
	if n == 0 {
		panic("char: MustParse of empty string")
	}
	return c
}

// EvaluateLength returns the number of bytes the character at p[off]
// occupies. Invalid sequences count as one byte.
func EvaluateLength(p []byte, off int) int {
	if off < 0 || off >= len(p) {
		return 0
	}
	if p[off] < utf8.RuneSelf {
		return 1
	}
	r, n := utf8.DecodeRune(p[off:])
	if r == utf8.RuneError && n <= 1 {
		return 1
	}
	return n
}

func evaluateStringLength(s string, off int) int {
	if s[off] < utf8.RuneSelf {
		return 1
	}
	r, n := utf8.DecodeRuneInString(s[off:])
	if r == utf8.RuneError && n <= 1 {
		return 1
	}
	return n
}

// Count returns the number of characters encoded in p.
func Count(p []byte) int {
	count := 0
	for i := 0; i < len(p); {
		i += EvaluateLength(p, i)
		count++
	}
	return count
}

// CountString returns the number of characters encoded in s.
func CountString(s string) int {
	count := 0
	for i := 0; i < len(s); {
		i += evaluateStringLength(s, i)
		count++
	}
	return count
}

// Size returns the encoded length in bytes.
func (c Char) Size() int {
	return int(c.tail) + 1
}

// Bytes returns a copy of the encoded bytes.
func (c Char) Bytes() []byte {
	return c.AppendTo(make([]byte, 0, c.Size()))
}

// AppendTo appends the encoded bytes to dst and returns the extended slice.
func (c Char) AppendTo(dst []byte) []byte {
	return append(dst, c.b[:c.Size()]...)
}

// Rune decodes the character. Raw invalid bytes decode to utf8.RuneError.
func (c Char) Rune() rune {
	r, _ := utf8.DecodeRune(c.b[:c.Size()])
	return r
}

// String returns the encoded bytes as a string.
func (c Char) String() string {
	return string(c.b[:c.Size()])
}

// IsASCII reports whether c is a single 7-bit byte.
func (c Char) IsASCII() bool {
	return c.Size() == 1 && c.b[0] < utf8.RuneSelf
}

// IsSpace reports whether c is a Unicode white space character.
func (c Char) IsSpace() bool {
	if c.Size() == 1 && c.b[0] >= utf8.RuneSelf {
		return false
	}
	return unicode.IsSpace(c.Rune())
}

// Compare orders two characters by their encoded bytes, which for valid
// UTF-8 matches code point order. The result is negative, zero or positive.
func (c Char) Compare(o Char) int {
	return bytes.Compare(c.b[:c.Size()], o.b[:o.Size()])
}

// Equal reports whether c and o hold the same encoded bytes.
func (c Char) Equal(o Char) bool {
	return c.Compare(o) == 0
}

// CompareAt compares c against the character encoded at p[off].
// An offset outside p compares as greater.
func (c Char) CompareAt(p []byte, off int) int {
	n := EvaluateLength(p, off)
	if n == 0 {
		return 1
	}
	return bytes.Compare(c.b[:c.Size()], p[off:off+n])
}

// EqualAt reports whether the character encoded at p[off] equals c.
func (c Char) EqualAt(p []byte, off int) bool {
	return EvaluateLength(p, off) != 0 && c.CompareAt(p, off) == 0
}
