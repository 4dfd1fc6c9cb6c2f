// Package char provides Char, a single decoded Unicode character stored
// together with its exact UTF-8 encoding.
//
// A Char never reinterprets the bytes it was parsed from: valid UTF-8
// sequences are kept as-is and invalid or truncated input is kept as a
// single raw byte, so a sequence of Chars always re-encodes to the bytes
// it was decoded from.
//
// Basic usage:
//
//	c, n := char.Parse([]byte("日本"), 0) // c = '日', n = 3
//	c.Size()                             // 3
//	c.EqualAt([]byte("x日"), 1)           // true
package char
