package ustring

import "github.com/dshills/unistr/internal/engine/char"

// encoded is a raw UTF-8 sequence that is decoded one character at a time
// through char.Parse. Both []byte and string inputs go through it.
type encoded interface {
	byteLen() int
	count() int
	parse(off int) (char.Char, int)
	compareAt(c char.Char, off int) int
}

type byteSeq []byte

func (p byteSeq) byteLen() int { return len(p) }
func (p byteSeq) count() int   { return char.Count(p) }

func (p byteSeq) parse(off int) (char.Char, int) {
	return char.Parse(p, off)
}

func (p byteSeq) compareAt(c char.Char, off int) int {
	return c.CompareAt(p, off)
}

type strSeq string

func (s strSeq) byteLen() int { return len(s) }
func (s strSeq) count() int   { return char.CountString(string(s)) }

func (s strSeq) parse(off int) (char.Char, int) {
	return char.ParseString(string(s), off)
}

func (s strSeq) compareAt(c char.Char, off int) int {
	o, n := char.ParseString(string(s), off)
	if n == 0 {
		return 1
	}
	return c.Compare(o)
}

// offsetOf returns the byte offset of character index i in e.
func offsetOf(e encoded, i int) int {
	off := 0
	for ; i > 0 && off < e.byteLen(); i-- {
		_, n := e.parse(off)
		off += n
	}
	return off
}

// writeEncoded decodes count characters of e starting at byte offset off
// into s.buf[pos:]. Capacity must already be reserved.
func (s *String) writeEncoded(pos int, e encoded, off, count int) {
	for ; count > 0 && off < e.byteLen(); count-- {
		c, n := e.parse(off)
		s.buf[pos] = c
		pos++
		off += n
	}
}
