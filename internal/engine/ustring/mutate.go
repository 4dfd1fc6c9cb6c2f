package ustring

import "github.com/dshills/unistr/internal/engine/char"

// Append Operations

// Append appends the characters of o.
func (s *String) Append(o *String) {
	s.AppendN(o, 1)
}

// AppendN appends repeat copies of the characters of o.
// o may be s itself.
func (s *String) AppendN(o *String, repeat int) {
	count := o.length
	if count == 0 || repeat <= 0 {
		return
	}
	s.Expand(mulSat(count, repeat))

	for r := 0; r < repeat; r++ {
		copy(s.buf[s.length:s.length+count], o.buf[:count])
		s.length += count
	}
}

// AppendChar appends a single character.
func (s *String) AppendChar(c char.Char) {
	s.AppendCharN(c, 1)
}

// AppendCharN appends repeat copies of c.
func (s *String) AppendCharN(c char.Char, repeat int) {
	if repeat <= 0 {
		return
	}
	s.Expand(repeat)

	for r := 0; r < repeat; r++ {
		s.buf[s.length] = c
		s.length++
	}
}

// AppendByte appends a single one-byte character.
func (s *String) AppendByte(b byte) {
	s.AppendChar(char.FromByte(b))
}

// AppendRune appends the UTF-8 encoding of r.
func (s *String) AppendRune(r rune) {
	s.AppendChar(char.FromRune(r))
}

// AppendString appends the characters encoded in str.
func (s *String) AppendString(str string) {
	s.appendEncoded(strSeq(str), 1)
}

// AppendStringN appends repeat copies of the characters encoded in str.
func (s *String) AppendStringN(str string, repeat int) {
	s.appendEncoded(strSeq(str), repeat)
}

// AppendBytes appends the characters encoded in p.
func (s *String) AppendBytes(p []byte) {
	s.appendEncoded(byteSeq(p), 1)
}

// AppendBytesN appends repeat copies of the characters encoded in p.
func (s *String) AppendBytesN(p []byte, repeat int) {
	s.appendEncoded(byteSeq(p), repeat)
}

// appendEncoded decodes e once per repetition, writing each character at
// the end of the string.
func (s *String) appendEncoded(e encoded, repeat int) {
	count := e.count()
	if count == 0 || repeat <= 0 {
		return
	}
	s.Expand(mulSat(count, repeat))

	for r := 0; r < repeat; r++ {
		for off := 0; off < e.byteLen(); {
			c, n := e.parse(off)
			s.buf[s.length] = c
			s.length++
			off += n
		}
	}
}

// Assign Operations

// Assign replaces the contents of s with the characters of o.
func (s *String) Assign(o *String) {
	if o == s {
		return
	}
	s.Clear()
	s.Append(o)
}

// AssignChar replaces the contents of s with the single character c.
func (s *String) AssignChar(c char.Char) {
	s.Clear()
	s.AppendChar(c)
}

// AssignString replaces the contents of s with the characters of str.
func (s *String) AssignString(str string) {
	s.Clear()
	s.AppendString(str)
}

// AssignBytes replaces the contents of s with the characters encoded in p.
func (s *String) AssignBytes(p []byte) {
	s.Clear()
	s.AppendBytes(p)
}

// Insert Operations
//
// Insertion requires pos < Len(). Inserting at the end is an append.

// Insert inserts the characters of o before position pos.
func (s *String) Insert(pos int, o *String) error {
	if pos < 0 || pos >= s.length {
		return outOfRange("insert", pos, s.length)
	}
	if o == s {
		o = s.Clone()
	}

	count := o.length
	s.Expand(count)
	s.shift(pos, count)
	copy(s.buf[pos:pos+count], o.buf[:count])
	s.length += count
	return nil
}

// InsertChar inserts c before position pos.
func (s *String) InsertChar(pos int, c char.Char) error {
	if pos < 0 || pos >= s.length {
		return outOfRange("insert", pos, s.length)
	}

	s.Expand(1)
	s.shift(pos, 1)
	s.buf[pos] = c
	s.length++
	return nil
}

// InsertString inserts the characters encoded in str before position pos.
func (s *String) InsertString(pos int, str string) error {
	return s.insertEncoded(pos, strSeq(str))
}

// InsertBytes inserts the characters encoded in p before position pos.
func (s *String) InsertBytes(pos int, p []byte) error {
	return s.insertEncoded(pos, byteSeq(p))
}

func (s *String) insertEncoded(pos int, e encoded) error {
	if pos < 0 || pos >= s.length {
		return outOfRange("insert", pos, s.length)
	}

	count := e.count()
	s.Expand(count)
	s.shift(pos, count)
	s.writeEncoded(pos, e, 0, count)
	s.length += count
	return nil
}

// Erase Operations

// Erase removes up to n characters starting at pos. A negative n or one
// running past the end erases through the end. pos may equal Len(), which
// erases nothing.
func (s *String) Erase(pos, n int) error {
	if pos < 0 || pos > s.length {
		return outOfRange("erase", pos, s.length)
	}

	n = clampLen(n, s.length-pos)
	if s.length-pos-n > 0 {
		s.shift(pos+n, -n)
	}
	s.length -= n
	return nil
}

// PopBack removes the last character. It does nothing on an empty string.
func (s *String) PopBack() {
	if s.length > 0 {
		s.length--
	}
}

// Replace Operations
//
// Replacement requires pos < Len(). n is clamped to the characters
// remaining after pos.

// Replace replaces n characters at pos with the characters of o.
func (s *String) Replace(pos, n int, o *String) error {
	if pos < 0 || pos >= s.length {
		return outOfRange("replace", pos, s.length)
	}
	if o == s {
		o = s.Clone()
	}

	n = clampLen(n, s.length-pos)
	s.replaceSetup(pos, n, o.length)
	copy(s.buf[pos:pos+o.length], o.buf[:o.length])
	return nil
}

// ReplaceSub replaces n characters at pos with up to sublen characters of
// o starting at subpos.
func (s *String) ReplaceSub(pos, n int, o *String, subpos, sublen int) error {
	if pos < 0 || pos >= s.length {
		return outOfRange("replace", pos, s.length)
	}
	if subpos < 0 || subpos >= o.length {
		return outOfRange("replace", subpos, o.length)
	}
	if o == s {
		o = s.Clone()
	}

	n = clampLen(n, s.length-pos)
	sublen = clampLen(sublen, o.length-subpos)
	s.replaceSetup(pos, n, sublen)
	copy(s.buf[pos:pos+sublen], o.buf[subpos:subpos+sublen])
	return nil
}

// ReplaceChar replaces n characters at pos with c.
func (s *String) ReplaceChar(pos, n int, c char.Char) error {
	if pos < 0 || pos >= s.length {
		return outOfRange("replace", pos, s.length)
	}

	n = clampLen(n, s.length-pos)
	s.replaceSetup(pos, n, 1)
	s.buf[pos] = c
	return nil
}

// ReplaceString replaces n characters at pos with the characters of str.
func (s *String) ReplaceString(pos, n int, str string) error {
	return s.replaceEncoded(pos, n, strSeq(str), 0, NPos, false)
}

// ReplaceBytes replaces n characters at pos with the characters encoded in p.
func (s *String) ReplaceBytes(pos, n int, p []byte) error {
	return s.replaceEncoded(pos, n, byteSeq(p), 0, NPos, false)
}

// ReplaceStringSub replaces n characters at pos with up to sublen
// characters of str starting at character subpos.
func (s *String) ReplaceStringSub(pos, n int, str string, subpos, sublen int) error {
	return s.replaceEncoded(pos, n, strSeq(str), subpos, sublen, true)
}

func (s *String) replaceEncoded(pos, n int, e encoded, subpos, sublen int, sub bool) error {
	if pos < 0 || pos >= s.length {
		return outOfRange("replace", pos, s.length)
	}
	count := e.count()
	if sub && (subpos < 0 || subpos >= count) {
		return outOfRange("replace", subpos, count)
	}

	n = clampLen(n, s.length-pos)
	sublen = clampLen(sublen, count-subpos)
	s.replaceSetup(pos, n, sublen)
	s.writeEncoded(pos, e, offsetOf(e, subpos), sublen)
	return nil
}

// replaceSetup reshapes the buffer so that the n characters at pos become
// a gap of sublen slots, moving the right-hand characters as needed and
// updating the length. pos and n must already be validated.
func (s *String) replaceSetup(pos, n, sublen int) {
	diff := sublen - n
	after := s.length - (pos + n)

	switch {
	case diff > 0:
		s.Expand(diff)
		if after > 0 {
			s.shift(pos+n, diff)
		}
		s.length += diff
	case diff < 0:
		if after > 0 {
			s.shift(pos+n, diff)
		}
		s.length += diff
	}
}

// Whole-string Operations

// Reverse reverses the characters in place.
func (s *String) Reverse() {
	for l, r := 0, s.length-1; l < r; l, r = l+1, r-1 {
		s.buf[l], s.buf[r] = s.buf[r], s.buf[l]
	}
}

// Swap exchanges the contents of s and o, including their buffers.
func (s *String) Swap(o *String) {
	s.buf, o.buf = o.buf, s.buf
	s.length, o.length = o.length, s.length
}

// Concat returns a new String holding the characters of every part in order.
func Concat(parts ...*String) *String {
	total := 0
	for _, p := range parts {
		total = addSat(total, p.length)
	}

	s := New(WithCapacity(total))
	for _, p := range parts {
		s.Append(p)
	}
	return s
}

// clampLen limits n to remaining. A negative n means "everything".
func clampLen(n, remaining int) int {
	if n < 0 || n > remaining {
		return remaining
	}
	return n
}
