package ustring

import (
	"math"

	"github.com/dshills/unistr/internal/engine/char"
)

// Storage constants.
const (
	// BaseSize is the capacity every String starts with.
	BaseSize = 4

	// GrowthFactor is the multiplier applied to the capacity on growth.
	GrowthFactor = 1.5

	// NPos is the largest representable index. As a length argument it
	// means "through the end of the string".
	NPos = math.MaxInt

	// resizeLimit is NPos / GrowthFactor. Requests at or above it skip the
	// multiplicative loop, which would otherwise overflow.
	resizeLimit = NPos / 3 * 2
)

// String is a character-indexed Unicode string.
//
// The zero value is an empty string with no buffer; the first reserve or
// append allocates BaseSize slots. A String must not be copied by value
// after first use: use Clone for an independent copy.
type String struct {
	buf    []char.Char // len(buf) is the capacity
	length int
}

// New creates an empty String with BaseSize capacity.
func New(opts ...Option) *String {
	s := &String{}
	s.allocate(BaseSize)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromString creates a String holding the characters of str.
func FromString(str string, opts ...Option) *String {
	s := New(opts...)
	s.AppendString(str)
	return s
}

// FromBytes creates a String holding the characters encoded in p.
func FromBytes(p []byte, opts ...Option) *String {
	s := New(opts...)
	s.AppendBytes(p)
	return s
}

// FromChar creates a String holding the single character c.
func FromChar(c char.Char, opts ...Option) *String {
	s := New(opts...)
	s.AppendChar(c)
	return s
}

// Clone returns a deep copy of s.
func (s *String) Clone() *String {
	c := New()
	c.Append(s)
	return c
}

// Len returns the number of characters.
func (s *String) Len() int {
	return s.length
}

// Capacity returns the number of allocated character slots.
func (s *String) Capacity() int {
	return len(s.buf)
}

// IsEmpty returns true if the string holds no characters.
func (s *String) IsEmpty() bool {
	return s.length == 0
}

// MaxSize returns the theoretical maximum number of characters.
// Allocation fails well before this.
func MaxSize() int {
	return NPos
}

// allocate reallocates the buffer to exactly capacity slots, moving up to
// min(length, capacity) live characters. A shrinking allocation truncates
// the length. This is the only place the buffer is replaced.
func (s *String) allocate(capacity int) {
	next := make([]char.Char, capacity)
	if s.length > capacity {
		s.length = capacity
	}
	copy(next, s.buf[:s.length])
	s.buf = next
}

// Reserve ensures the capacity holds at least n characters, growing by
// GrowthFactor from the current capacity (or BaseSize when zero).
func (s *String) Reserve(n int) {
	c := len(s.buf)
	if c >= n {
		return
	}
	if c == 0 {
		c = BaseSize
	}

	if n >= resizeLimit {
		c = NPos - 1
	} else {
		for c < n {
			c = grow(c)
		}
	}

	s.allocate(c)
}

// grow applies the growth factor once. Capacities too small for the factor
// to change still advance by one.
func grow(c int) int {
	next := c + c/2
	if next <= c {
		next = c + 1
	}
	return next
}

// Expand ensures room for n more characters. It is equivalent to
// Reserve(Len() + n).
func (s *String) Expand(n int) {
	if n <= 0 {
		return
	}
	s.Reserve(addSat(s.length, n))
}

// Resize reallocates to exactly n slots without growth rounding.
// Characters beyond n are discarded.
func (s *String) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if len(s.buf) == n {
		return
	}
	s.allocate(n)
}

// ResizeFill reallocates to exactly n slots and, when growing, appends
// copies of fill until the string holds n characters.
func (s *String) ResizeFill(n int, fill char.Char) {
	toAdd := n - s.length
	s.Resize(n)
	if toAdd > 0 {
		s.AppendCharN(fill, toAdd)
	}
}

// ShrinkToFit reallocates to exactly Len() slots.
func (s *String) ShrinkToFit() {
	s.allocate(s.length)
}

// Clear removes all characters. A non-empty string releases its buffer
// and starts over at BaseSize capacity.
func (s *String) Clear() {
	if s.length == 0 {
		return
	}
	s.buf = nil
	s.length = 0
	s.Reserve(BaseSize)
}

// shift moves the run [from, Len()) by offset slots. Positive offsets copy
// from the last element down and negative offsets from the first element up,
// so no source element is overwritten before it is read. Callers guarantee
// the capacity and index validity; shift never changes the length.
func (s *String) shift(from, offset int) {
	switch {
	case offset > 0:
		for i := s.length - 1; i >= from; i-- {
			s.buf[i+offset] = s.buf[i]
		}
	case offset < 0:
		for i := from; i < s.length; i++ {
			s.buf[i+offset] = s.buf[i]
		}
	}
}

// addSat adds two non-negative ints, saturating at NPos.
func addSat(a, b int) int {
	if b > NPos-a {
		return NPos
	}
	return a + b
}

// mulSat multiplies two non-negative ints, saturating at NPos.
func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > NPos/b {
		return NPos
	}
	return a * b
}
