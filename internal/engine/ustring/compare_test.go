package ustring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/unistr/internal/engine/char"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		sign int
	}{
		{"equal", "abc", "abc", 0},
		{"shorter", "ab", "abc", -1},
		{"longer", "abcd", "abc", 1},
		{"lower", "abc", "abd", -1},
		{"higher", "abd", "abc", 1},
		{"unicode", "🐭", "🦊", -1},
		{"ascii vs unicode", "a", "🦊", -1},
		{"empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromString(tt.a)
			assert.Equal(t, tt.sign, sign(a.Compare(FromString(tt.b))))
			assert.Equal(t, tt.sign, sign(a.CompareString(tt.b)))
			assert.Equal(t, tt.sign, sign(a.CompareBytes([]byte(tt.b))))
		})
	}
}

func TestCompareReturnsCountDifference(t *testing.T) {
	a := FromString("abcdef")
	assert.Equal(t, 4, a.Compare(FromString("xy")))
	assert.Equal(t, -4, FromString("xy").Compare(a))
}

func TestCompareChar(t *testing.T) {
	m := char.FromByte('M')

	assert.Zero(t, FromString("M").CompareChar(m))
	assert.Positive(t, FromString("m").CompareChar(m))
	assert.Negative(t, FromString("A").CompareChar(m))
	assert.Equal(t, 3, FromString("abcd").CompareChar(m))
	assert.Equal(t, -1, New().CompareChar(m))
}

func TestEqual(t *testing.T) {
	a := FromString(unicodeText)
	b := FromString(unicodeText)
	c := FromString(asciiText)

	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))
	assert.Zero(t, a.Compare(b))
	assert.NotZero(t, a.Compare(c))
}

func TestEqualEncoded(t *testing.T) {
	s := FromString(unicodeText)

	assert.True(t, s.EqualString(unicodeText))
	assert.True(t, s.EqualBytes([]byte(unicodeText)))
	assert.False(t, s.EqualString(asciiText))
	assert.False(t, s.EqualString(unicodeText+"!"))
	assert.False(t, s.EqualString(""))
	assert.True(t, New().EqualString(""))
	assert.True(t, New().EqualBytes(nil))
}

func TestEqualChar(t *testing.T) {
	mouse := char.MustParse("🐭")

	assert.True(t, FromString("🐭").EqualChar(mouse))
	assert.False(t, FromString("🦊").EqualChar(mouse))
	assert.False(t, FromString("🐭🐭").EqualChar(mouse))
	assert.False(t, New().EqualChar(mouse))
}

func TestEqualConsistentWithCompare(t *testing.T) {
	inputs := []string{"", "a", "ab", "ba", "🦊", "a🦊", "🦊a", "Ø÷", "÷Ø"}
	for _, x := range inputs {
		for _, y := range inputs {
			a, b := FromString(x), FromString(y)
			assert.Equal(t, a.Equal(b), a.Compare(b) == 0, "%q vs %q", x, y)
			assert.Equal(t, a.Equal(b), b.Equal(a), "%q vs %q", x, y)
			assert.Equal(t, sign(a.Compare(b)), -sign(b.Compare(a)), "%q vs %q", x, y)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
