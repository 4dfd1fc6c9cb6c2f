package ustring

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FuzzFromString tests construction from arbitrary bytes.
func FuzzFromString(f *testing.F) {
	f.Add("")
	f.Add("hello")
	f.Add("日本語")
	f.Add("emoji 🎉 test")
	f.Add("\x00\x01\x02")
	f.Add("ok\xff\xe6\x97")

	f.Fuzz(func(t *testing.T, in string) {
		s := FromString(in)

		assert.Equal(t, in, s.String())
		assert.Equal(t, len(in)+1, s.Size())
		if utf8.ValidString(in) {
			assert.Equal(t, utf8.RuneCountInString(in), s.Len())
		}
		assert.LessOrEqual(t, s.Len(), s.Capacity())
	})
}

// FuzzInsert tests insertion against a rune slice model.
func FuzzInsert(f *testing.F) {
	f.Add("hello", 0, "x")
	f.Add("hello", 4, "x")
	f.Add("hello", 3, "world")
	f.Add("日本語", 1, "🦊")

	f.Fuzz(func(t *testing.T, initial string, pos int, insert string) {
		if !utf8.ValidString(initial) || !utf8.ValidString(insert) {
			return
		}

		model := []rune(initial)
		if len(model) == 0 {
			return
		}
		pos = int(uint(pos) % uint(len(model)))

		s := FromString(initial)
		require.NoError(t, s.InsertString(pos, insert))

		want := string(model[:pos]) + insert + string(model[pos:])
		assert.Equal(t, want, s.String(), "insert at %d", pos)
	})
}

// FuzzErase tests erasure against a rune slice model.
func FuzzErase(f *testing.F) {
	f.Add("hello world", 0, 5)
	f.Add("hello world", 6, -1)
	f.Add("日本語", 1, 1)

	f.Fuzz(func(t *testing.T, initial string, pos, n int) {
		if !utf8.ValidString(initial) {
			return
		}

		model := []rune(initial)
		pos = int(uint(pos) % uint(len(model)+1))

		s := FromString(initial)
		require.NoError(t, s.Erase(pos, n))

		end := len(model)
		if n >= 0 && n < end-pos {
			end = pos + n
		}
		want := string(model[:pos]) + string(model[end:])
		assert.Equal(t, want, s.String(), "erase %d, %d", pos, n)
	})
}

// FuzzReplace tests replacement against a rune slice model.
func FuzzReplace(f *testing.F) {
	f.Add("abc", 1, 1, "ZZ")
	f.Add("abcdef", 0, 6, "")
	f.Add("日本語", 2, 5, "🐉🐉🐉")

	f.Fuzz(func(t *testing.T, initial string, pos, n int, repl string) {
		if !utf8.ValidString(initial) || !utf8.ValidString(repl) {
			return
		}

		model := []rune(initial)
		if len(model) == 0 {
			return
		}
		pos = int(uint(pos) % uint(len(model)))

		s := FromString(initial)
		require.NoError(t, s.ReplaceString(pos, n, repl))

		end := len(model)
		if n >= 0 && n < end-pos {
			end = pos + n
		}
		want := string(model[:pos]) + repl + string(model[end:])
		assert.Equal(t, want, s.String(), "replace %d, %d", pos, n)
	})
}
