package ustring

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

// generateText creates a string of roughly size characters mixing ASCII
// words with multi-byte characters.
func generateText(size int) string {
	var sb strings.Builder
	words := []string{"the", "quick", "brown", "🦊", "jumps", "over", "lazy", "🐶", "Ø÷", "日本語"}

	n := 0
	for n < size {
		word := words[rand.Intn(len(words))]
		sb.WriteString(word)
		sb.WriteByte(' ')
		n += len([]rune(word)) + 1
	}
	return sb.String()
}

var benchSizes = []int{100, 1000, 10000}

func BenchmarkFromString(b *testing.B) {
	for _, size := range benchSizes {
		text := generateText(size)

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = FromString(text)
			}
		})
	}
}

func BenchmarkAppendChar(b *testing.B) {
	c := FromString("🦊").buf[0]

	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s := New()
				for j := 0; j < size; j++ {
					s.AppendChar(c)
				}
			}
		})
	}
}

func BenchmarkInsertMiddle(b *testing.B) {
	for _, size := range benchSizes {
		base := FromString(generateText(size))

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s := base.Clone()
				_ = s.InsertString(s.Len()/2, "🐉x")
			}
		})
	}
}

func BenchmarkReplace(b *testing.B) {
	for _, size := range benchSizes {
		base := FromString(generateText(size))

		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s := base.Clone()
				_ = s.ReplaceString(s.Len()/4, s.Len()/2, "replacement")
			}
		})
	}
}

func BenchmarkCompare(b *testing.B) {
	text := generateText(10000)
	x, y := FromString(text), FromString(text)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = x.Compare(y)
	}
}

func BenchmarkCBytes(b *testing.B) {
	s := FromString(generateText(10000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.CBytes()
	}
}

func BenchmarkSum64(b *testing.B) {
	s := FromString(generateText(10000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Sum64()
	}
}

func BenchmarkPool(b *testing.B) {
	p := NewPool(DefaultPoolMaxCapacity)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s := p.Get()
			s.AppendString("record 🦊 value")
			p.Put(s)
		}
	})
}
