package app

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/unistr/internal/engine/ustring"
)

// Stats describes one record.
type Stats struct {
	Chars     int
	Bytes     int
	Graphemes int
	Width     int
	Hash      uint64
}

// StatOf measures s.
func StatOf(s *ustring.String) Stats {
	return Stats{
		Chars:     s.Len(),
		Bytes:     s.Size() - 1,
		Graphemes: s.GraphemeCount(),
		Width:     s.Width(),
		Hash:      s.Sum64(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("chars=%d bytes=%d graphemes=%d width=%d hash=%016x",
		s.Chars, s.Bytes, s.Graphemes, s.Width, s.Hash)
}

// StatOp replaces each record with its Stats line.
func StatOp() RecordFunc {
	return func(_ context.Context, rec *ustring.String) (*ustring.String, error) {
		return ustring.FromString(StatOf(rec).String()), nil
	}
}

// ReverseOp reverses each record by character.
func ReverseOp() RecordFunc {
	return func(_ context.Context, rec *ustring.String) (*ustring.String, error) {
		rec.Reverse()
		return rec, nil
	}
}

// SubstrOp keeps n characters of each record starting at pos. A negative n
// keeps the rest of the record.
func SubstrOp(pos, n int) RecordFunc {
	return func(_ context.Context, rec *ustring.String) (*ustring.String, error) {
		return rec.Substr(pos, n)
	}
}

// ReplaceOp replaces n characters of each record starting at pos with
// with. A negative n replaces the rest of the record.
func ReplaceOp(pos, n int, with string) RecordFunc {
	return func(_ context.Context, rec *ustring.String) (*ustring.String, error) {
		if err := rec.ReplaceString(pos, n, with); err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// NormalizeOp converts each record to form.
func NormalizeOp(form norm.Form) RecordFunc {
	return func(_ context.Context, rec *ustring.String) (*ustring.String, error) {
		return rec.Normalize(form), nil
	}
}
