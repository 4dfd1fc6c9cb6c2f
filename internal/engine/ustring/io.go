package ustring

import (
	"bufio"
	"errors"
	"io"

	"github.com/dshills/unistr/internal/engine/char"
)

// Stream extraction

// ReadOption configures ReadLine.
type ReadOption func(*readConfig)

type readConfig struct {
	delim char.Char
}

// WithDelimiter sets the character that ends a record. The default is '\n'.
func WithDelimiter(c char.Char) ReadOption {
	return func(cfg *readConfig) {
		cfg.delim = c
	}
}

// ReadLine clears s and appends characters from r until the delimiter or
// the end of input. The delimiter is consumed but not stored.
//
// It returns io.EOF only when the input was already exhausted, so the last
// record of an input without a trailing delimiter is still returned with a
// nil error.
func ReadLine(r *bufio.Reader, s *String, opts ...ReadOption) error {
	cfg := readConfig{delim: char.FromByte('\n')}
	for _, opt := range opts {
		opt(&cfg)
	}

	return readUntil(r, s, cfg.delim.Equal)
}

// ReadWord clears s and appends characters from r until white space or the
// end of input. The white space character is consumed but not stored.
func ReadWord(r *bufio.Reader, s *String) error {
	return readUntil(r, s, char.Char.IsSpace)
}

func readUntil(r *bufio.Reader, s *String, stop func(char.Char) bool) error {
	s.Clear()

	read := false
	for {
		c, err := readChar(r)
		if err != nil {
			if errors.Is(err, io.EOF) && read {
				return nil
			}
			return err
		}
		read = true

		if stop(c) {
			return nil
		}
		s.AppendChar(c)
	}
}

// readChar decodes one character from r. Bytes that do not form valid
// UTF-8 are returned one at a time.
func readChar(r *bufio.Reader) (char.Char, error) {
	p, err := r.Peek(char.MaxSize)
	if len(p) == 0 {
		if err == nil {
			err = io.EOF
		}
		return char.Char{}, err
	}

	c, n := char.Parse(p, 0)
	if _, err := r.Discard(n); err != nil {
		return char.Char{}, err
	}
	return c, nil
}
