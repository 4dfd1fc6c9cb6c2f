package ustring

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Grapheme clusters and normalization
//
// Len counts characters (code points). A user-perceived character such as
// "❤️" or a flag emoji may span several of them; these helpers work on
// extended grapheme clusters and canonical forms instead.

// GraphemeCount returns the number of extended grapheme clusters.
func (s *String) GraphemeCount() int {
	if s.length == 0 {
		return 0
	}
	return uniseg.GraphemeClusterCount(s.String())
}

// Graphemes splits s into one String per grapheme cluster.
func (s *String) Graphemes() []*String {
	if s.length == 0 {
		return nil
	}

	out := make([]*String, 0, s.length)
	g := uniseg.NewGraphemes(s.String())
	for g.Next() {
		out = append(out, FromString(g.Str()))
	}
	return out
}

// Width returns the number of monospace cells needed to display s.
func (s *String) Width() int {
	return uniseg.StringWidth(s.String())
}

// Normalize returns a new String in the given normalization form.
func (s *String) Normalize(form norm.Form) *String {
	return FromBytes(form.Bytes(s.Bytes()))
}

// EqualNormalized reports whether s and o are canonically equivalent,
// comparing their NFC forms.
func (s *String) EqualNormalized(o *String) bool {
	return bytes.Equal(norm.NFC.Bytes(s.Bytes()), norm.NFC.Bytes(o.Bytes()))
}

// ParseForm parses a normalization form name (NFC, NFD, NFKC or NFKD,
// case-insensitive).
func ParseForm(name string) (norm.Form, error) {
	switch strings.ToUpper(name) {
	case "NFC":
		return norm.NFC, nil
	case "NFD":
		return norm.NFD, nil
	case "NFKC":
		return norm.NFKC, nil
	case "NFKD":
		return norm.NFKD, nil
	default:
		return norm.NFC, fmt.Errorf("unknown normalization form %q", name)
	}
}
