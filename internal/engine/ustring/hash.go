package ustring

import "github.com/cespare/xxhash/v2"

// Sum64 returns the xxHash of the encoded string. Equal strings always
// hash equally; canonically equivalent but differently encoded strings do
// not.
func (s *String) Sum64() uint64 {
	d := xxhash.New()
	var scratch [64]byte
	buf := scratch[:0]
	for i := 0; i < s.length; i++ {
		buf = s.buf[i].AppendTo(buf)
		if len(buf) > len(scratch)-4 {
			_, _ = d.Write(buf)
			buf = buf[:0]
		}
	}
	_, _ = d.Write(buf)
	return d.Sum64()
}
