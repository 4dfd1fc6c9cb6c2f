package ustring

// Option configures a String during creation.
type Option func(*String)

// WithCapacity reserves room for at least n characters.
func WithCapacity(n int) Option {
	return func(s *String) {
		if n > 0 {
			s.Reserve(n)
		}
	}
}
