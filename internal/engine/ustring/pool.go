package ustring

import "sync"

// DefaultPoolMaxCapacity is the largest capacity DefaultPool keeps.
const DefaultPoolMaxCapacity = 64 * 1024

// Pool recycles Strings to reduce allocation when many short-lived strings
// are built, such as one per input record. Pool is safe for concurrent use;
// the Strings it hands out are not.
type Pool struct {
	pool        sync.Pool
	maxCapacity int
}

// DefaultPool is a shared pool with DefaultPoolMaxCapacity.
var DefaultPool = NewPool(DefaultPoolMaxCapacity)

// NewPool creates a pool that drops Strings whose capacity exceeds
// maxCapacity instead of keeping them.
func NewPool(maxCapacity int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() interface{} {
				return New()
			},
		},
		maxCapacity: maxCapacity,
	}
}

// Get returns an empty String.
func (p *Pool) Get() *String {
	s := p.pool.Get().(*String)
	s.length = 0
	return s
}

// Put returns s to the pool. s must not be used afterwards.
func (p *Pool) Put(s *String) {
	if s == nil || s.Capacity() > p.maxCapacity {
		return
	}
	s.length = 0
	p.pool.Put(s)
}
