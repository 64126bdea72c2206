// Package pool provides typed object pools for per-parse scratch state.
// The parser takes its scan state from a pool and the callback logger takes
// its records and byte buffers from one, so steady-state parsing does not
// allocate.
package pool

import "sync"

// Pool is a type-safe wrapper around sync.Pool.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T) // called on every Get
}

// NewPool creates a pool backed by factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return factory() },
		},
	}
}

// NewPoolWithReset creates a pool whose objects are passed to reset before
// being handed out.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns obj to the pool. Nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// maxBuffer is the largest buffer kept for reuse; bigger ones are left to the GC.
const maxBuffer = 4096

var buffers = NewPoolWithReset(
	func() *[]byte {
		b := make([]byte, 0, 256)
		return &b
	},
	func(b *[]byte) { *b = (*b)[:0] },
)

// GetBuffer returns an empty byte buffer with at least minCap capacity.
func GetBuffer(minCap int) *[]byte {
	b := buffers.Get()
	if cap(*b) < minCap {
		*b = make([]byte, 0, minCap)
	}
	return b
}

// PutBuffer returns a buffer obtained from GetBuffer.
func PutBuffer(b *[]byte) {
	if b == nil || cap(*b) > maxBuffer {
		return
	}
	buffers.Put(b)
}
