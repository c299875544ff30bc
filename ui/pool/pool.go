// Package pool provides a keyed cache whose values live in fixed-capacity
// chunks. A value never moves once inserted, so its Index stays valid for the
// lifetime of the cache and can be held as a weak reference.
//
// Cache is not safe for concurrent use; owners guard it with their own mutex.
package pool

import "iter"

// DefaultChunkSize is the number of slots per chunk.
const DefaultChunkSize = 32

// Index addresses a value by chunk and slot.
type Index struct {
	Chunk int
	Slot  int
}

type chunk[V any] struct {
	values []V
}

// Cache maps keys to values stored in pooled chunks.
type Cache[K comparable, V any] struct {
	chunkSize int
	chunks    []*chunk[V]
	index     map[K]Index
	order     []K // insertion order
}

// New creates a cache with the given chunk capacity.
// A non-positive size uses DefaultChunkSize.
func New[K comparable, V any](chunkSize int) *Cache[K, V] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Cache[K, V]{
		chunkSize: chunkSize,
		index:     make(map[K]Index),
	}
}

// Insert stores value under key and returns its index.
// If the key already exists the value is replaced in place.
func (c *Cache[K, V]) Insert(key K, value V) Index {
	if idx, ok := c.index[key]; ok {
		c.chunks[idx.Chunk].values[idx.Slot] = value
		return idx
	}

	ci := -1
	for i, ch := range c.chunks {
		if len(ch.values) < c.chunkSize {
			ci = i
			break
		}
	}
	if ci < 0 {
		// Full capacity is allocated up front so appends never reallocate
		c.chunks = append(c.chunks, &chunk[V]{values: make([]V, 0, c.chunkSize)})
		ci = len(c.chunks) - 1
	}

	ch := c.chunks[ci]
	ch.values = append(ch.values, value)
	idx := Index{Chunk: ci, Slot: len(ch.values) - 1}
	c.index[key] = idx
	c.order = append(c.order, key)
	return idx
}

// Emplace inserts a zero value under key without copying and returns a
// pointer to it. Use this for values that must not be copied after first use
// (types holding atomics or mutexes). An existing key returns its value.
func (c *Cache[K, V]) Emplace(key K) (*V, Index) {
	if idx, ok := c.index[key]; ok {
		return &c.chunks[idx.Chunk].values[idx.Slot], idx
	}
	var zero V
	idx := c.Insert(key, zero)
	return &c.chunks[idx.Chunk].values[idx.Slot], idx
}

// Get returns a pointer to the value stored under key.
// The pointer remains valid for the lifetime of the cache.
func (c *Cache[K, V]) Get(key K) (*V, bool) {
	idx, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return &c.chunks[idx.Chunk].values[idx.Slot], true
}

// GetMut is an alias of Get kept for callers that want to state intent.
func (c *Cache[K, V]) GetMut(key K) (*V, bool) {
	return c.Get(key)
}

// GetByIndex returns the value at idx, or nil if idx is out of range.
func (c *Cache[K, V]) GetByIndex(idx Index) *V {
	if idx.Chunk < 0 || idx.Chunk >= len(c.chunks) {
		return nil
	}
	ch := c.chunks[idx.Chunk]
	if idx.Slot < 0 || idx.Slot >= len(ch.values) {
		return nil
	}
	return &ch.values[idx.Slot]
}

// IndexOf returns the index of key.
func (c *Cache[K, V]) IndexOf(key K) (Index, bool) {
	idx, ok := c.index[key]
	return idx, ok
}

// Exists reports whether key has been inserted.
func (c *Cache[K, V]) Exists(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Len returns the number of stored values.
func (c *Cache[K, V]) Len() int {
	return len(c.order)
}

// Chunks returns the number of allocated chunks.
func (c *Cache[K, V]) Chunks() int {
	return len(c.chunks)
}

// Keys iterates keys in insertion order.
func (c *Cache[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range c.order {
			if !yield(k) {
				return
			}
		}
	}
}

// All iterates keys and value pointers in insertion order.
func (c *Cache[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for _, k := range c.order {
			idx := c.index[k]
			if !yield(k, &c.chunks[idx.Chunk].values[idx.Slot]) {
				return
			}
		}
	}
}
