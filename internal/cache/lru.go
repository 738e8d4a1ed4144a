// internal/cache/lru.go
//
// Tiny generic LRU used by the contact session store to bound how many
// visitor forms stay in memory.  No external deps; good for tens of
// thousands of entries.
//
// Not safe for concurrent use.  Callers serialise access (see
// contact.Store).
package cache

import "container/list"

// LRU is a least-recently-used cache with an optional eviction callback.
type LRU[K comparable, V any] struct {
	cap     int
	ll      *list.List
	dict    map[K]*list.Element
	onEvict func(K, V)
}

type pair[K comparable, V any] struct {
	key K
	val V
}

// New returns an LRU with the given capacity.  Panics on cap < 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[K, V]{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[K]*list.Element, capacity),
	}
}

// OnEvict installs fn, called for every entry dropped by capacity pressure,
// Remove, or Purge.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) { c.onEvict = fn }

// Get retrieves a value and marks it MRU.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	if ele, hit := c.dict[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(pair[K, V]).val, true
	}
	return val, false
}

// Add inserts or updates a value.
func (c *LRU[K, V]) Add(key K, val V) {
	if ele, hit := c.dict[key]; hit {
		ele.Value = pair[K, V]{key, val}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(pair[K, V]{key, val})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		c.removeElement(c.ll.Back())
	}
}

// Remove drops key if present.  It reports whether an entry was removed.
func (c *LRU[K, V]) Remove(key K) bool {
	ele, hit := c.dict[key]
	if !hit {
		return false
	}
	c.removeElement(ele)
	return true
}

// Purge evicts every entry, oldest first.
func (c *LRU[K, V]) Purge() {
	for c.ll.Len() > 0 {
		c.removeElement(c.ll.Back())
	}
}

// Len reports current size.
func (c *LRU[K, V]) Len() int { return c.ll.Len() }

func (c *LRU[K, V]) removeElement(ele *list.Element) {
	c.ll.Remove(ele)
	p := ele.Value.(pair[K, V])
	delete(c.dict, p.key)
	if c.onEvict != nil {
		c.onEvict(p.key, p.val)
	}
}
