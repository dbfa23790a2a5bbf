package search

import "sync"

// termCache memoizes a per-key float computation.
// Concurrent first lookups of the same key may both compute; the value is idempotent
// and LoadOrStore keeps a single winner.
type termCache struct {
	values sync.Map // string -> float64
}

func (c *termCache) get(key string, compute func(string) float64) float64 {
	if v, ok := c.values.Load(key); ok {
		return v.(float64)
	}
	actual, _ := c.values.LoadOrStore(key, compute(key))
	return actual.(float64)
}

func (c *termCache) len() int {
	n := 0
	c.values.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
