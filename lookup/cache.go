package lookup

import (
	"slices"
	"strings"
	"sync"
)

type cacheKey struct {
	concept string
	strict  bool
}

// Cache keeps answered lookups for the life of a Client so repeated
// questions about a concept do not hit providers again. Concepts are keyed
// case-insensitively. All methods are safe for concurrent use.
type Cache struct {
	entries map[cacheKey]Result
	mu      sync.RWMutex
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Result)}
}

// Get returns a copy of the cached result for req.
func (c *Cache) Get(req Request) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.entries[keyFor(req)]
	if !ok {
		return Result{}, false
	}
	return res.clone(), true
}

// Set stores a copy of res under req.
func (c *Cache) Set(req Request, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[keyFor(req)] = res.clone()
}

// Delete drops every cached result for concept.
func (c *Cache) Delete(concept string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	concept = strings.ToLower(strings.TrimSpace(concept))
	delete(c.entries, cacheKey{concept: concept})
	delete(c.entries, cacheKey{concept: concept, strict: true})
}

func keyFor(req Request) cacheKey {
	return cacheKey{
		concept: strings.ToLower(strings.TrimSpace(req.Concept)),
		strict:  req.Strict,
	}
}

func (r Result) clone() Result {
	r.Summaries = slices.Clone(r.Summaries)
	r.Sources = slices.Clone(r.Sources)
	return r
}
