package assist

import "sync"

// cacheScope identifies the inputs every cached entry was derived from.
type cacheScope struct {
	version uint64
	locale  string
}

type lookupKey struct {
	view  View
	value string
}

// viewCache memoises derived lists for one record set version and locale.
type viewCache struct {
	mu       sync.RWMutex
	scope    cacheScope
	distinct map[Field][]string
	lookups  map[lookupKey][]Row
}

func newViewCache() *viewCache {
	return &viewCache{
		distinct: make(map[Field][]string),
		lookups:  make(map[lookupKey][]Row),
	}
}

// sync drops every entry when scope differs from the cached one.
func (c *viewCache) sync(scope cacheScope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope == scope {
		return
	}
	c.scope = scope
	c.distinct = make(map[Field][]string)
	c.lookups = make(map[lookupKey][]Row)
}

func (c *viewCache) getDistinct(scope cacheScope, f Field) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.scope != scope {
		return nil, false
	}
	v, ok := c.distinct[f]
	return v, ok
}

func (c *viewCache) putDistinct(scope cacheScope, f Field, values []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope != scope {
		return
	}
	c.distinct[f] = values
}

func (c *viewCache) getLookup(scope cacheScope, key lookupKey) ([]Row, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.scope != scope {
		return nil, false
	}
	v, ok := c.lookups[key]
	return v, ok
}

func (c *viewCache) putLookup(scope cacheScope, key lookupKey, rows []Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scope != scope {
		return
	}
	c.lookups[key] = rows
}
