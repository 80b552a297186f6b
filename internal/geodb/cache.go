package geodb

import "sync"

// tableCache is a load-on-first-access cache keyed by absolute file path.
// Its lifecycle is tied to the owning Database; repeat queries against the
// same file never re-read from storage. The mutex makes cache population
// safe if a Database is ever shared across goroutines.
type tableCache struct {
	mu     sync.Mutex
	tables map[string]any
}

func newTableCache() *tableCache {
	return &tableCache{tables: make(map[string]any)}
}

// getOrLoad returns the cached table for key, invoking load on first access.
// Load failures are not cached.
func (c *tableCache) getOrLoad(key string, load func() (any, error)) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.tables[key]; ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	c.tables[key] = v
	return v, nil
}
