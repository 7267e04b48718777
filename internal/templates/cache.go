package templates

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/biosketch-checker/internal/types"
)

// Cache memoizes loaded templates by path. Concurrent first callers for the
// same path share a single parse; failures are not cached.
type Cache struct {
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*types.TemplateConfig
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*types.TemplateConfig)}
}

// Get returns the template at path, loading it on first use. An empty path
// selects the embedded default.
func (c *Cache) Get(path string) (*types.TemplateConfig, error) {
	if path == "" {
		return Default()
	}
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	c.mu.RLock()
	config, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return config, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*types.TemplateConfig), nil
}

// Len reports how many templates are cached, not counting the default.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var shared = NewCache()

// Get loads a template through the process-wide cache.
func Get(path string) (*types.TemplateConfig, error) {
	return shared.Get(path)
}
