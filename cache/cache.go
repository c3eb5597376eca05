package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

// Cache is the get-or-compute collaborator used to avoid redundant
// remote calls for identical inputs. Implementations must be safe for
// concurrent use by key.
type Cache interface {
	GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, error)
}

// Key builds a stable cache key from a function name and its arguments.
func Key(name string, args ...interface{}) string {
	var b strings.Builder
	b.WriteString(name)
	for _, a := range args {
		b.WriteByte('|')
		fmt.Fprintf(&b, "%v", a)
	}
	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// MemoryCache keeps computed values for the lifetime of the process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, error) {
	c.mu.RLock()
	val, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return val, nil
	}

	val, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = val
	c.mu.Unlock()
	return val, nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// None is a pass-through cache that always recomputes.
type None struct{}

func (None) GetOrCompute(_ string, compute func() ([]byte, error)) ([]byte, error) {
	return compute()
}
