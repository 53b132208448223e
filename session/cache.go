package session

import (
	"sync"
)

// MemoryCache is the in-process Cache implementation.
type MemoryCache struct {
	mu    sync.RWMutex
	users map[string]bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{users: map[string]bool{}}
}

func (c *MemoryCache) Put(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[userID] = true
	return nil
}

func (c *MemoryCache) Delete(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
	return nil
}

func (c *MemoryCache) Has(userID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.users[userID]
}
