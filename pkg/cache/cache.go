// Package cache provides an LRU answer cache with TTL entries, so
// identical queries within the TTL reuse the assembled answer.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mitraarka27/Meteo-Chat/core"
)

type entry struct {
	answer  core.StructuredAnswer
	expires time.Time
}

// Cache is an LRU cache of structured answers keyed by request hash.
type Cache struct {
	lru *lru.Cache[string, entry]
	ttl time.Duration
	now func() time.Time
}

// New creates a cache holding at most size answers, each valid for ttl.
func New(size int, ttl time.Duration) (*Cache, error) {
	inner, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &Cache{lru: inner, ttl: ttl, now: time.Now}, nil
}

// Key derives a stable cache key from any JSON-serializable request.
func Key(req any) string {
	raw, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached answer for key if present and not expired.
func (c *Cache) Get(key string) (core.StructuredAnswer, bool) {
	if key == "" {
		return core.StructuredAnswer{}, false
	}
	e, ok := c.lru.Get(key)
	if !ok {
		return core.StructuredAnswer{}, false
	}
	if c.now().After(e.expires) {
		c.lru.Remove(key)
		return core.StructuredAnswer{}, false
	}
	return e.answer, true
}

// Set stores an answer under key with the cache's TTL.
func (c *Cache) Set(key string, a core.StructuredAnswer) {
	if key == "" {
		return
	}
	c.lru.Add(key, entry{answer: a, expires: c.now().Add(c.ttl)})
}

// Len returns the number of cached entries, expired ones included.
func (c *Cache) Len() int {
	return c.lru.Len()
}
