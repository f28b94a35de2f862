package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/mkraskin/gemini-chat/pkg/domain"
)

const (
	keyTailLength    = 3
	keyContentLength = 100
)

// ResponseKey derives the cache key from the trailing messages of a
// conversation. The key is content and role based only, so semantically
// identical tails collide on purpose: this is a coarse similarity cache,
// not an exact-replay cache.
func ResponseKey(messages []domain.Message) string {
	start := len(messages) - keyTailLength
	if start < 0 {
		start = 0
	}

	parts := make([]string, 0, keyTailLength)
	for _, m := range messages[start:] {
		content := m.Content
		if runes := []rune(content); len(runes) > keyContentLength {
			content = string(runes[:keyContentLength])
		}
		parts = append(parts, m.Role+":"+content)
	}
	return strings.Join(parts, "|")
}

type cacheEntry struct {
	value     string
	createdAt time.Time
}

type responseCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	order      []string
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewResponseCache creates a process-wide memo of recent model replies,
// bounded by maxEntries (insertion-order FIFO eviction) and ttl (lazy expiry
// on lookup).
func NewResponseCache(maxEntries int, ttl time.Duration) *responseCache {
	return &responseCache{
		entries:    make(map[string]cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Key derives the cache key for a conversation, see [ResponseKey].
func (c *responseCache) Key(messages []domain.Message) string {
	return ResponseKey(messages)
}

func (c *responseCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}

	if c.now().Sub(entry.createdAt) >= c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return "", false
	}

	return entry.value, true
}

func (c *responseCache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{value: value, createdAt: c.now()}

	if len(c.entries) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *responseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *responseCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
