package domain

import (
	"sync"
	"sync/atomic"
)

// SummaryKey identifies a generated summary. The query is part of the
// key: summaries are query-focused, so the same page summarised for a
// different query must be regenerated.
type SummaryKey struct {
	FilePath   string
	PageNumber int
	Query      string
}

// SummaryCache holds generated summaries for a caller's session.
// The cache is owned by the caller (e.g. a TUI session) and passed
// into summarisation calls; the core stays stateless per call.
// There is no expiry: entries live as long as the session.
type SummaryCache struct {
	mu      sync.RWMutex
	entries map[SummaryKey]string
}

// NewSummaryCache creates an empty summary cache.
func NewSummaryCache() *SummaryCache {
	return &SummaryCache{entries: make(map[SummaryKey]string)}
}

// Get returns the cached summary for key, if present.
func (c *SummaryCache) Get(key SummaryKey) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[key]
	return s, ok
}

// Put stores a summary for key.
func (c *SummaryCache) Put(key SummaryKey, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = summary
}

// Len returns the number of cached summaries.
func (c *SummaryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CancelFlag is a cooperative cancellation token for a sequential
// summarisation run. Once set it stops the loop before the next item;
// a call already in flight is allowed to finish naturally.
// Cancellation is not an error: completed entries remain valid.
type CancelFlag struct {
	flag atomic.Bool
}

// Cancel sets the flag. Safe to call from any goroutine, repeatedly.
func (c *CancelFlag) Cancel() {
	c.flag.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (c *CancelFlag) Cancelled() bool {
	return c.flag.Load()
}
