// Package cache stores encoded calculator results keyed by tool name and params.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache is a result store. Get reports whether key was found.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Key derives a stable cache key from a tool name and its params. encoding/json
// sorts map keys, so equal params always hash alike.
func Key(tool string, params map[string]interface{}) (string, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return "finance:" + tool + ":" + strconv.FormatUint(xxhash.Sum64(body), 16), nil
}

type entry struct {
	value   string
	expires time.Time
}

const (
	defaultMaxEntries = 10_000
	sweepInterval     = time.Minute
)

// MemoryCache is an in-process Cache with a fixed TTL. A zero TTL never expires.
// Expired entries are swept in the background until Stop is called, and the
// cache never holds more than maxEntries results.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	data       map[string]entry
	now        func() time.Time
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	m := &MemoryCache{
		ttl:        ttl,
		maxEntries: defaultMaxEntries,
		data:       make(map[string]entry),
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if ttl > 0 {
		go m.sweepLoop()
	}
	return m
}

func (m *MemoryCache) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *MemoryCache) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
}

func (m *MemoryCache) sweepLocked() {
	now := m.now()
	for key, e := range m.data {
		if m.expired(e, now) {
			delete(m.data, key)
		}
	}
}

func (m *MemoryCache) expired(e entry, now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// Stop ends the background sweep.
func (m *MemoryCache) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if m.expired(e, m.now()) {
		delete(m.data, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.sweepLocked()
		// still full: drop an arbitrary result
		for k := range m.data {
			if len(m.data) < m.maxEntries {
				break
			}
			delete(m.data, k)
		}
	}

	e := entry{value: value}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.data[key] = e
	return nil
}
