// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const (
	defaultMaxEntries = 256
	defaultTTL        = time.Hour
)

type entry struct {
	key     string
	data    []byte
	expires time.Time
}

// Memory is a bounded in-process LRU cache with a per-entry TTL.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	ll         *list.List
	items      map[string]*list.Element
	now        func() time.Time
}

// NewMemory returns an empty Memory cache. Non-positive arguments select
// the defaults (256 entries, one hour).
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Memory{
		maxEntries: maxEntries,
		ttl:        ttl,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Get implements Cache. Expired entries are evicted on access.
func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	el, ok := m.items[key]
	if !ok {
		m.mu.Unlock()
		return false, nil
	}
	e := el.Value.(*entry)
	if !m.now().Before(e.expires) {
		m.removeElement(el)
		m.mu.Unlock()
		return false, nil
	}
	m.ll.MoveToFront(el)
	data := e.data
	m.mu.Unlock()

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return true, nil
}

// Set implements Cache, evicting the least recently used entry when full.
func (m *Memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expires := m.now().Add(m.ttl)
	if el, ok := m.items[key]; ok {
		e := el.Value.(*entry)
		e.data = data
		e.expires = expires
		m.ll.MoveToFront(el)
		return nil
	}

	m.items[key] = m.ll.PushFront(&entry{key: key, data: data, expires: expires})
	for m.ll.Len() > m.maxEntries {
		m.removeElement(m.ll.Back())
	}
	return nil
}

// Len returns the number of stored entries, including expired ones not
// yet evicted.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ll.Len()
}

func (m *Memory) removeElement(el *list.Element) {
	m.ll.Remove(el)
	delete(m.items, el.Value.(*entry).key)
}
