package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store used by tests and dry runs. Objects are
// held gzip-compressed, matching what the fetch path expects.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]map[string][]byte

	// FailFetch, when set, makes FetchGzipped fail for keys containing
	// the substring. Lets tests exercise the transport-failure path.
	FailFetch string
	FetchErr  error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]map[string][]byte)}
}

// Seed stores plain bytes gzip-compressed under bucket/key.
func (m *Memory) Seed(bucket, key string, plain []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects[bucket] == nil {
		m.objects[bucket] = make(map[string][]byte)
	}
	m.objects[bucket][key] = Gzip(plain)
}

func (m *Memory) FetchGzipped(_ context.Context, bucket, key string) ([]byte, error) {
	if m.FailFetch != "" && strings.Contains(key, m.FailFetch) {
		if m.FetchErr != nil {
			return nil, m.FetchErr
		}
		return nil, fmt.Errorf("memory://%s/%s: %w", bucket, key, ErrNoCredentials)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[bucket][key]
	if !ok {
		return nil, fmt.Errorf("memory://%s/%s: %w", bucket, key, ErrNotFound)
	}
	return gunzip(body)
}

func (m *Memory) Exists(_ context.Context, bucket, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[bucket][key]
	return ok, nil
}

func (m *Memory) Put(_ context.Context, bucket, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects[bucket] == nil {
		m.objects[bucket] = make(map[string][]byte)
	}
	m.objects[bucket][key] = body
	return nil
}

func (m *Memory) List(_ context.Context, bucket, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for key := range m.objects[bucket] {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Get returns the raw stored bytes (not decompressed); used by tests to
// inspect artifacts written through Put.
func (m *Memory) Get(bucket, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[bucket][key]
	return body, ok
}
