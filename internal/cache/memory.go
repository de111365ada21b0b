package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memEntry struct {
	val     string
	expires time.Time
}

// Memory is an in-process Cache used when no Redis address is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry
	prefix  string
}

func NewMemory(serviceName string) *Memory {
	return &Memory{entries: map[string]memEntry{}, prefix: serviceName}
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = memEntry{val: s, expires: exp}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.entries, key)
		return "", nil
	}
	return e.val, nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", m.prefix, operation, key)
}
