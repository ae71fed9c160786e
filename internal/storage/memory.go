package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps objects in process memory. It backs local development
// when no bucket is configured, and tests.
type MemoryStore struct {
	baseURL string
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *MemoryStore) Upload(_ context.Context, folder, filename, contentType string, data []byte) (Object, error) {
	if len(data) == 0 {
		return Object{}, ErrEmptyObject
	}
	key := objectKey(folder, filename)
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	m.objects[key] = buf
	m.types[key] = contentType
	m.mu.Unlock()

	return Object{URL: m.baseURL + "/" + key, PublicID: key}, nil
}

// Destroy removes the object. Unknown ids are ignored.
func (m *MemoryStore) Destroy(_ context.Context, publicID string) error {
	m.mu.Lock()
	delete(m.objects, publicID)
	delete(m.types, publicID)
	m.mu.Unlock()
	return nil
}

// Get returns a stored object and its content type.
func (m *MemoryStore) Get(publicID string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[publicID]
	return data, m.types[publicID], ok
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
