package database

import (
	"context"
	"sync"
)

// MemoryBackend keeps encoded collections in a map. Records are copied on
// every read and write so callers never share slices with the backend.
type MemoryBackend struct {
	mu   sync.Mutex
	docs map[string][]byte
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (m *MemoryBackend) Read(ctx context.Context, name string, dest interface{}) error {
	m.mu.Lock()
	data, ok := m.docs[name]
	m.mu.Unlock()

	if !ok {
		return ErrNoDocument
	}
	return decodeRecords(data, dest)
}

func (m *MemoryBackend) Write(ctx context.Context, name string, records interface{}) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.docs[name] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	delete(m.docs, name)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryBackend) Close(ctx context.Context) error {
	return nil
}
