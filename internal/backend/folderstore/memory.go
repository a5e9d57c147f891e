package folderstore

import (
	"context"
	"sync"
)

type MemoryFolderStore struct {
	mu   sync.RWMutex
	name string
}

func NewMemoryFolderStore(seed string) *MemoryFolderStore {
	return &MemoryFolderStore{name: seed}
}

func (m *MemoryFolderStore) GetFolderName(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name, nil
}

func (m *MemoryFolderStore) SetFolderName(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
	return nil
}

func (m *MemoryFolderStore) Close() error {
	return nil
}
