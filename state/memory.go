package state

import (
	"context"
	"sync"
)

// MemoryBackend keeps the snapshot in process memory. It is used in tests, and for runs
// where nothing needs to survive the process.
type MemoryBackend struct {
	entries map[string]string
	lock    sync.Mutex
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]string)}
}

func (m *MemoryBackend) Load(ctx context.Context) (map[string]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return copyEntries(m.entries), nil
}

func (m *MemoryBackend) Save(ctx context.Context, entries map[string]string) error {
	m.lock.Lock()
	m.entries = copyEntries(entries)
	m.lock.Unlock()
	return nil
}

func copyEntries(entries map[string]string) map[string]string {
	ret := make(map[string]string, len(entries))
	for k, v := range entries {
		ret[k] = v
	}
	return ret
}
