package persist

import "sync"

// MemSubstrate is an in-process substrate used when no Redis address is
// configured, and by the engine tests.
type MemSubstrate struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemSubstrate() *MemSubstrate {
	return &MemSubstrate{data: make(map[string]string)}
}

func (m *MemSubstrate) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemSubstrate) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemSubstrate) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
