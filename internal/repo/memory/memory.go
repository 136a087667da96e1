package memory

import (
	"context"
	"sort"
	"sync"
)

// Store is the in-memory ignore list, used when no database is configured.
type Store struct {
	mu      sync.RWMutex
	ignored map[string]struct{}
}

func New() *Store {
	return &Store{ignored: make(map[string]struct{})}
}

func (m *Store) Add(ctx context.Context, domain string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignored[domain] = struct{}{}
	return nil
}

func (m *Store) Remove(ctx context.Context, domain string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ignored, domain)
	return nil
}

func (m *Store) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.ignored))
	for d := range m.ignored {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}
