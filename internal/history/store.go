// Package history keeps the append-only list of product codes from every
// committed sale. It exists only to feed the recommendation collaborator.
package history

import (
	"context"
	"sync"
)

type Store interface {
	Load(ctx context.Context) ([]string, error)
	Append(ctx context.Context, codes []string) error
}

// Memory is the in-process fallback used when Redis is not configured,
// and by tests. History then lives only as long as the session. The
// suggestion pipeline loads from its own goroutine while checkout
// appends, so access is locked.
type Memory struct {
	mu    sync.Mutex
	codes []string
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.codes))
	copy(out, m.codes)
	return out, nil
}

func (m *Memory) Append(ctx context.Context, codes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, codes...)
	return nil
}
