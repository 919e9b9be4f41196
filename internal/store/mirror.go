package store

import (
	"context"
	"sync"

	"github.com/hnthap/classgate/internal/model"
)

// Mirror is the durable key-value copy of in-progress answers. It exists so a
// reload can recover an attempt: the full mapping is written after every
// answer set and deleted on successful submission or retake.
type Mirror interface {
	Save(ctx context.Context, key string, answers map[uint]model.AnswerValue) error
	Load(ctx context.Context, key string) (map[uint]model.AnswerValue, bool, error)
	Delete(ctx context.Context, key string) error
}

// MemoryMirror keeps mirrored answers in process memory. It is the fallback
// when no redis is configured, and the deterministic fake for tests.
type MemoryMirror struct {
	mu      sync.RWMutex
	entries map[string]map[uint]model.AnswerValue
}

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{entries: make(map[string]map[uint]model.AnswerValue)}
}

func (m *MemoryMirror) Save(_ context.Context, key string, answers map[uint]model.AnswerValue) error {
	copied := make(map[uint]model.AnswerValue, len(answers))
	for id, v := range answers {
		copied[id] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = copied
	return nil
}

func (m *MemoryMirror) Load(_ context.Context, key string) (map[uint]model.AnswerValue, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	copied := make(map[uint]model.AnswerValue, len(stored))
	for id, v := range stored {
		copied[id] = v
	}
	return copied, true, nil
}

func (m *MemoryMirror) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
