package vault

import (
	"context"
	"sync"

	"github.com/hpungsan/healthvault/internal/errors"
)

// Memory is an in-memory Store used by tests and dry runs.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (s *Memory) Read(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	if !ok {
		return nil, errors.NewNotFound(name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Memory) Write(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.files[name] = stored
	return nil
}

// Names returns the names of all stored files.
func (s *Memory) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	return names
}
