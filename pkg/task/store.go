package task

import (
	"sync"

	"github.com/amosWeiskopf/auditsmith/internal/models"
)

// Store persists audit tasks between calls. Durable storage is the
// caller's concern; MemoryStore covers single-process use and tests.
type Store interface {
	Save(task *models.AuditTask) error
	Get(id string) (*models.AuditTask, bool, error)
}

// MemoryStore is a concurrency-safe in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]models.AuditTask
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]models.AuditTask)}
}

// Save stores a copy of task keyed by its id.
func (s *MemoryStore) Save(task *models.AuditTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

// Get returns a copy of the task with the given id.
func (s *MemoryStore) Get(id string) (*models.AuditTask, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, false, nil
	}
	return &t, true, nil
}
