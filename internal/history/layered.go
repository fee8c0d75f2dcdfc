package history

import (
	"time"

	"github.com/auditeng/verdict/internal/model"
)

// LayeredStore fronts a disk store with a memory store so repeated
// lookups in one session avoid re-reading files
type LayeredStore struct {
	memory *MemoryStore
	disk   *DiskStore
}

// NewLayeredStore creates the standard memory+disk store
func NewLayeredStore(dir string, ttl time.Duration) *LayeredStore {
	return &LayeredStore{
		memory: NewMemoryStore(ttl),
		disk:   NewDiskStore(dir, ttl),
	}
}

// Put stores in both layers
func (s *LayeredStore) Put(result *model.ValidationResult) error {
	if err := s.memory.Put(result); err != nil {
		return err
	}
	return s.disk.Put(result)
}

// Get checks memory first, promoting disk hits
func (s *LayeredStore) Get(documentID string) (*model.ValidationResult, bool) {
	if result, found := s.memory.Get(documentID); found {
		return result, true
	}
	if result, found := s.disk.Get(documentID); found {
		_ = s.memory.Put(result)
		return result, true
	}
	return nil, false
}

// List delegates to the durable layer
func (s *LayeredStore) List() ([]Entry, error) {
	return s.disk.List()
}

// Clear empties both layers
func (s *LayeredStore) Clear() error {
	if err := s.memory.Clear(); err != nil {
		return err
	}
	return s.disk.Clear()
}
