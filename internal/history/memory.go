package history

import (
	"encoding/json"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/auditeng/verdict/internal/model"
)

// MemoryStore keeps recent verdicts in process memory
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store. A zero TTL keeps entries for
// the life of the process.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryStore{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Put stores a serialized verdict keyed by document id
func (s *MemoryStore) Put(result *model.ValidationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	s.cache.Set(result.DocumentID, data, gocache.DefaultExpiration)
	return nil
}

// Get retrieves and decodes a stored verdict
func (s *MemoryStore) Get(documentID string) (*model.ValidationResult, bool) {
	val, found := s.cache.Get(documentID)
	if !found {
		return nil, false
	}
	var result model.ValidationResult
	if err := json.Unmarshal(val.([]byte), &result); err != nil {
		return nil, false
	}
	return &result, true
}

// List returns stored verdicts, newest first
func (s *MemoryStore) List() ([]Entry, error) {
	items := s.cache.Items()
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		var result model.ValidationResult
		if err := json.Unmarshal(item.Object.([]byte), &result); err != nil {
			continue
		}
		entries = append(entries, Entry{
			DocumentID:  result.DocumentID,
			Status:      result.Status,
			ValidatedAt: result.ValidatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ValidatedAt.After(entries[j].ValidatedAt)
	})
	return entries, nil
}

// Clear removes all stored verdicts
func (s *MemoryStore) Clear() error {
	s.cache.Flush()
	return nil
}
