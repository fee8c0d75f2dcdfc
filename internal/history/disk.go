package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/auditeng/verdict/internal/model"
)

// DiskStore persists verdicts as JSON files under a directory
type DiskStore struct {
	dir string
	ttl time.Duration // 0 = keep forever
}

// NewDiskStore creates a disk store rooted at dir
func NewDiskStore(dir string, ttl time.Duration) *DiskStore {
	return &DiskStore{dir: dir, ttl: ttl}
}

type diskEntry struct {
	DocumentID string                  `json:"document_id"`
	StoredAt   time.Time               `json:"stored_at"`
	ExpiresAt  *time.Time              `json:"expires_at,omitempty"`
	Result     *model.ValidationResult `json:"result"`
}

// Put writes the verdict to its key file
func (s *DiskStore) Put(result *model.ValidationResult) error {
	entry := diskEntry{
		DocumentID: result.DocumentID,
		StoredAt:   time.Now().UTC(),
		Result:     result,
	}
	if s.ttl > 0 {
		exp := entry.StoredAt.Add(s.ttl)
		entry.ExpiresAt = &exp
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := os.WriteFile(s.path(result.DocumentID), data, 0644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// Get reads one verdict back, honoring expiry
func (s *DiskStore) Get(documentID string) (*model.ValidationResult, bool) {
	entry, ok := s.read(s.path(documentID))
	if !ok {
		return nil, false
	}
	return entry.Result, true
}

// List scans the history directory, newest first
func (s *DiskStore) List() ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan history dir: %w", err)
	}

	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		entry, ok := s.read(path)
		if !ok || entry.Result == nil {
			continue
		}
		entries = append(entries, Entry{
			DocumentID:  entry.DocumentID,
			Status:      entry.Result.Status,
			ValidatedAt: entry.Result.ValidatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ValidatedAt.After(entries[j].ValidatedAt)
	})
	return entries, nil
}

// Clear removes the whole history directory
func (s *DiskStore) Clear() error {
	return os.RemoveAll(s.dir)
}

// read loads one entry file, deleting it when expired
func (s *DiskStore) read(path string) (diskEntry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return diskEntry{}, false
	}
	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return diskEntry{}, false
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		_ = os.Remove(path)
		return diskEntry{}, false
	}
	return entry, true
}

// path generates the file path for a document id
func (s *DiskStore) path(documentID string) string {
	return filepath.Join(s.dir, Key(documentID)+".json")
}
