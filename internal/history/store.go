// Package history keeps validated verdicts for later inspection. The
// engine has no dependency on any storage schema: results go in and
// come out as opaque serialized records.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/auditeng/verdict/internal/model"
)

// Entry is the listing view of a stored verdict
type Entry struct {
	DocumentID  string       `json:"document_id"`
	Status      model.Status `json:"status"`
	ValidatedAt time.Time    `json:"validated_at"`
}

// Store persists validation results keyed by document id
type Store interface {
	Put(result *model.ValidationResult) error
	Get(documentID string) (*model.ValidationResult, bool)
	List() ([]Entry, error)
	Clear() error
}

// Key derives a stable storage key from a document id
func Key(documentID string) string {
	hash := sha256.Sum256([]byte(documentID))
	return hex.EncodeToString(hash[:])
}
