// Package storage persists computed layout documents.
//
// [MemoryStore] backs tests and single-process use; [MongoStore] backs a
// shared deployment. Both satisfy [Store] and share one contract test.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/skillgraph/pkg/present"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Document is one persisted layout.
type Document struct {
	ID            string        `json:"id" bson:"_id"`
	Source        string        `json:"source" bson:"source"`
	Domain        string        `json:"domain,omitempty" bson:"domain,omitempty"`
	HierarchyHash string        `json:"hierarchy_hash" bson:"hierarchy_hash"`
	Seed          int64         `json:"seed" bson:"seed"`
	Scene         present.Scene `json:"scene" bson:"scene"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

// Store saves and retrieves layout documents.
type Store interface {
	// Save assigns an ID and creation time when missing, then stores doc.
	Save(ctx context.Context, doc *Document) error
	// Get returns a NOT_FOUND error for unknown IDs.
	Get(ctx context.Context, id string) (*Document, error)
	// Delete returns a NOT_FOUND error for unknown IDs.
	Delete(ctx context.Context, id string) error
	// List returns the newest documents first.
	List(ctx context.Context, limit int) ([]Document, error)
	Close(ctx context.Context) error
}

// prepare fills the ID and timestamp of a new document.
func prepare(doc *Document) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
