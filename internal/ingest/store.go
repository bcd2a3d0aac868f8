package ingest

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

// DocumentStore remembers ingested documents by content hash.
type DocumentStore interface {
	// UpsertByHash stores doc unless a document with the same hash exists, in which
	// case the existing one is returned with dedup=true.
	UpsertByHash(ctx context.Context, doc *entity.Document) (*entity.Document, bool, error)
	Count() int
}

// MemoryStore keeps documents for the lifetime of one batch run.
type MemoryStore struct {
	mu     sync.Mutex
	byHash map[string]*entity.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byHash: map[string]*entity.Document{}}
}

func (s *MemoryStore) UpsertByHash(_ context.Context, doc *entity.Document) (*entity.Document, bool, error) {
	key := hex.EncodeToString(doc.ContentHash)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byHash[key]; ok {
		return existing, true, nil
	}
	s.byHash[key] = doc
	return doc, false, nil
}

func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byHash)
}
