package invitation

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Suitable for development and testing.
type MemoryStore struct {
	docs map[bson.ObjectID]Document
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[bson.ObjectID]Document),
	}
}

func (s *MemoryStore) Insert(_ context.Context, doc Document) error {
	id, ok := doc[fieldID].(bson.ObjectID)
	if !ok {
		return fmt.Errorf("memory store: document has no object id: %v", doc[fieldID])
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, id.Hex())
	}
	// Store a copy to prevent external mutation of stored data
	s.docs[id] = maps.Clone(doc)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id bson.ObjectID) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	return maps.Clone(doc), nil
}

func (s *MemoryStore) FindRange(_ context.Context, offset, limit int) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := slices.SortedFunc(maps.Keys(s.docs), func(a, b bson.ObjectID) int {
		return bytes.Compare(a[:], b[:])
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) || limit <= 0 {
		return []Document{}, nil
	}
	if limit > len(ids)-offset {
		limit = len(ids) - offset
	}
	end := offset + limit

	docs := make([]Document, 0, end-offset)
	for _, id := range ids[offset:end] {
		docs = append(docs, maps.Clone(s.docs[id]))
	}
	return docs, nil
}

func (s *MemoryStore) Update(_ context.Context, id bson.ObjectID, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id.Hex())
	}
	stored := maps.Clone(doc)
	stored[fieldID] = id
	s.docs[id] = stored
	return nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return false, nil
	}
	delete(s.docs, id)
	return true, nil
}
