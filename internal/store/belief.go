package store

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/helios/internal/domain"
)

// BeliefMemStore keeps belief documents in process memory.
type BeliefMemStore struct {
	docs map[string]domain.BeliefDocument
	mu   sync.RWMutex
}

func NewBeliefMemStore() *BeliefMemStore {
	return &BeliefMemStore{docs: make(map[string]domain.BeliefDocument)}
}

func (s *BeliefMemStore) Get(ctx context.Context, characterID string) (*domain.BeliefDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[characterID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneBeliefDocument(doc)
	return &cp, nil
}

// Put replaces the character's document wholesale.
func (s *BeliefMemStore) Put(ctx context.Context, characterID string, doc domain.BeliefDocument) error {
	doc = cloneBeliefDocument(doc)
	doc.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[characterID] = doc
	return nil
}

func cloneBeliefDocument(doc domain.BeliefDocument) domain.BeliefDocument {
	out := domain.EmptyBeliefDocument()
	for k, v := range doc.Worldview {
		out.Worldview[k] = v
	}
	for k, v := range doc.Selfview {
		out.Selfview[k] = v
	}
	for k, v := range doc.Values {
		out.Values[k] = v
	}
	return out
}
