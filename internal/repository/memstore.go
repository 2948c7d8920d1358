package repository

import (
	"context"
	"sort"
	"sync"
)

// MemoryDocumentStore is an in-process DocumentStore with the same
// versioning semantics as the Postgres store. It backs the tests.
type MemoryDocumentStore struct {
	mu   sync.Mutex
	docs map[int64]Document
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[int64]Document)}
}

func (s *MemoryDocumentStore) FindByDate(_ context.Context, date int64) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[date]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	doc.Data = append([]byte(nil), doc.Data...)
	return &doc, nil
}

func (s *MemoryDocumentStore) FindAll(_ context.Context) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		doc.Data = append([]byte(nil), doc.Data...)
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Date < docs[j].Date })
	return docs, nil
}

func (s *MemoryDocumentStore) Insert(_ context.Context, date int64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[date]; ok {
		return ErrDocumentExists
	}
	s.docs[date] = Document{
		Date:    date,
		Data:    append([]byte(nil), data...),
		Version: 1,
	}
	return nil
}

func (s *MemoryDocumentStore) Replace(_ context.Context, date int64, data []byte, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[date]
	if !ok {
		return ErrDocumentNotFound
	}
	if doc.Version != expectedVersion {
		return ErrVersionConflict
	}
	s.docs[date] = Document{
		Date:    date,
		Data:    append([]byte(nil), data...),
		Version: doc.Version + 1,
	}
	return nil
}

func (s *MemoryDocumentStore) Drop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[int64]Document)
	return nil
}
