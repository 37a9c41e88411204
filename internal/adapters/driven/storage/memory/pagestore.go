// Package memory provides in-memory implementations of driven ports
// for testing and ephemeral sessions.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

// Ensure PageStore implements the interface.
var _ driven.VectorStore = (*PageStore)(nil)

// PageStore is an in-memory vector store using brute-force cosine
// similarity. Suitable for tests and small corpora.
type PageStore struct {
	mu    sync.RWMutex
	files map[string][]domain.PageRecord
	root  string
}

// NewPageStore creates an empty in-memory page store.
func NewPageStore() *PageStore {
	return &PageStore{files: make(map[string][]domain.PageRecord)}
}

// UpsertPages replaces all records for filePath atomically.
func (s *PageStore) UpsertPages(_ context.Context, filePath string, pages []domain.PageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]domain.PageRecord, len(pages))
	copy(copied, pages)
	s.files[filePath] = copied
	return nil
}

// DeleteByFile removes every record for filePath.
func (s *PageStore) DeleteByFile(_ context.Context, filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, filePath)
	return nil
}

// QueryNearest returns the k most similar records, best first.
func (s *PageStore) QueryNearest(_ context.Context, vector []float32, k int) ([]driven.PageHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return []driven.PageHit{}, nil
	}

	hits := make([]driven.PageHit, 0)
	for _, pages := range s.files {
		for _, rec := range pages {
			hits = append(hits, driven.PageHit{
				Record:     rec,
				Similarity: CosineSimilarity(vector, rec.Embedding),
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// GetFingerprint returns the stored fingerprint for filePath, nil when absent.
func (s *PageStore) GetFingerprint(_ context.Context, filePath string) (*domain.FileFingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages, ok := s.files[filePath]
	if !ok || len(pages) == 0 {
		return nil, nil
	}
	fp := pages[0].Fingerprint
	return &fp, nil
}

// GetPage returns one record by its (file, page) key.
func (s *PageStore) GetPage(_ context.Context, filePath string, pageNumber int) (*domain.PageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.files[filePath] {
		if rec.PageNumber == pageNumber {
			r := rec
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s page %d", domain.ErrNotFound, filePath, pageNumber)
}

// ListFiles returns the distinct file paths, sorted.
func (s *PageStore) ListFiles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// PageCount returns the number of records for filePath.
func (s *PageStore) PageCount(_ context.Context, filePath string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files[filePath]), nil
}

// Count returns the total number of records.
func (s *PageStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, pages := range s.files {
		total += len(pages)
	}
	return total, nil
}

// SetRootFolder records the indexed root folder.
func (s *PageStore) SetRootFolder(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = path
	return nil
}

// RootFolder returns the recorded root folder.
func (s *PageStore) RootFolder(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root, nil
}

// Close releases resources.
func (s *PageStore) Close() error {
	return nil
}

// CosineSimilarity computes the cosine similarity of two vectors,
// clamped to [0,1]. Mismatched or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Negative cosine means "less than unrelated" for ranking purposes.
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
