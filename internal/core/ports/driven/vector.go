package driven

import (
	"context"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// VectorStore persists page records with their embeddings and answers
// nearest-neighbour queries. Records are keyed by (file path, page
// number); a file's records are always written and removed as a unit,
// atomically with respect to concurrent readers.
type VectorStore interface {
	// UpsertPages replaces all records for filePath with pages in a
	// single atomic operation. A reader never observes a file's pages
	// half-replaced.
	UpsertPages(ctx context.Context, filePath string, pages []domain.PageRecord) error

	// DeleteByFile removes every record for filePath.
	DeleteByFile(ctx context.Context, filePath string) error

	// QueryNearest returns the k records nearest to the query vector
	// by cosine similarity, most similar first.
	QueryNearest(ctx context.Context, vector []float32, k int) ([]PageHit, error)

	// GetFingerprint returns the stored fingerprint for filePath,
	// or nil when the file has never been indexed.
	GetFingerprint(ctx context.Context, filePath string) (*domain.FileFingerprint, error)

	// GetPage returns one record by its (file, page) key.
	// Returns domain.ErrNotFound when absent.
	GetPage(ctx context.Context, filePath string, pageNumber int) (*domain.PageRecord, error)

	// ListFiles returns the distinct file paths present in the store,
	// sorted by path.
	ListFiles(ctx context.Context) ([]string, error)

	// PageCount returns the number of records stored for filePath.
	PageCount(ctx context.Context, filePath string) (int, error)

	// Count returns the total number of records in the store.
	Count(ctx context.Context) (int, error)

	// SetRootFolder records the absolute folder the index was built
	// from, so later commands can resolve relative paths.
	SetRootFolder(ctx context.Context, path string) error

	// RootFolder returns the recorded root folder, or "" when the
	// store has never been indexed.
	RootFolder(ctx context.Context) (string, error)

	// Close releases resources.
	Close() error
}

// PageHit is a similarity query result.
type PageHit struct {
	// Record is the matched page.
	Record domain.PageRecord

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
