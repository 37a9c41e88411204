package driving

import (
	"context"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// Indexer builds and maintains the page index for a folder of
// lecture documents.
type Indexer interface {
	// Index walks folder recursively, (re)processes files whose
	// fingerprint changed, reuses unchanged ones, and removes records
	// for files that no longer exist.
	//
	// A single file's failure is logged and skipped; only folder-level
	// errors (missing, not a directory, unreadable) fail the call.
	Index(ctx context.Context, folder string) (*domain.IndexReport, error)

	// Overview reports the index as it currently stands, without
	// touching the filesystem or re-processing anything.
	Overview(ctx context.Context) (*domain.IndexOverview, error)
}
