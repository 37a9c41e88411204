package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driving"
	"github.com/lectern-labs/lectern-cli/internal/logger"
)

// Ensure IndexManager implements the interface.
var _ driving.Indexer = (*IndexManager)(nil)

// DefaultIndexParallelism bounds concurrent file processing. Files are
// independent (fingerprints are per file, writes atomic per file), but
// the embedding server is a shared local resource, so the bound stays
// small.
const DefaultIndexParallelism = 2

// IndexManager walks a folder tree, decides which files need
// (re)processing by fingerprint, drives extraction and embedding, and
// writes page records to the vector store.
type IndexManager struct {
	store       driven.VectorStore
	extractors  driven.ExtractorRegistry
	embedder    driven.EmbeddingService
	parallelism int
}

// NewIndexManager creates a new index manager.
func NewIndexManager(
	store driven.VectorStore,
	extractors driven.ExtractorRegistry,
	embedder driven.EmbeddingService,
) *IndexManager {
	return &IndexManager{
		store:       store,
		extractors:  extractors,
		embedder:    embedder,
		parallelism: DefaultIndexParallelism,
	}
}

// SetParallelism overrides the concurrent file processing bound.
// Values below 1 force sequential processing.
func (m *IndexManager) SetParallelism(n int) {
	if n < 1 {
		n = 1
	}
	m.parallelism = n
}

// fileEntry is one eligible file found by the folder walk.
type fileEntry struct {
	relPath     string
	absPath     string
	fingerprint domain.FileFingerprint
}

// Index walks folder and brings the vector store in sync with it.
func (m *IndexManager) Index(ctx context.Context, folder string) (*domain.IndexReport, error) {
	logger.Section("Indexing")
	logger.Info("Folder: %s", folder)

	if m.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	folder, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrFolderNotFound, folder)
	}

	info, err := os.Stat(folder)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", domain.ErrFolderNotFound, folder)
	case os.IsPermission(err):
		return nil, fmt.Errorf("%w: %s", domain.ErrFolderUnreadable, folder)
	case err != nil:
		return nil, fmt.Errorf("stat folder: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrFolderNotFound, folder)
	}

	entries, err := m.enumerate(folder)
	if err != nil {
		return nil, err
	}
	logger.Info("Found %d eligible files", len(entries))

	report := &domain.IndexReport{Folder: folder}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.parallelism)

	for _, entry := range entries {
		g.Go(func() error {
			status, err := m.processFile(gctx, entry)
			if err != nil {
				// A single file's failure degrades that file only.
				logger.Warn("Skipping %s: %v", entry.relPath, err)
				mu.Lock()
				report.SkippedCount++
				mu.Unlock()
				return gctx.Err()
			}

			mu.Lock()
			report.Files = append(report.Files, *status)
			if status.Reused {
				report.ReusedCount++
			}
			mu.Unlock()
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	removed, err := m.collectGarbage(ctx, entries)
	if err != nil {
		return nil, err
	}
	report.RemovedCount = removed

	if err := m.store.SetRootFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("record root folder: %w", err)
	}

	sort.Slice(report.Files, func(i, j int) bool {
		return report.Files[i].Path < report.Files[j].Path
	})
	for _, f := range report.Files {
		if f.Pages > 0 {
			report.TotalFiles++
		}
		report.TotalPages += f.Pages
	}

	logger.Info("Indexed %d pages across %d files (%d reused, %d skipped, %d removed)",
		report.TotalPages, report.TotalFiles, report.ReusedCount, report.SkippedCount, report.RemovedCount)
	return report, nil
}

// enumerate lists eligible files under folder with their fingerprints.
// Unreadable subtrees are logged and skipped; only a root-level walk
// failure aborts.
func (m *IndexManager) enumerate(folder string) ([]fileEntry, error) {
	var entries []fileEntry

	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == folder {
				if os.IsPermission(err) {
					return fmt.Errorf("%w: %s", domain.ErrFolderUnreadable, folder)
				}
				return err
			}
			logger.Warn("Cannot read %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !m.extractors.Supported(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("Cannot stat %s: %v", path, err)
			return nil
		}

		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return nil
		}

		entries = append(entries, fileEntry{
			relPath:     filepath.ToSlash(rel),
			absPath:     path,
			fingerprint: domain.FingerprintOf(info),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].relPath < entries[j].relPath })
	return entries, nil
}

// processFile reuses the file when its fingerprint is unchanged,
// otherwise extracts, embeds and rewrites its page records.
func (m *IndexManager) processFile(ctx context.Context, entry fileEntry) (*domain.FileStatus, error) {
	stored, err := m.store.GetFingerprint(ctx, entry.relPath)
	if err != nil {
		return nil, fmt.Errorf("get fingerprint: %w", err)
	}

	if stored != nil && stored.Equal(entry.fingerprint) {
		// Cache hit: the stored records are reused verbatim.
		pages, err := m.store.PageCount(ctx, entry.relPath)
		if err != nil {
			return nil, fmt.Errorf("count pages: %w", err)
		}
		logger.Debug("Reusing %s (%d pages)", entry.relPath, pages)
		return &domain.FileStatus{Path: entry.relPath, Pages: pages, Reused: true}, nil
	}

	extractor, err := m.extractors.ForFile(entry.absPath)
	if err != nil {
		return nil, err
	}

	logger.Debug("Extracting %s", entry.relPath)
	pages, err := extractor.ListPages(ctx, entry.absPath)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}

	embeddings, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	records := make([]domain.PageRecord, len(pages))
	for i, p := range pages {
		records[i] = domain.PageRecord{
			FilePath:    entry.relPath,
			PageNumber:  p.Number,
			Text:        p.Text,
			Embedding:   embeddings[i],
			Fingerprint: entry.fingerprint,
		}
	}

	// Atomic per file: readers never see a partial replacement.
	if err := m.store.UpsertPages(ctx, entry.relPath, records); err != nil {
		return nil, fmt.Errorf("upsert pages: %w", err)
	}

	logger.Debug("Indexed %s (%d pages)", entry.relPath, len(records))
	return &domain.FileStatus{Path: entry.relPath, Pages: len(records)}, nil
}

// Overview reports the index as it currently stands.
func (m *IndexManager) Overview(ctx context.Context) (*domain.IndexOverview, error) {
	folder, err := m.store.RootFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("get root folder: %w", err)
	}

	paths, err := m.store.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexed files: %w", err)
	}

	overview := &domain.IndexOverview{Folder: folder}
	for _, path := range paths {
		pages, err := m.store.PageCount(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("count pages for %s: %w", path, err)
		}
		overview.Files = append(overview.Files, domain.IndexedFile{Path: path, Pages: pages})
		overview.TotalPages += pages
	}

	return overview, nil
}

// collectGarbage removes records for files no longer under the folder.
func (m *IndexManager) collectGarbage(ctx context.Context, entries []fileEntry) (int, error) {
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.relPath] = true
	}

	stored, err := m.store.ListFiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("list indexed files: %w", err)
	}

	removed := 0
	for _, path := range stored {
		if present[path] {
			continue
		}
		logger.Debug("Removing records for deleted file %s", path)
		if err := m.store.DeleteByFile(ctx, path); err != nil {
			return removed, fmt.Errorf("delete %s: %w", path, err)
		}
		removed++
	}

	return removed, nil
}
