package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lectern-labs/lectern-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// metaRootFolder is the index_meta key holding the indexed root folder.
const metaRootFolder = "root_folder"

// Store is the SQLite-backed page and embedding store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lectern/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lectern", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode for concurrent reads during per-file rewrites.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// UpsertPages replaces all records for filePath in one transaction.
func (s *Store) UpsertPages(ctx context.Context, filePath string, pages []domain.PageRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE file_path = ?", filePath); err != nil {
		return fmt.Errorf("clearing old pages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (file_path, page_number, text, embedding, fp_size, fp_mod_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, page := range pages {
		embeddingBlob := float32SliceToBytes(page.Embedding)

		if _, err := stmt.ExecContext(ctx, filePath, page.PageNumber, page.Text,
			embeddingBlob, page.Fingerprint.Size, page.Fingerprint.ModTime); err != nil {
			return fmt.Errorf("saving page %d: %w", page.PageNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteByFile removes every record for filePath.
func (s *Store) DeleteByFile(ctx context.Context, filePath string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE file_path = ?", filePath)
	if err != nil {
		return fmt.Errorf("deleting pages: %w", err)
	}
	return nil
}

// QueryNearest scans all records and returns the k most similar by
// cosine similarity, most similar first.
func (s *Store) QueryNearest(ctx context.Context, vector []float32, k int) ([]driven.PageHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT file_path, page_number, text, embedding, fp_size, fp_mod_time
		FROM pages
	`)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var hits []driven.PageHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, driven.PageHit{
			Record:     *record,
			Similarity: cosineSimilarity(vector, record.Embedding),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// GetFingerprint returns the stored fingerprint for filePath, or nil
// when the file has never been indexed. All of a file's rows carry the
// same fingerprint, so the first is enough.
func (s *Store) GetFingerprint(ctx context.Context, filePath string) (*domain.FileFingerprint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT fp_size, fp_mod_time FROM pages
		WHERE file_path = ?
		LIMIT 1
	`, filePath)

	var fp domain.FileFingerprint
	if err := row.Scan(&fp.Size, &fp.ModTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning fingerprint: %w", err)
	}
	return &fp, nil
}

// GetPage returns one record by its (file, page) key.
func (s *Store) GetPage(ctx context.Context, filePath string, pageNumber int) (*domain.PageRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT file_path, page_number, text, embedding, fp_size, fp_mod_time
		FROM pages
		WHERE file_path = ? AND page_number = ?
	`, filePath, pageNumber)

	return scanPageRow(row)
}

// ListFiles returns the distinct file paths in the store, sorted.
func (s *Store) ListFiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT file_path FROM pages ORDER BY file_path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying file paths: %w", err)
	}
	defer rows.Close()

	var files []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning file path: %w", err)
		}
		files = append(files, path)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating file paths: %w", err)
	}
	return files, nil
}

// PageCount returns the number of records stored for filePath.
func (s *Store) PageCount(ctx context.Context, filePath string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pages WHERE file_path = ?", filePath).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return count, nil
}

// Count returns the total number of records in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return count, nil
}

// SetRootFolder records the absolute folder the index was built from.
func (s *Store) SetRootFolder(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO index_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaRootFolder, path)
	if err != nil {
		return fmt.Errorf("saving root folder: %w", err)
	}
	return nil
}

// RootFolder returns the recorded root folder, or "" when the store
// has never been indexed.
func (s *Store) RootFolder(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT value FROM index_meta WHERE key = ?", metaRootFolder)

	var path string
	if err := row.Scan(&path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("scanning root folder: %w", err)
	}
	return path, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity returns the cosine similarity of a and b clamped to
// [0, 1]. Mismatched or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
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
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// scanPage scans a page record from *sql.Rows.
func scanPage(rows *sql.Rows) (*domain.PageRecord, error) {
	var record domain.PageRecord
	var embeddingBlob []byte

	if err := rows.Scan(&record.FilePath, &record.PageNumber, &record.Text,
		&embeddingBlob, &record.Fingerprint.Size, &record.Fingerprint.ModTime); err != nil {
		return nil, fmt.Errorf("scanning page: %w", err)
	}

	record.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &record, nil
}

// scanPageRow scans a page record from *sql.Row.
func scanPageRow(row *sql.Row) (*domain.PageRecord, error) {
	var record domain.PageRecord
	var embeddingBlob []byte

	if err := row.Scan(&record.FilePath, &record.PageNumber, &record.Text,
		&embeddingBlob, &record.Fingerprint.Size, &record.Fingerprint.ModTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning page: %w", err)
	}

	record.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &record, nil
}
