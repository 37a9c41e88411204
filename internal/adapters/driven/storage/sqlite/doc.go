// Package sqlite provides a SQLite-backed implementation of the
// VectorStore driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Page records
// and their embeddings live in a single pages table keyed by
// (file_path, page_number); embeddings are stored as little-endian
// float32 blobs. Nearest-neighbour queries scan the table and score
// by cosine similarity in process, which is fast enough for the
// corpus sizes a personal lecture archive reaches.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.lectern/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode; per-file replacement runs in a single
// transaction so readers never observe a partial write.
package sqlite
