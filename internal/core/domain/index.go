package domain

// FileStatus describes one file's outcome in an indexing run.
type FileStatus struct {
	// Path is the file's path relative to the indexed root folder.
	Path string `json:"path"`

	// Pages is the number of non-empty pages the file contributed.
	Pages int `json:"pages"`

	// Reused is true when the file's fingerprint was unchanged and its
	// stored PageRecords were kept as-is (cache hit).
	Reused bool `json:"reused"`
}

// IndexReport summarises an indexing run over a folder.
type IndexReport struct {
	// Folder is the absolute path of the indexed root folder.
	Folder string `json:"folder"`

	// TotalPages is the number of PageRecords in the index after the run.
	TotalPages int `json:"total_pages"`

	// TotalFiles is the number of files with at least one indexed page.
	TotalFiles int `json:"total_files"`

	// Files lists the per-file outcomes, ordered by path.
	Files []FileStatus `json:"files"`

	// ReusedCount is the number of files reused via fingerprint match.
	ReusedCount int `json:"reused_count"`

	// SkippedCount is the number of files skipped due to extraction or
	// embedding failures. Skipped files do not abort the run.
	SkippedCount int `json:"skipped_count"`

	// RemovedCount is the number of files garbage-collected because they
	// no longer exist under the folder.
	RemovedCount int `json:"removed_count"`
}

// IndexedFile is one file currently present in the index.
type IndexedFile struct {
	// Path is the file's path relative to the indexed root folder.
	Path string `json:"path"`

	// Pages is the number of indexed pages.
	Pages int `json:"pages"`
}

// IndexOverview describes the current state of the index without
// running an indexing pass.
type IndexOverview struct {
	// Folder is the recorded root folder, or "" before the first run.
	Folder string `json:"folder"`

	// TotalPages is the number of PageRecords in the index.
	TotalPages int `json:"total_pages"`

	// Files lists the indexed files, sorted by path.
	Files []IndexedFile `json:"files"`
}
