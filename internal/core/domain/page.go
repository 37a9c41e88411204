package domain

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// PageText is one page of extracted plain text, as produced by a
// document extractor. Page numbers are 1-based for display.
type PageText struct {
	// Number is the 1-based page (or slide) number.
	Number int

	// Text is the extracted plain text of the page.
	Text string
}

// PageRecord is a single indexed page. Records are keyed by
// (FilePath, PageNumber) and immutable once written; a file's records
// are replaced as a whole when its fingerprint changes.
type PageRecord struct {
	// FilePath is the file's path relative to the indexed root folder,
	// always slash-separated.
	FilePath string

	// PageNumber is the 1-based page number within the file.
	PageNumber int

	// Text is the page's extracted plain text.
	Text string

	// Embedding is the page's vector representation.
	Embedding []float32

	// Fingerprint identifies the file revision the record was built from.
	Fingerprint FileFingerprint
}

// Ref returns the page's (file, page) identity.
func (r PageRecord) Ref() PageRef {
	return PageRef{FilePath: r.FilePath, PageNumber: r.PageNumber}
}

// PageRef identifies a page without carrying its content.
// Chat answers cite their sources as PageRefs.
type PageRef struct {
	FilePath   string `json:"file_path"`
	PageNumber int    `json:"page_number"`
}

// String renders the reference the way prompts and citations label pages.
func (p PageRef) String() string {
	return fmt.Sprintf("%s page %d", p.FilePath, p.PageNumber)
}

// FileFingerprint is a cheap proxy for a file's content, derived from
// size and modification time. Equal fingerprints mean the file is
// treated as unchanged and its PageRecords are reused verbatim.
type FileFingerprint struct {
	// Size is the file size in bytes.
	Size int64

	// ModTime is the modification time in Unix nanoseconds.
	ModTime int64
}

// FingerprintOf derives a fingerprint from file metadata.
func FingerprintOf(info fs.FileInfo) FileFingerprint {
	return FileFingerprint{
		Size:    info.Size(),
		ModTime: info.ModTime().UnixNano(),
	}
}

// Equal reports whether two fingerprints denote the same file revision.
func (f FileFingerprint) Equal(other FileFingerprint) bool {
	return f.Size == other.Size && f.ModTime == other.ModTime
}

// IsZero reports whether the fingerprint is unset.
func (f FileFingerprint) IsZero() bool {
	return f.Size == 0 && f.ModTime == 0
}

// String encodes the fingerprint as "size-modtime" for storage.
func (f FileFingerprint) String() string {
	return strconv.FormatInt(f.Size, 10) + "-" + strconv.FormatInt(f.ModTime, 10)
}

// ParseFileFingerprint decodes a fingerprint produced by String.
func ParseFileFingerprint(s string) (FileFingerprint, error) {
	size, mod, ok := strings.Cut(s, "-")
	if !ok {
		return FileFingerprint{}, fmt.Errorf("%w: fingerprint %q", ErrInvalidInput, s)
	}

	sizeN, err := strconv.ParseInt(size, 10, 64)
	if err != nil {
		return FileFingerprint{}, fmt.Errorf("%w: fingerprint size %q", ErrInvalidInput, size)
	}
	modN, err := strconv.ParseInt(mod, 10, 64)
	if err != nil {
		return FileFingerprint{}, fmt.Errorf("%w: fingerprint modtime %q", ErrInvalidInput, mod)
	}

	return FileFingerprint{Size: sizeN, ModTime: modN}, nil
}
