package driven

import (
	"context"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// DocumentExtractor yields ordered per-page plain text for one document
// format, and can serve a single page for viewing.
//
// Implementations exist per format (pdf, pptx, docx, plain text).
// Extraction failures surface as domain.ErrCorruptFile wrapped with
// detail; the indexer skips the file and continues.
type DocumentExtractor interface {
	// Extensions returns the lower-case file extensions this extractor
	// handles, including the leading dot (e.g. ".pdf").
	Extensions() []string

	// ListPages extracts plain text from every page of the file,
	// in page order, 1-based. Empty pages are omitted.
	ListPages(ctx context.Context, path string) ([]domain.PageText, error)

	// RenderPage returns a single page as bytes suitable for viewing
	// (a one-page PDF for PDF sources, raw UTF-8 text otherwise).
	// Page rendering to pixels is the presentation layer's concern.
	RenderPage(ctx context.Context, path string, pageNumber int) ([]byte, error)
}

// ExtractorRegistry selects the extractor for a file by extension.
type ExtractorRegistry interface {
	// ForFile returns the extractor handling the file's extension.
	// Returns domain.ErrUnsupportedFormat if no extractor matches.
	ForFile(path string) (DocumentExtractor, error)

	// Supported reports whether any registered extractor handles the
	// file's extension. Used by the folder walk to pick eligible files.
	Supported(path string) bool
}
