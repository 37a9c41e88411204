// Package plaintext extracts text and markdown files as single-page
// documents.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.DocumentExtractor = (*Extractor)(nil)

// Extractor handles .txt and .md files. The whole file is one page.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".md"}
}

// ListPages reads the file as a single page. An empty or whitespace-only
// file yields no pages.
func (e *Extractor) ListPages(_ context.Context, path string) ([]domain.PageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	text := strings.TrimSpace(sanitiseUTF8(data))
	if text == "" {
		return nil, nil
	}

	return []domain.PageText{{Number: 1, Text: text}}, nil
}

// RenderPage returns the raw file bytes; pageNumber must be 1.
func (e *Extractor) RenderPage(_ context.Context, path string, pageNumber int) ([]byte, error) {
	if pageNumber != 1 {
		return nil, fmt.Errorf("%w: page %d", domain.ErrNotFound, pageNumber)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// sanitiseUTF8 replaces invalid byte sequences so downstream embedding
// and storage always see valid UTF-8.
func sanitiseUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
