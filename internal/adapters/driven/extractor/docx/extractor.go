// Package docx extracts Word documents as single-page documents.
// Word files have no fixed pagination before layout, so the whole
// document body is treated as one page.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.DocumentExtractor = (*Extractor)(nil)

// Extractor handles .docx files.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// ListPages extracts the document body as a single page. An empty
// document yields no pages.
func (e *Extractor) ListPages(_ context.Context, path string) ([]domain.PageText, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open docx archive: %v", domain.ErrCorruptFile, err)
	}
	defer reader.Close()

	text, err := extractDocumentText(&reader.Reader)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	return []domain.PageText{{Number: 1, Text: text}}, nil
}

// RenderPage returns the extracted text as UTF-8 bytes; pageNumber
// must be 1.
func (e *Extractor) RenderPage(ctx context.Context, path string, pageNumber int) ([]byte, error) {
	if pageNumber != 1 {
		return nil, fmt.Errorf("%w: page %d", domain.ErrNotFound, pageNumber)
	}

	pages, err := e.ListPages(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: page %d", domain.ErrNotFound, pageNumber)
	}
	return []byte(pages[0].Text), nil
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: open document.xml: %v", domain.ErrCorruptFile, err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: read document.xml: %v", domain.ErrCorruptFile, err)
		}

		return parseDocumentXML(content)
	}
	return "", fmt.Errorf("%w: missing word/document.xml", domain.ErrCorruptFile)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML joins the document's paragraphs with newlines.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: parse document.xml: %v", domain.ErrCorruptFile, err)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}
