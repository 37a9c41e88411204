// Package pptx extracts PowerPoint presentations with one page per
// slide.
package pptx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.DocumentExtractor = (*Extractor)(nil)

// slideNamePattern matches slide part names like ppt/slides/slide12.xml.
var slideNamePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Extractor handles .pptx files.
type Extractor struct{}

// New creates a new PPTX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{".pptx"}
}

// ListPages extracts one page per slide, in slide order. Slides with
// no text are omitted; page numbers follow the slide numbers so a
// citation still points at the right slide.
func (e *Extractor) ListPages(_ context.Context, path string) ([]domain.PageText, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open pptx archive: %v", domain.ErrCorruptFile, err)
	}
	defer reader.Close()

	slides, err := slideFiles(&reader.Reader)
	if err != nil {
		return nil, err
	}

	var pages []domain.PageText
	for _, slide := range slides {
		text, err := extractSlideText(slide.file)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}
		pages = append(pages, domain.PageText{Number: slide.number, Text: text})
	}
	return pages, nil
}

// RenderPage returns one slide's extracted text as UTF-8 bytes.
func (e *Extractor) RenderPage(ctx context.Context, path string, pageNumber int) ([]byte, error) {
	pages, err := e.ListPages(ctx, path)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		if p.Number == pageNumber {
			return []byte(p.Text), nil
		}
	}
	return nil, fmt.Errorf("%w: slide %d", domain.ErrNotFound, pageNumber)
}

// slideEntry pairs a slide part with its number.
type slideEntry struct {
	number int
	file   *zip.File
}

// slideFiles lists slide parts sorted by slide number. The archive
// order is not reliable: slide10.xml sorts before slide2.xml.
func slideFiles(reader *zip.Reader) ([]slideEntry, error) {
	var slides []slideEntry
	for _, file := range reader.File {
		m := slideNamePattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slideEntry{number: number, file: file})
	}

	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: no slides found", domain.ErrCorruptFile)
	}

	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })
	return slides, nil
}

// slideXML captures every a:t text run in a slide. Runs within one
// paragraph are concatenated; paragraphs are joined with newlines.
type slideXML struct {
	Paragraphs []slideParagraph `xml:"cSld>spTree>sp>txBody>p"`
}

type slideParagraph struct {
	Runs []slideRun `xml:"r"`
}

type slideRun struct {
	Text string `xml:"t"`
}

// extractSlideText pulls the visible text out of one slide part.
func extractSlideText(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", domain.ErrCorruptFile, file.Name, err)
	}

	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrCorruptFile, file.Name, err)
	}

	var slide slideXML
	if err := xml.Unmarshal(content, &slide); err != nil {
		return "", fmt.Errorf("%w: parse %s: %v", domain.ErrCorruptFile, file.Name, err)
	}

	var lines []string
	for _, para := range slide.Paragraphs {
		var line strings.Builder
		for _, run := range para.Runs {
			line.WriteString(run.Text)
		}
		if trimmed := strings.TrimSpace(line.String()); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n"), nil
}
