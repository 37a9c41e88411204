// Package pdf extracts PDF documents with one page per PDF page.
//
// Text is recovered from the page content streams via pdfcpu. Literal
// and hex string arguments of the Tj, TJ and ' show operators are
// decoded; text encoded through CID fonts with custom CMaps comes out
// garbled and is left as-is. Lecture slides exported from standard
// tools decode fine.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.DocumentExtractor = (*Extractor)(nil)

// Extractor handles .pdf files.
type Extractor struct {
	conf *model.Configuration
}

// New creates a new PDF extractor. Validation is relaxed: lecture
// decks produced by office exporters are frequently not spec-clean.
func New() *Extractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Extractor{conf: conf}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// ListPages extracts text page by page, 1-based. Pages without
// decodable text are omitted.
func (e *Extractor) ListPages(_ context.Context, path string) ([]domain.PageText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pageCount, err := api.PageCount(f, e.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: page count: %v", domain.ErrCorruptFile, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind pdf: %w", err)
	}
	pdfCtx, err := api.ReadValidateAndOptimize(f, e.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: read pdf: %v", domain.ErrCorruptFile, err)
	}

	var pages []domain.PageText
	for n := 1; n <= pageCount; n++ {
		reader, err := pdfcpu.ExtractPageContent(pdfCtx, n)
		if err != nil {
			return nil, fmt.Errorf("%w: extract page %d: %v", domain.ErrCorruptFile, n, err)
		}

		content, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: read page %d: %v", domain.ErrCorruptFile, n, err)
		}

		text := strings.TrimSpace(decodeContentText(content))
		if text == "" {
			continue
		}
		pages = append(pages, domain.PageText{Number: n, Text: text})
	}
	return pages, nil
}

// RenderPage returns the page as a standalone one-page PDF.
func (e *Extractor) RenderPage(_ context.Context, path string, pageNumber int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := api.Trim(f, &buf, []string{strconv.Itoa(pageNumber)}, e.conf); err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", domain.ErrNotFound, pageNumber, err)
	}
	return buf.Bytes(), nil
}

// decodeContentText pulls the show-operator strings out of a content
// stream. Strings followed by Tj, ' or " are emitted as one run; array
// arguments of TJ are concatenated. The TD/Td/T* positioning operators
// become newlines so reading order roughly survives.
func decodeContentText(content []byte) string {
	var out strings.Builder
	var pending []string

	i := 0
	for i < len(content) {
		switch content[i] {
		case '(':
			str, next := parseLiteralString(content, i)
			pending = append(pending, str)
			i = next
		case '<':
			if i+1 < len(content) && content[i+1] == '<' {
				i += 2 // dictionary open, not a hex string
				continue
			}
			str, next := parseHexString(content, i)
			pending = append(pending, str)
			i = next
		case 'T':
			if i+1 < len(content) {
				switch content[i+1] {
				case 'j', 'J':
					out.WriteString(strings.Join(pending, ""))
					pending = pending[:0]
					i += 2
					continue
				case 'd', 'D', '*':
					if out.Len() > 0 {
						out.WriteByte('\n')
					}
					pending = pending[:0]
					i += 2
					continue
				}
			}
			i++
		case '\'', '"':
			out.WriteByte('\n')
			out.WriteString(strings.Join(pending, ""))
			pending = pending[:0]
			i++
		default:
			i++
		}
	}

	return collapseBlankLines(out.String())
}

// parseLiteralString decodes a PDF literal string starting at the '('
// in content[start]. Returns the decoded text and the index after the
// closing ')'.
func parseLiteralString(content []byte, start int) (string, int) {
	var out strings.Builder
	depth := 0
	i := start

	for i < len(content) {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= len(content) {
				return out.String(), i + 1
			}
			i++
			switch content[i] {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b', 'f':
				// Ignored control escapes.
			case '(', ')', '\\':
				out.WriteByte(content[i])
			default:
				// Octal escape: up to three digits.
				if content[i] >= '0' && content[i] <= '7' {
					val := 0
					for d := 0; d < 3 && i < len(content) && content[i] >= '0' && content[i] <= '7'; d++ {
						val = val*8 + int(content[i]-'0')
						i++
					}
					i--
					out.WriteByte(byte(val))
				}
			}
			i++
		case '(':
			depth++
			if depth > 1 {
				out.WriteByte(c)
			}
			i++
		case ')':
			depth--
			if depth == 0 {
				return out.String(), i + 1
			}
			out.WriteByte(c)
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), i
}

// parseHexString decodes a PDF hex string starting at the '<' in
// content[start]. Returns the decoded text and the index after the
// closing '>'.
func parseHexString(content []byte, start int) (string, int) {
	end := bytes.IndexByte(content[start:], '>')
	if end < 0 {
		return "", len(content)
	}
	end += start

	var digits []byte
	for _, c := range content[start+1 : end] {
		if isHexDigit(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, len(digits)/2)
	for i := range out {
		hi := hexValue(digits[i*2])
		lo := hexValue(digits[i*2+1])
		out[i] = byte(hi<<4 | lo)
	}
	return string(out), end + 1
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// collapseBlankLines drops empty lines and trailing whitespace left
// behind by positioning-only operators.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
