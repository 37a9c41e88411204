// Package extractor selects document extractors by file extension.
package extractor

import (
	"path/filepath"
	"strings"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps lower-case file extensions to extractors.
type Registry struct {
	byExt map[string]driven.DocumentExtractor
}

// NewRegistry creates a registry over the given extractors. A later
// extractor claiming an extension an earlier one already claimed wins.
func NewRegistry(extractors ...driven.DocumentExtractor) *Registry {
	byExt := make(map[string]driven.DocumentExtractor)
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			byExt[strings.ToLower(ext)] = e
		}
	}
	return &Registry{byExt: byExt}
}

// ForFile returns the extractor handling the file's extension.
func (r *Registry) ForFile(path string) (driven.DocumentExtractor, error) {
	e, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}
	return e, nil
}

// Supported reports whether any registered extractor handles the file.
func (r *Registry) Supported(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns all registered extensions, unordered.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
