// Package tui provides an interactive terminal user interface for lectern.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides semantic page search.
	Search driving.SearchService

	// Summary generates query-focused page summaries. Optional;
	// without it the summaries key does nothing.
	Summary driving.SummaryService

	// Chat answers grounded questions. Optional; without it the chat
	// view reports the service as unavailable.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Summary and Chat are optional.
	return nil
}
