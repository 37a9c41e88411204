package mcp

import (
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides semantic page search.
	Search driving.SearchService

	// Chat answers grounded questions. Optional; without it the ask
	// tool is not registered.
	Chat driving.ChatService

	// Indexer reports index state for the index resource. Optional.
	Indexer driving.Indexer
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Chat and Indexer are optional.
	return nil
}
