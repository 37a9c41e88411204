// Package mcp provides an MCP (Model Context Protocol) server adapter for Lectern.
// It lets AI assistants search and question the indexed lecture documents.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
