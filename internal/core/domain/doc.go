// Package domain defines the core business entities for Lectern.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PageRecord: A single indexed page of a lecture document
//   - FileFingerprint: Change-detection proxy for a file's content
//   - RankedResult: A retrieved page with its relevance scores
//   - ConversationTurn: One message in a caller-owned chat history
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
