package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFolderNotFound indicates the index folder does not exist
	// or is not a directory.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrFolderUnreadable indicates the index folder exists but
	// cannot be read due to permissions.
	ErrFolderUnreadable = errors.New("folder unreadable")

	// ErrEmptyQuery indicates a search query was empty or whitespace.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrEmptyQuestion indicates a chat question was empty or whitespace.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrUnsupportedFormat indicates a file type no extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptFile indicates a document that could not be parsed.
	ErrCorruptFile = errors.New("corrupt document")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and semantic search are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation service is not configured.
	// Reranking, summaries and chat are disabled without it.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrChat indicates the chat answer could not be generated.
	// The call is not retried; the user may re-trigger it.
	ErrChat = errors.New("chat generation failed")
)
