// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentExtractor / ExtractorRegistry: Per-page text extraction
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Page record persistence and nearest-neighbour queries
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - GenerationService: Language model operations. Without it,
//     reranking, summaries and chat are disabled; plain semantic
//     search keeps working.
//   - PromptStore: User-customisable prompt templates. Without it,
//     embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
