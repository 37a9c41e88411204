package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptRelevanceJudge rates a page's relevance to a query on a 1-5
	// scale. The template expects %s (query) and %s (page text).
	PromptRelevanceJudge = "relevance_judge"

	// PromptPageSummary produces a query-focused 1-2 sentence gloss of a
	// page. The template expects %s (query) and %s (page text).
	PromptPageSummary = "page_summary"

	// PromptChatSystem is the system prompt for grounded chat.
	// This prompt has no format placeholders.
	PromptChatSystem = "chat_system"
)

// PromptStoreAware is an optional interface for services that can use
// custom prompts. Services implementing it can have their templates
// customised by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts. If not set, the service uses hardcoded defaults.
	SetPromptStore(store PromptStore)
}
