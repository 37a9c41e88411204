package domain

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one message in a chat conversation.
// The history is owned and persisted by the caller; the chat
// orchestrator receives it on every call and never stores it.
type ConversationTurn struct {
	// Role is RoleUser or RoleAssistant.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// ChatResult is a grounded chat answer.
type ChatResult struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`

	// Sources are the pages offered to the model as context.
	// They are the retrieval set, not a parse of citations inside
	// the answer text.
	Sources []PageRef `json:"sources"`
}
