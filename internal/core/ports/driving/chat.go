package driving

import (
	"context"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// ChatService answers questions grounded in the indexed pages.
// It is stateless across calls: the conversation history is supplied
// and persisted by the caller.
type ChatService interface {
	// Ask retrieves pages relevant to question, builds a grounded
	// prompt including history, and returns the generated answer with
	// the retrieved pages as sources. Zero retrieved pages is not an
	// error: the model is instructed to say it found nothing relevant.
	Ask(ctx context.Context, question string, history []domain.ConversationTurn) (*domain.ChatResult, error)
}
