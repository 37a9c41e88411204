package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driven"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driving"
	"github.com/lectern-labs/lectern-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatRetrievalLimit is the fixed number of pages retrieved per chat
// turn. Retrieval is re-grounded on the question alone each turn,
// deliberately ignoring history to avoid topic drift.
const ChatRetrievalLimit = 5

// defaultChatSystemPrompt is the fallback when no PromptStore is configured.
const defaultChatSystemPrompt = `You are a study assistant answering questions about a set of lecture documents.
Answer using ONLY the provided page excerpts. For every claim, cite the file and page number it came from, like (intro.pdf, page 3).
If the excerpts do not contain the answer, say you could not find it in the indexed material.`

// noContextInstruction replaces the page excerpts when retrieval
// returned nothing relevant.
const noContextInstruction = `No relevant pages were found in the index for this question.
Tell the user you found nothing relevant in their documents, and suggest rephrasing or indexing more material. Do not invent citations.`

// ChatService answers questions grounded in retrieved pages.
// Stateless across calls: the history is caller-owned.
type ChatService struct {
	search      driving.SearchService
	llm         driven.GenerationService
	promptStore driven.PromptStore
}

// NewChatService creates a new chat service.
func NewChatService(search driving.SearchService, llm driven.GenerationService) *ChatService {
	return &ChatService{search: search, llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (c *ChatService) SetPromptStore(store driven.PromptStore) {
	c.promptStore = store
}

// Ask runs one grounded chat turn: retrieve, prompt, generate.
func (c *ChatService) Ask(
	ctx context.Context, question string, history []domain.ConversationTurn,
) (*domain.ChatResult, error) {
	logger.Section("Chat Turn")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if c.llm == nil {
		return nil, domain.ErrGenerationUnavailable
	}

	// Retrieve context for the question alone; zero candidates is not
	// a failure, the model is told to say it found nothing.
	results, err := c.search.Search(ctx, question, domain.SearchOptions{Limit: ChatRetrievalLimit})
	if err != nil {
		return nil, fmt.Errorf("%w: retrieval: %w", domain.ErrChat, err)
	}
	logger.Debug("Retrieved %d context pages", len(results))

	messages := c.buildMessages(question, history, results)

	answer, err := c.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: 0.3})
	if err != nil {
		// Not retried: the user decides whether to re-trigger.
		return nil, fmt.Errorf("%w: %w", domain.ErrChat, err)
	}

	sources := make([]domain.PageRef, len(results))
	for i := range results {
		sources[i] = results[i].Record.Ref()
	}

	logger.Info("Chat answer generated with %d sources", len(sources))
	return &domain.ChatResult{
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// buildMessages assembles the system prompt with labelled page
// excerpts, the prior history, and the new question.
func (c *ChatService) buildMessages(
	question string, history []domain.ConversationTurn, results []domain.RankedResult,
) []driven.ChatMessage {
	var system strings.Builder
	system.WriteString(loadPrompt(c.promptStore, driven.PromptChatSystem, defaultChatSystemPrompt))
	system.WriteString("\n\n")

	if len(results) == 0 {
		system.WriteString(noContextInstruction)
	} else {
		system.WriteString("Page excerpts:\n")
		for _, r := range results {
			fmt.Fprintf(&system, "\n[%s, page %d]\n%s\n",
				r.Record.FilePath, r.Record.PageNumber, r.Record.Text)
		}
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: system.String()})
	for _, turn := range history {
		messages = append(messages, driven.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: question})

	return messages
}
