// Package chat provides the grounded conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/components/input"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/components/status"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/keymap"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/messages"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/styles"
	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driving"
)

// ErrNoChatService is returned when a question is asked without a
// configured chat service.
var ErrNoChatService = errors.New("chat service not available")

// transcriptEntry is one rendered exchange in the conversation.
type transcriptEntry struct {
	question string
	answer   string
	sources  []domain.PageRef
}

// View represents the chat view: a transcript and a question input.
// The conversation history lives here for the session; each question
// is re-grounded against the index by the chat service.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	statusbar *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	history    []domain.ConversationTurn
	transcript []transcriptEntry

	width   int
	height  int
	ready   bool
	waiting bool
	err     error
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewQueryInput(s, "Ask: ", "Ask about your documents..."),
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChatAnswered:
		v.handleAnswered(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if msg.Type == tea.KeyEnter && !v.waiting {
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.waiting = true
		v.err = nil
		v.statusbar.SetState(status.StateAnswering)
		v.input.SetValue("")
		return v, v.performAsk(question)
	}

	if v.waiting {
		// Answer in flight: ignore all input except esc above.
		return v, nil
	}

	v.input, _ = v.input.Update(msg)
	return v, nil
}

// performAsk asks the chat service with the accumulated history.
func (v *View) performAsk(question string) tea.Cmd {
	history := v.history
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ChatAnswered{Question: question, Err: ErrNoChatService}
		}

		result, err := v.chatService.Ask(v.ctx, question, history)
		return messages.ChatAnswered{Question: question, Result: result, Err: err}
	}
}

// handleAnswered appends the exchange to the transcript and history.
func (v *View) handleAnswered(msg messages.ChatAnswered) {
	v.waiting = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.transcript = append(v.transcript, transcriptEntry{
		question: msg.Question,
		answer:   msg.Result.Answer,
		sources:  msg.Result.Sources,
	})
	v.history = append(v.history,
		domain.ConversationTurn{Role: domain.RoleUser, Content: msg.Question},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: msg.Result.Answer},
	)
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, len(v.transcript)*4+6)

	sections = append(sections, v.styles.Title.Render("Lectern Chat"), "")

	if len(v.transcript) == 0 {
		sections = append(sections, v.styles.Muted.Render("Ask a question about your indexed documents."), "")
	}

	for _, entry := range v.transcript {
		sections = append(sections, v.styles.Subtitle.Render("You: ")+v.styles.Normal.Render(entry.question))
		sections = append(sections, v.styles.Normal.Render(entry.answer))
		if len(entry.sources) > 0 {
			refs := make([]string, len(entry.sources))
			for i, src := range entry.sources {
				refs[i] = src.String()
			}
			sections = append(sections, v.styles.Muted.Render("Sources: "+strings.Join(refs, "; ")))
		}
		sections = append(sections, "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.waiting {
		sections = append(sections, v.styles.Muted.Render("Thinking..."), "")
	}

	sections = append(sections, v.input.View())
	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Waiting reports whether an answer is in flight.
func (v *View) Waiting() bool {
	return v.waiting
}

// Turns returns the number of completed question/answer exchanges.
func (v *View) Turns() int {
	return len(v.transcript)
}

// History returns the accumulated conversation history.
func (v *View) History() []domain.ConversationTurn {
	return v.history
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset clears the conversation.
func (v *View) Reset() {
	v.history = nil
	v.transcript = nil
	v.waiting = false
	v.err = nil
	v.input.SetValue("")
	v.input.Focus()
	v.statusbar.Clear()
}
