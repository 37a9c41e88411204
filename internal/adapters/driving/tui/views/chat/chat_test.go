package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/messages"
	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

type mockChatService struct {
	result    *domain.ChatResult
	err       error
	questions []string
	histories [][]domain.ConversationTurn
}

func (m *mockChatService) Ask(
	_ context.Context,
	question string,
	history []domain.ConversationTurn,
) (*domain.ChatResult, error) {
	m.questions = append(m.questions, question)
	m.histories = append(m.histories, history)
	return m.result, m.err
}

func chatResult() *domain.ChatResult {
	return &domain.ChatResult{
		Answer: "Backpropagation applies the chain rule.",
		Sources: []domain.PageRef{
			{FilePath: "week4/backprop.pptx", PageNumber: 7},
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ask drives the view through one full question/answer exchange.
func ask(t *testing.T, v *View, question string) *View {
	t.Helper()

	for _, r := range question {
		v, _ = v.Update(keyMsg(string(r)))
	}

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, v.Waiting())

	answered, ok := cmd().(messages.ChatAnswered)
	require.True(t, ok)

	v, _ = v.Update(answered)
	return v
}

func TestChatView_AskAppendsTranscript(t *testing.T) {
	svc := &mockChatService{result: chatResult()}
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)

	v = ask(t, v, "what is backprop")

	assert.Equal(t, []string{"what is backprop"}, svc.questions)
	assert.Equal(t, 1, v.Turns())
	assert.False(t, v.Waiting())
	assert.NoError(t, v.Err())

	out := v.View()
	assert.Contains(t, out, "what is backprop")
	assert.Contains(t, out, "Backpropagation applies the chain rule.")
	assert.Contains(t, out, "week4/backprop.pptx page 7")
}

func TestChatView_HistoryGrowsPerExchange(t *testing.T) {
	svc := &mockChatService{result: chatResult()}
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)

	v = ask(t, v, "first")
	v = ask(t, v, "second")

	// The second call carries the first exchange as history.
	require.Len(t, svc.histories, 2)
	assert.Empty(t, svc.histories[0])
	require.Len(t, svc.histories[1], 2)
	assert.Equal(t, domain.RoleUser, svc.histories[1][0].Role)
	assert.Equal(t, "first", svc.histories[1][0].Content)
	assert.Equal(t, domain.RoleAssistant, svc.histories[1][1].Role)

	assert.Len(t, v.History(), 4)
	assert.Equal(t, 2, v.Turns())
}

func TestChatView_AskErrorDisplayed(t *testing.T) {
	svc := &mockChatService{err: errors.New("model unavailable")}
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)

	v = ask(t, v, "q")

	require.Error(t, v.Err())
	assert.Equal(t, 0, v.Turns())
	assert.Contains(t, v.View(), "model unavailable")
}

func TestChatView_EmptyQuestionIgnored(t *testing.T) {
	svc := &mockChatService{}
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, svc.questions)
}

func TestChatView_InputBlockedWhileWaiting(t *testing.T) {
	svc := &mockChatService{result: chatResult()}
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)

	v, _ = v.Update(keyMsg("q"))
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	// A second enter while waiting issues no new ask.
	v, second := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, second)
	assert.True(t, v.Waiting())
}

func TestChatView_NoService(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.SetDimensions(100, 30)

	v = ask(t, v, "q")

	assert.ErrorIs(t, v.Err(), ErrNoChatService)
}

func TestChatView_EscSignalsMenu(t *testing.T) {
	v := NewView(nil, nil, &mockChatService{})
	v.SetDimensions(100, 30)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestChatView_Reset(t *testing.T) {
	svc := &mockChatService{result: chatResult()}
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)

	v = ask(t, v, "q")
	v.Reset()

	assert.Equal(t, 0, v.Turns())
	assert.Empty(t, v.History())
	assert.False(t, v.Waiting())
}
