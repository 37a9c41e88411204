// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewChat is the grounded conversation view.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.RankedResult
	Err     error
}

// SummaryReady carries one generated page summary. Index refers to
// the result position in the search that started the run. Run
// identifies the run so messages from a cancelled run are ignored.
type SummaryReady struct {
	Run     int
	Index   int
	Summary string
}

// SummariesDone signals a sequential summary run has finished,
// whether it completed or was cancelled.
type SummariesDone struct {
	Run int
}

// ChatAnswered carries a grounded answer back to the chat view.
type ChatAnswered struct {
	Question string
	Result   *domain.ChatResult
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
