// Package search provides the search view for the TUI: query input,
// ranked results and streaming page summaries.
package search

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/components/input"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/components/list"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/components/status"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/keymap"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/messages"
	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/styles"
	"github.com/lectern-labs/lectern-cli/internal/core/domain"
	"github.com/lectern-labs/lectern-cli/internal/core/ports/driving"
)

// ErrNoSearchService is returned when a search is attempted without a
// configured search service.
var ErrNoSearchService = errors.New("search service not available")

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService  driving.SearchService
	summaryService driving.SummaryService
	ctx            context.Context

	// summaryCache persists across searches in this session, so
	// revisiting a query reuses earlier summaries.
	summaryCache  *domain.SummaryCache
	summaryCancel *domain.CancelFlag
	summaryCh     <-chan tea.Msg
	summaryRun    int

	query      string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	summaryService driving.SummaryService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:         s,
		keymap:         km,
		input:          input.NewQueryInput(s, "Search: ", "Enter search query..."),
		list:           list.NewResultList(s),
		statusbar:      status.NewBar(s, km),
		searchService:  searchService,
		summaryService: summaryService,
		ctx:            context.Background(),
		summaryCache:   domain.NewSummaryCache(),
		width:          80,
		height:         24,
		focusInput:     true,
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

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		return v, v.handleSearchCompleted(msg)

	case messages.SummaryReady:
		if msg.Run != v.summaryRun {
			return v, nil
		}
		v.list.SetSummary(msg.Index, msg.Summary)
		// Keep draining until the run closes the channel.
		return v, awaitSummary(v.summaryCh, v.summaryRun)

	case messages.SummariesDone:
		if msg.Run != v.summaryRun {
			return v, nil
		}
		v.summaryCh = nil
		v.summaryCancel = nil
		if v.statusbar.State() == status.StateSummarising {
			v.statusbar.SetState(status.StateResults)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	var listCmd tea.Cmd
	v.list, listCmd = v.list.Update(msg)
	if listCmd != nil {
		cmds = append(cmds, listCmd)
	}

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc cancels any summary run and signals back to menu.
	if msg.Type == tea.KeyEsc {
		v.stopSummaries()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Enter in input mode submits a search.
	if msg.Type == tea.KeyEnter && v.focusInput {
		query := v.input.Value()
		if query == "" {
			return v, nil
		}
		v.stopSummaries()
		v.query = query
		v.statusbar.SetState(status.StateSearching)
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(query)
	}

	// Input mode: all keys go to input.
	if v.focusInput {
		v.input, _ = v.input.Update(msg)
		return v, nil
	}

	// Results mode.
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.list.MoveUp()
		return v, nil
	case tea.KeyDown:
		v.list.MoveDown()
		return v, nil
	}

	switch msg.String() {
	case "k":
		v.list.MoveUp()
		return v, nil
	case "j":
		v.list.MoveDown()
		return v, nil
	case "s":
		return v, v.startSummaries()
	case "n":
		// New search: stop summaries, clear input and focus it.
		v.stopSummaries()
		v.focusInput = true
		v.input.Focus()
		v.input.SetValue("")
		return v, nil
	}

	return v, nil
}

// performSearch executes a search and returns results.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		results, err := v.searchService.Search(v.ctx, query, domain.SearchOptions{})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) tea.Cmd {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return nil
	}

	v.err = nil
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
	v.focusInput = false
	v.input.Blur()
	return nil
}

// startSummaries begins a sequential summary run over the current
// results. One generation call in flight at a time; each finished
// summary arrives as a SummaryReady message.
func (v *View) startSummaries() tea.Cmd {
	if v.summaryService == nil || v.list.IsEmpty() || v.summaryCh != nil {
		return nil
	}

	v.summaryRun++
	run := v.summaryRun
	results := v.list.Results()
	query := v.query
	cancel := &domain.CancelFlag{}
	v.summaryCancel = cancel

	// Buffered so the run never blocks, even if the view stops draining.
	ch := make(chan tea.Msg, len(results)+1)
	v.summaryCh = ch
	v.statusbar.SetState(status.StateSummarising)

	go func() {
		v.summaryService.SummarizeSequence(
			v.ctx, query, results, v.summaryCache, cancel,
			func(index int, summary string) {
				ch <- messages.SummaryReady{Run: run, Index: index, Summary: summary}
			},
		)
		close(ch)
	}()

	return awaitSummary(ch, run)
}

// awaitSummary waits for the next message from a summary run.
func awaitSummary(ch <-chan tea.Msg, run int) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return messages.SummariesDone{Run: run}
		}
		return msg
	}
}

// stopSummaries cancels any in-flight summary run and detaches from
// its channel. Already generated summaries stay attached to their
// results; messages still in flight are ignored by run id.
func (v *View) stopSummaries() {
	if v.summaryCancel != nil {
		v.summaryCancel.Cancel()
		v.summaryCancel = nil
	}
	v.summaryCh = nil
	v.summaryRun++
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	sections = append(sections, v.styles.Title.Render("Lectern"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())
	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // Reserve space for header, input, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.query
}

// Results returns the current search results.
func (v *View) Results() []domain.RankedResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Summarising reports whether a summary run is in flight.
func (v *View) Summarising() bool {
	return v.summaryCh != nil
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.stopSummaries()
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.query = ""
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
}
