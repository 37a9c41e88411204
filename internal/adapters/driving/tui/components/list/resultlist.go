// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lectern-labs/lectern-cli/internal/adapters/driving/tui/styles"
	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

// ResultList displays ranked pages in a navigable list. Summaries
// arrive asynchronously and attach to results by index.
type ResultList struct {
	results   []domain.RankedResult
	summaries map[int]string
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		summaries: make(map[int]string),
		styles:    s,
		width:     80,
		height:    10,
	}
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*3+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results)))
	lines = append(lines, header, "")

	// Each result takes up to 3 lines: reference, snippet, summary.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats a single ranked page with snippet and summary.
func (r *ResultList) renderResult(index int) string {
	result := r.results[index]

	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	ref := result.Record.Ref().String()
	maxRefLen := r.width - 20
	if maxRefLen < 10 {
		maxRefLen = 10
	}
	if len(ref) > maxRefLen {
		ref = ref[:maxRefLen-3] + "..."
	}

	score := fmt.Sprintf("%.2f", result.Combined)

	var refLine string
	if index == r.selected {
		refLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxRefLen, ref, score))
	} else {
		refLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxRefLen, ref)) +
			r.styles.Muted.Render(score)
	}

	snippet := r.truncate(result.Snippet())
	out := refLine + "\n" + r.styles.Muted.Render("    "+snippet)

	if summary, ok := r.summaries[index]; ok {
		out += "\n" + r.styles.Summary.Render("    "+r.truncate(summary))
	}

	return out
}

// truncate fits text to the component width.
func (r *ResultList) truncate(text string) string {
	maxLen := r.width - 6
	if maxLen < 20 {
		maxLen = 20
	}
	if len(text) > maxLen {
		return text[:maxLen-3] + "..."
	}
	return text
}

// SetResults updates the result list and clears summaries.
func (r *ResultList) SetResults(results []domain.RankedResult) {
	r.results = results
	r.summaries = make(map[int]string)
	r.selected = 0
}

// SetSummary attaches a generated summary to the result at index.
func (r *ResultList) SetSummary(index int, summary string) {
	if index >= 0 && index < len(r.results) {
		r.summaries[index] = summary
	}
}

// Summary returns the summary for the result at index, if present.
func (r *ResultList) Summary(index int) (string, bool) {
	s, ok := r.summaries[index]
	return s, ok
}

// Results returns the current results.
func (r *ResultList) Results() []domain.RankedResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.RankedResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
