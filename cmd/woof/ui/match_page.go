package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"woofinder/internal/match"
)

// MatchModel is the match page: it shows the dog the service picked from
// the favorites set, with a re-roll action.
type MatchModel struct {
	deps   *Deps
	styles Styles

	result    *match.Result
	celebrate bool
	loading   bool
	spinner   spinner.Model

	width  int
	height int
}

// NewMatchModel creates the match page.
func NewMatchModel(deps *Deps) MatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Pulse
	sp.Style = deps.Styles.Highlight

	return MatchModel{deps: deps, styles: deps.Styles, spinner: sp}
}

// Init computes (or revalidates) the match for the current favorites.
func (m MatchModel) Init() tea.Cmd {
	if len(m.deps.Store.Favorites()) == 0 {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.currentCmd())
}

// SetSize records the window size.
func (m *MatchModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m MatchModel) currentCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		result, err := deps.Match.Current(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return matchLoadedMsg{result: result, celebrate: deps.Match.TakeCelebration()}
	}
}

func (m MatchModel) rerollCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		result, err := deps.Match.Reroll(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return matchLoadedMsg{result: result, celebrate: deps.Match.TakeCelebration()}
	}
}

// Update handles the re-roll action and result delivery.
func (m MatchModel) Update(msg tea.Msg) (MatchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case matchLoadedMsg:
		m.result = msg.result
		m.celebrate = msg.celebrate
		m.loading = false
		return m, nil

	case errMsg:
		m.loading = false
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r", "m":
			if !m.loading && len(m.deps.Store.Favorites()) > 0 {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.rerollCmd())
			}
		case "s", "esc":
			return m, func() tea.Msg { return navigateMsg{to: RouteSearch} }
		}
	}
	return m, nil
}

// View renders the empty state, the loader or the matched dog.
func (m MatchModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Match") + "\n\n")

	switch {
	case len(m.deps.Store.Favorites()) == 0:
		sb.WriteString("You haven't favorited any dogs yet! Find a few you like and come back.\n\n")
		sb.WriteString(m.styles.Help.Render("s search dogs • ctrl+c quit"))

	case m.loading || m.result == nil:
		sb.WriteString(m.spinner.View() + " Finding your match...\n")

	default:
		if m.celebrate {
			sb.WriteString(m.styles.Success.Render("🎉 We found a match!") + "\n\n")
		} else {
			sb.WriteString(m.styles.Bold.Render("We found a match!") + "\n\n")
		}

		dog := m.result.Dog
		where := dog.ZipCode
		if loc := m.result.Location; loc != nil {
			where = fmt.Sprintf("%s, %s %s", loc.City, loc.State, loc.ZipCode)
		}
		card := fmt.Sprintf("%s\n%s\n%d yr • %s",
			m.styles.Bold.Render(dog.Name), dog.Breed, dog.Age, where)
		sb.WriteString(m.styles.SelectedCard.Render(card) + "\n\n")

		sb.WriteString(m.styles.Help.Render("r match again • s search dogs • ctrl+c quit"))
	}

	return sb.String()
}
