package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"woofinder/internal/catalog"
	"woofinder/internal/search"
)

// filterFocus enumerates the filter form's focusable widgets.
type filterFocus int

const (
	focusBreeds filterFocus = iota
	focusSort
	focusAgeMin
	focusAgeMax
	filterFocusCount
)

// SearchModel is the search page: a filter form over the breed list plus a
// paginated card grid of dogs joined with their locations.
type SearchModel struct {
	deps   *Deps
	styles Styles

	filters search.Filters
	page    *search.Page
	breeds  []string

	loading   bool
	firstLoad bool
	spinner   spinner.Model
	cursor    int

	// filter form
	filtering bool
	focus     filterFocus
	breedPick MultiSelect
	sortDesc  bool
	ageMin    Slider
	ageMax    Slider

	width  int
	height int
}

// NewSearchModel creates the search page with default filters.
func NewSearchModel(deps *Deps) SearchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = deps.Styles.Highlight

	return SearchModel{
		deps:      deps,
		styles:    deps.Styles,
		spinner:   sp,
		firstLoad: true,
		ageMin:    NewSlider("Min Age", deps.AgeFloor, deps.AgeCeil, deps.AgeFloor, deps.Styles),
		ageMax:    NewSlider("Max Age", deps.AgeFloor, deps.AgeCeil, deps.AgeCeil, deps.Styles),
	}
}

// Init starts the breed fetch and the first page resolution.
func (m SearchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadBreedsCmd(), m.resolveCmd(m.filters))
}

// SetSize records the window size.
func (m *SearchModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFilters replaces the active filters, e.g. when restoring a shared
// search. Call before Init; the first resolution picks them up.
func (m *SearchModel) SetFilters(f search.Filters) {
	m.filters = f
}

func (m SearchModel) loadBreedsCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		breeds, err := deps.Search.Breeds(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return breedsLoadedMsg{breeds: breeds}
	}
}

// resolveCmd resolves a page for f. A superseded resolution yields nothing:
// the newer request owns the view.
func (m SearchModel) resolveCmd(f search.Filters) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		page, err := deps.Search.Resolve(context.Background(), f)
		if errors.Is(err, search.ErrSuperseded) {
			return nil
		}
		if err != nil {
			return errMsg{err: err}
		}
		return pageLoadedMsg{page: page}
	}
}

// Update handles browsing, the filter form and pagination.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case breedsLoadedMsg:
		m.breeds = msg.breeds
		m.breedPick = NewMultiSelect(msg.breeds, m.styles)
		m.breedPick.SetSelected(m.filters.Breeds)
		return m, nil

	case pageLoadedMsg:
		// Stale-while-revalidate: only a successful page replaces content.
		m.page = msg.page
		m.filters = msg.page.Filters
		m.loading = false
		m.firstLoad = false
		if m.cursor >= len(msg.page.Dogs) {
			m.cursor = 0
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.firstLoad {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errMsg:
		// The app toasts it; keep the last good page visible.
		m.loading = false
		m.firstLoad = false
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilterForm(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m SearchModel) updateBrowsing(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch msg.String() {
	case "f":
		if m.breeds != nil {
			m.filtering = true
			m.focus = focusBreeds
			m.breedPick.SetSelected(m.filters.Breeds)
		}
		return m, nil

	case "m":
		return m, func() tea.Msg { return navigateMsg{to: RouteMatch} }

	case "left", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "right", "j":
		if m.page != nil && m.cursor < len(m.page.Dogs)-1 {
			m.cursor++
		}
		return m, nil

	case " ", "enter":
		if m.page != nil && m.cursor < len(m.page.Dogs) {
			m.deps.Store.ToggleFavorite(m.page.Dogs[m.cursor].ID)
		}
		return m, nil

	case "n":
		if m.page != nil && m.page.HasNext() && !m.loading {
			m.loading = true
			next := m.filters.WithCursor(m.page.NextCursor)
			return m, tea.Batch(m.spinner.Tick, m.resolveCmd(next))
		}
		return m, nil

	case "p":
		if m.page != nil && m.page.HasPrev() && !m.loading {
			m.loading = true
			prev := m.filters.WithCursor(m.page.PrevCursor)
			return m, tea.Batch(m.spinner.Tick, m.resolveCmd(prev))
		}
		return m, nil
	}
	return m, nil
}

func (m SearchModel) updateFilterForm(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		return m, nil

	case "tab":
		m.focus = (m.focus + 1) % filterFocusCount
		return m, nil

	case "enter":
		// Applying the form replaces every filter field; the cursor is
		// cleared as part of the same transition.
		sort := "breed:asc"
		if m.sortDesc {
			sort = "breed:desc"
		}
		ageMin, ageMax := m.ageMin.Value(), m.ageMax.Value()

		m.filters = m.filters.
			WithBreeds(m.breedPick.Selected()).
			WithSort(sort).
			WithAgeRange(&ageMin, &ageMax)

		m.filtering = false
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.resolveCmd(m.filters))
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusBreeds:
		m.breedPick, cmd = m.breedPick.Update(msg)
	case focusSort:
		if msg.String() == " " || msg.String() == "left" || msg.String() == "right" {
			m.sortDesc = !m.sortDesc
		}
	case focusAgeMin:
		m.ageMin, cmd = m.ageMin.Update(msg)
		if m.ageMin.Value() > m.ageMax.Value() {
			m.ageMax.SetValue(m.ageMin.Value())
		}
	case focusAgeMax:
		m.ageMax, cmd = m.ageMax.Update(msg)
		if m.ageMax.Value() < m.ageMin.Value() {
			m.ageMin.SetValue(m.ageMax.Value())
		}
	}
	return m, cmd
}

// View renders either the filter form or the card grid.
func (m SearchModel) View() string {
	if m.filtering {
		return m.viewFilterForm()
	}
	return m.viewResults()
}

func (m SearchModel) viewFilterForm() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("Search filters") + "\n\n")

	focusMark := func(f filterFocus, label string) string {
		if m.focus == f {
			return m.styles.Highlight.Render("› " + label)
		}
		return "  " + label
	}

	sb.WriteString(focusMark(focusBreeds, "Breeds") + "\n")
	sb.WriteString(m.breedPick.View() + "\n")

	direction := "Ascending"
	if m.sortDesc {
		direction = "Descending"
	}
	sb.WriteString(focusMark(focusSort, "Breed Sort: "+direction) + "\n\n")

	sb.WriteString(focusMark(focusAgeMin, m.ageMin.View()) + "\n")
	sb.WriteString(focusMark(focusAgeMax, m.ageMax.View()) + "\n\n")

	sb.WriteString(m.styles.Help.Render("tab next field • space toggle • enter apply • esc cancel"))
	return sb.String()
}

func (m SearchModel) viewResults() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Search") + "\n")

	favorites := len(m.deps.Store.Favorites())
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("♥ %d favorited", favorites)) + "\n\n")

	switch {
	case m.firstLoad:
		sb.WriteString(m.spinner.View() + " Fetching dogs...\n")

	case m.page == nil || len(m.page.Dogs) == 0:
		sb.WriteString(m.styles.Muted.Render("No dogs matched your search criteria. Try widening your search.") + "\n")

	default:
		sb.WriteString(m.viewCards())
		sb.WriteString("\n" + m.viewPagination())
	}

	if m.loading && !m.firstLoad {
		sb.WriteString("\n" + m.spinner.View() + m.styles.Muted.Render(" updating..."))
	}

	sb.WriteString("\n\n" + m.styles.Help.Render(
		"←/→ browse • space favorite • n/p page • f filters • m find match • ctrl+c quit"))
	return sb.String()
}

func (m SearchModel) viewCards() string {
	columns := max(1, m.width/30)

	var rows []string
	var row []string
	for i, dog := range m.page.Dogs {
		card := m.renderCard(dog, i == m.cursor)
		row = append(row, card)
		if len(row) == columns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func (m SearchModel) renderCard(dog catalog.Dog, selected bool) string {
	heart := "♡"
	if m.deps.Store.IsFavorite(dog.ID) {
		heart = m.styles.Highlight.Render("♥")
	}

	// Join with the location by zip, falling back to the raw zip code.
	where := dog.ZipCode
	if loc := m.page.LocationFor(dog.ZipCode); loc != nil {
		where = fmt.Sprintf("%s, %s %s", loc.City, loc.State, loc.ZipCode)
	}

	body := fmt.Sprintf("%s %s\n%s\n%d yr • %s",
		m.styles.Bold.Render(dog.Name), heart, dog.Breed, dog.Age, where)

	if selected {
		return m.styles.SelectedCard.Render(body)
	}
	return m.styles.Card.Render(body)
}

func (m SearchModel) viewPagination() string {
	prev := m.styles.Muted.Render("← prev")
	if m.page.HasPrev() {
		prev = "← prev"
	}
	next := m.styles.Muted.Render("next →")
	if m.page.HasNext() {
		next = "next →"
	}
	return fmt.Sprintf("%s   %s   %s", prev,
		m.styles.Muted.Render(fmt.Sprintf("%d total", m.page.Total)), next)
}
