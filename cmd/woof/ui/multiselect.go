package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MultiSelect is a filterable multi-select over a fixed option list, used
// for the breed filter. Typing narrows the options; space toggles.
type MultiSelect struct {
	styles  Styles
	options []string

	filter   string
	visible  []string
	cursor   int
	selected map[string]bool
	height   int
}

// NewMultiSelect creates a multi-select over options.
func NewMultiSelect(options []string, styles Styles) MultiSelect {
	m := MultiSelect{
		styles:   styles,
		options:  options,
		selected: make(map[string]bool),
		height:   8,
	}
	m.applyFilter()
	return m
}

// SetHeight caps the number of visible options.
func (m *MultiSelect) SetHeight(h int) {
	if h > 0 {
		m.height = h
	}
}

// Selected returns the chosen options in option-list order.
func (m MultiSelect) Selected() []string {
	var out []string
	for _, opt := range m.options {
		if m.selected[opt] {
			out = append(out, opt)
		}
	}
	return out
}

// SetSelected replaces the current selection.
func (m *MultiSelect) SetSelected(values []string) {
	m.selected = make(map[string]bool, len(values))
	for _, v := range values {
		m.selected[v] = true
	}
}

// Update handles navigation, toggling and typeahead filtering.
func (m MultiSelect) Update(msg tea.Msg) (MultiSelect, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case " ":
		if m.cursor < len(m.visible) {
			opt := m.visible[m.cursor]
			m.selected[opt] = !m.selected[opt]
		}
	case "backspace":
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.applyFilter()
		}
	default:
		if key.Type == tea.KeyRunes {
			m.filter += string(key.Runes)
			m.applyFilter()
		}
	}
	return m, nil
}

func (m *MultiSelect) applyFilter() {
	m.visible = m.visible[:0]
	needle := strings.ToLower(m.filter)
	for _, opt := range m.options {
		if needle == "" || strings.Contains(strings.ToLower(opt), needle) {
			m.visible = append(m.visible, opt)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

// View renders the filter line and the visible window of options.
func (m MultiSelect) View() string {
	var sb strings.Builder

	filter := m.filter
	if filter == "" {
		filter = m.styles.Muted.Render("type to filter...")
	}
	sb.WriteString(filter + "\n")

	start := 0
	if m.cursor >= m.height {
		start = m.cursor - m.height + 1
	}
	end := min(start+m.height, len(m.visible))

	for i := start; i < end; i++ {
		opt := m.visible[i]

		check := "[ ]"
		if m.selected[opt] {
			check = m.styles.Highlight.Render("[x]")
		}

		line := check + " " + opt
		if i == m.cursor {
			line = m.styles.Highlight.Render("> ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}

	if len(m.visible) == 0 {
		sb.WriteString(m.styles.Muted.Render("  no breeds match") + "\n")
	}
	return sb.String()
}
