package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Slider is a single-value slider over an integer range, used for the age
// bounds. Left/right move by one step.
type Slider struct {
	styles Styles
	label  string
	min    int
	max    int
	value  int
	width  int
}

// NewSlider creates a slider with the given bounds and starting value.
func NewSlider(label string, minVal, maxVal, value int, styles Styles) Slider {
	return Slider{
		styles: styles,
		label:  label,
		min:    minVal,
		max:    maxVal,
		value:  clamp(value, minVal, maxVal),
		width:  21,
	}
}

// Value returns the current value.
func (s Slider) Value() int { return s.value }

// SetValue sets the value, clamped to the bounds.
func (s *Slider) SetValue(v int) { s.value = clamp(v, s.min, s.max) }

// Update handles arrow keys.
func (s Slider) Update(msg tea.Msg) (Slider, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "left", "h":
		s.value = clamp(s.value-1, s.min, s.max)
	case "right", "l":
		s.value = clamp(s.value+1, s.min, s.max)
	}
	return s, nil
}

// View renders the label, track and value.
func (s Slider) View() string {
	span := s.max - s.min
	pos := 0
	if span > 0 {
		pos = (s.value - s.min) * (s.width - 1) / span
	}

	track := strings.Repeat("─", pos) + "●" + strings.Repeat("─", s.width-1-pos)
	return fmt.Sprintf("%s %s %s",
		s.styles.FieldLabel.Render(s.label),
		track,
		s.styles.Bold.Render(fmt.Sprintf("%2d", s.value)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
