package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 4 * time.Second

// toastExpiredMsg dismisses a toast; seq guards against a newer toast
// being dismissed by an older timer.
type toastExpiredMsg struct {
	seq int
}

// Toast is the transient notification bar. Request failures and the
// auth-expiry message surface here; they never replace page content.
type Toast struct {
	styles  Styles
	message string
	isError bool
	seq     int
}

// NewToast creates an empty toast.
func NewToast(styles Styles) Toast {
	return Toast{styles: styles}
}

// Show displays a message and schedules its dismissal.
func (t *Toast) Show(message string, isError bool) tea.Cmd {
	t.message = message
	t.isError = isError
	t.seq++

	seq := t.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Update dismisses the toast when its own timer fires.
func (t Toast) Update(msg tea.Msg) (Toast, tea.Cmd) {
	if expired, ok := msg.(toastExpiredMsg); ok && expired.seq == t.seq {
		t.message = ""
	}
	return t, nil
}

// View renders the toast, or nothing when dismissed.
func (t Toast) View() string {
	if t.message == "" {
		return ""
	}
	if t.isError {
		return t.styles.ToastError.Render(t.message)
	}
	return t.styles.Toast.Render(t.message)
}
