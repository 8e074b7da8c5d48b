package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinopick/internal/tui/styles"
)

// AlertModal is a one-button notice; any key dismisses it
type AlertModal struct {
	visible bool
	title   string
	body    string
	button  string
}

// NewAlertModal creates a hidden alert
func NewAlertModal() AlertModal {
	return AlertModal{}
}

// Show displays the alert
func (m *AlertModal) Show(title, body, button string) {
	if button == "" {
		button = "OK"
	}
	m.visible = true
	m.title = title
	m.body = body
	m.button = button
}

// Hide dismisses the alert
func (m *AlertModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the alert is shown
func (m AlertModal) IsVisible() bool {
	return m.visible
}

// Title returns the current title
func (m AlertModal) Title() string {
	return m.title
}

// Update dismisses the alert on any key, reporting whether it did
func (m AlertModal) Update(msg tea.Msg) (AlertModal, bool) {
	if !m.visible {
		return m, false
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		m.Hide()
		return m, true
	}
	return m, false
}

// View renders the alert
func (m AlertModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 36

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	bodyStyle := lipgloss.NewStyle().
		Foreground(styles.LightGray).
		Width(modalWidth).
		Background(styles.SlateDark)

	spacer := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark).
		Render("")

	button := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center).
		Background(styles.SlateDark).
		Render(styles.ModalButtonStyle.Render(m.button))

	parts := []string{titleStyle.Render(m.title), spacer}
	if m.body != "" {
		parts = append(parts, bodyStyle.Render(m.body), spacer)
	}
	parts = append(parts, button)

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
