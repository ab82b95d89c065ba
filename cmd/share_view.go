package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tripshare/internal/config"
	"tripshare/internal/share"
	"tripshare/internal/trip"
)

// Color palette for consistent theming
var (
	primaryBlue   = lipgloss.Color("39")  // Headers
	primaryGreen  = lipgloss.Color("82")  // Copied
	primaryYellow = lipgloss.Color("220") // Copying
	primaryRed    = lipgloss.Color("196") // Copy failed

	secondaryGray = lipgloss.Color("244") // Trip details
	darkGray      = lipgloss.Color("240") // Borders
	footerGray    = lipgloss.Color("241") // Footer text

	accentCyan = lipgloss.Color("86") // Destination

	selectedBg = lipgloss.Color("62")  // Focused button background
	selectedFg = lipgloss.Color("230") // Focused button foreground
)

// View implements tea.Model
func (m *shareModel) View() string {
	var content strings.Builder

	content.WriteString(m.renderHeader())
	content.WriteString("\n\n")

	// Link field
	fieldBorder := darkGray
	if m.focus == focusLink {
		fieldBorder = primaryBlue
	}
	fieldStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fieldBorder).
		Padding(0, 1)
	content.WriteString(fieldStyle.Render(m.link.View()))
	content.WriteString("\n")

	content.WriteString(m.renderButton())
	content.WriteString("\n")

	if line := m.renderStatus(); line != "" {
		content.WriteString("\n")
		content.WriteString(line)
		content.WriteString("\n")
	}

	// Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(footerGray).
		Padding(1, 1).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(darkGray)

	copyKeys := lipgloss.NewStyle().Foreground(primaryGreen).Render("[Enter/ctrl+y]")
	focusKeys := lipgloss.NewStyle().Foreground(primaryBlue).Render("[Tab]")
	quitKeys := lipgloss.NewStyle().Foreground(primaryRed).Render("[Esc]")

	footer := fmt.Sprintf("⌨️  %s Copy • %s Switch focus • %s Quit", copyKeys, focusKeys, quitKeys)
	content.WriteString(footerStyle.Render(footer))

	return content.String()
}

func (m *shareModel) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryBlue).
		Padding(0, 1)

	if m.trip == nil {
		return headerStyle.Render("🔗 Share link")
	}

	destination := lipgloss.NewStyle().Foreground(accentCyan).Render(m.trip.Destination)
	header := headerStyle.Render(fmt.Sprintf("🧳 %s • %s", m.trip.Title, destination))

	metaStyle := lipgloss.NewStyle().
		Foreground(secondaryGray).
		Padding(0, 1)
	meta := fmt.Sprintf("📅 %s → %s (%d days) • 💱 %s",
		m.trip.StartDate.Format(trip.DateLayout),
		m.trip.EndDate.Format(trip.DateLayout),
		m.trip.Days(),
		m.trip.Currency)

	return header + "\n" + metaStyle.Render(meta)
}

func (m *shareModel) renderButton() string {
	style := lipgloss.NewStyle().
		Padding(0, 2).
		MarginLeft(1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(darkGray)

	if m.focus == focusButton {
		style = style.
			Background(selectedBg).
			Foreground(selectedFg).
			Bold(true).
			BorderForeground(selectedBg)
	}

	return style.Render("Copy link")
}

func (m *shareModel) renderStatus() string {
	base := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		MarginLeft(1).
		MaxWidth(config.StatusMaxWidth).
		Border(lipgloss.RoundedBorder())

	switch m.statusState {
	case share.StateShowingSuccess:
		return base.Foreground(primaryGreen).BorderForeground(primaryGreen).
			Render("✓ " + m.statusText)
	case share.StateShowingFailure:
		return base.Foreground(primaryRed).BorderForeground(primaryRed).
			Render("✗ " + m.statusText)
	}

	if m.control.Copying() > 0 {
		return lipgloss.NewStyle().Foreground(primaryYellow).Padding(0, 2).Render("⏳ Copying...")
	}
	return ""
}
