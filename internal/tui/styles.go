// Package tui es la interfaz de terminal del cliente: una pestaña por tipo de registro sobre los controladores de page.
package tui

import (
	"livestock-records/internal/client/page"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Paleta.
var (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorError   = lipgloss.Color("#EF4444")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorActive  = lipgloss.Color("#3B82F6")
	ColorBorder  = lipgloss.Color("#4B5563")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleTab = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

	StyleActiveTab = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(ColorActive).
			Underline(true)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	StyleCell = lipgloss.NewStyle().
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(ColorActive)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleLabel = lipgloss.NewStyle().
			Width(16).
			Foreground(ColorMuted)

	StyleFocused = lipgloss.NewStyle().
			Foreground(ColorActive)

	StyleFormBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)
)

// Table dibuja filas con bordes redondeados. selected < 0 no resalta ninguna fila.
func Table(headers []string, rows [][]string, selected int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleHeader
			case row == selected:
				return StyleSelected
			default:
				return StyleCell
			}
		}).
		String()
}

// BannerView pinta el banner transitorio de una página.
func BannerView(b page.Banner) string {
	if b.Kind == page.BannerError {
		return StyleError.Render("✗ " + b.Text)
	}
	return StyleSuccess.Render("✓ " + b.Text)
}

// HelpBar arma la línea de atajos.
func HelpBar(pairs ...string) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		if out != "" {
			out += "  "
		}
		out += StyleHelpKey.Render(pairs[i]) + " " + StyleSubtitle.Render(pairs[i+1])
	}
	return StyleHelp.Render(out)
}
