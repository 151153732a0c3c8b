package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the startup banner.
type HeaderInfo struct {
	Name    string // Application name
	Version string // Version string (e.g., "v0.4.0")
	Tagline string // Optional tagline
}

// HeaderWidth is the default width of the banner divider
const HeaderWidth = 50

// RenderHeader renders the banner shown when the interactive prompt starts.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var out strings.Builder
	out.WriteString(titleStyle.Render(info.Name))
	if info.Version != "" {
		out.WriteString(" ")
		out.WriteString(versionStyle.Render(info.Version))
	}
	out.WriteString("\n")

	if info.Tagline != "" {
		out.WriteString(MutedStyle().Render(info.Tagline))
		out.WriteString("\n")
	}

	out.WriteString(dividerStyle.Render(strings.Repeat("─", HeaderWidth)))
	return out.String()
}
