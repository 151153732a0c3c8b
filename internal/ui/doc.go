// Package ui holds the terminal styling shared by help rendering and the
// interactive prompt: a small ANSI palette, status symbols, lipgloss style
// constructors, display-width aware column layout, and the startup banner.
//
// Use DisableColors() for --no-color; the styles then render plain text.
package ui
