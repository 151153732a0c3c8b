package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Command completed
	SymbolFail    = "✗" // Command failed
	SymbolWarning = "⚠" // Recoverable problem
	SymbolPending = "○" // Queued behind the running command
	SymbolCancel  = "⊘" // Command cancelled
	SymbolPrompt  = "❯" // Default prompt marker
)
