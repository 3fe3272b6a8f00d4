// Package style holds the color palette and status icons the bnss CLI uses
// for its log and progress lines.
package style

import "github.com/charmbracelet/lipgloss"

// Palette. Muted tones so the icons carry the signal.
var (
	Slate  = lipgloss.Color("#6B7280")
	Green  = lipgloss.Color("#15803D")
	Red    = lipgloss.Color("#B91C1C")
	Yellow = lipgloss.Color("#CA8A04")
)

// Status icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
)
