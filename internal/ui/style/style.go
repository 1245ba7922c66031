// Package style holds the colors and icons shared by the logger and the console renderer.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Arrow   = "→"
	Dot     = "●"
)
