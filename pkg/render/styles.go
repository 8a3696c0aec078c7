package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	salmonPink = lipgloss.Color("#FFB3BA")
	coralPink  = lipgloss.Color("#FFCCCB")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")
)

// styles are bound to one lipgloss renderer so color can be switched off
// per output.
type styles struct {
	header  lipgloss.Style
	muted   lipgloss.Style
	name    lipgloss.Style
	label   lipgloss.Style
	current lipgloss.Style
	warning lipgloss.Style
	rule    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:  r.NewStyle().Foreground(salmonPink).Bold(true),
		muted:   r.NewStyle().Foreground(mutedGray),
		name:    r.NewStyle().Foreground(coralPink).Bold(true),
		label:   r.NewStyle().Foreground(mintGreen),
		current: r.NewStyle().Foreground(mintGreen).Bold(true),
		warning: r.NewStyle().Foreground(salmonPink),
		rule:    r.NewStyle().Foreground(mutedGray),
	}
}
