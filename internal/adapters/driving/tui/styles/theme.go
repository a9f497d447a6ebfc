// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Theme is the palette the styles are built from. Colours adapt to light
// and dark terminal backgrounds.
type Theme struct {
	Primary    lipgloss.AdaptiveColor
	Secondary  lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Success    lipgloss.AdaptiveColor
	Warning    lipgloss.AdaptiveColor
	Error      lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor
	Bar        lipgloss.AdaptiveColor

	// Badges colours the record type label on each result.
	Badges map[domain.RecordType]lipgloss.AdaptiveColor
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// DefaultTheme returns the Catppuccin-derived default palette: Mocha on
// dark backgrounds, Latte on light ones.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    adaptive("#8839EF", "#CBA6F7"),
		Secondary:  adaptive("#04A5E5", "#89DCEB"),
		Foreground: adaptive("#4C4F69", "#CDD6F4"),
		Muted:      adaptive("#8C8FA1", "#6C7086"),
		Success:    adaptive("#40A02B", "#A6E3A1"),
		Warning:    adaptive("#DF8E1D", "#F9E2AF"),
		Error:      adaptive("#D20F39", "#F38BA8"),
		Border:     adaptive("#BCC0CC", "#45475A"),
		Bar:        adaptive("#E6E9EF", "#181825"),
		Badges: map[domain.RecordType]lipgloss.AdaptiveColor{
			domain.RecordTypeDocument:      adaptive("#1E66F5", "#89B4FA"),
			domain.RecordTypeMessage:       adaptive("#179299", "#94E2D5"),
			domain.RecordTypeBillingRecord: adaptive("#DF8E1D", "#F9E2AF"),
			domain.RecordTypeTranscript:    adaptive("#8839EF", "#CBA6F7"),
			domain.RecordTypeWorkItem:      adaptive("#FE640B", "#FAB387"),
			domain.RecordTypeContact:       adaptive("#40A02B", "#A6E3A1"),
		},
	}
}

// Styles are the lipgloss styles every component renders with.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
	Score      lipgloss.Style

	// Badge is the base of TypeBadge; the background comes from the theme.
	Badge lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	rounded := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	return &Styles{
		theme:      theme,
		Title:      fg(theme.Primary).Bold(true),
		Subtitle:   fg(theme.Secondary).Bold(true),
		Normal:     fg(theme.Foreground),
		Muted:      fg(theme.Muted),
		Selected:   fg(theme.Bar).Background(theme.Primary).Bold(true),
		Error:      fg(theme.Error),
		Success:    fg(theme.Success),
		Warning:    fg(theme.Warning),
		InputField: rounded.Padding(0, 1),
		StatusBar:  fg(theme.Muted).Background(theme.Bar).Padding(0, 1),
		Help:       fg(theme.Muted),
		Border:     rounded,
		Score:      fg(theme.Success),
		Badge:      fg(theme.Bar).Bold(true).Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

var badgeLabels = map[domain.RecordType]string{
	domain.RecordTypeDocument:      "DOC",
	domain.RecordTypeMessage:       "MSG",
	domain.RecordTypeBillingRecord: "BILL",
	domain.RecordTypeTranscript:    "REC",
	domain.RecordTypeWorkItem:      "TASK",
	domain.RecordTypeContact:       "CONTACT",
}

// BadgeLabel returns the short label shown for a record type, or "?" for
// a type the TUI does not know.
func BadgeLabel(t domain.RecordType) string {
	if label, ok := badgeLabels[t]; ok {
		return label
	}
	return "?"
}

// TypeBadge renders the label of a record type on its badge colour.
func (s *Styles) TypeBadge(t domain.RecordType) string {
	colour, ok := s.theme.Badges[t]
	if !ok {
		colour = s.theme.Muted
	}
	return s.Badge.Background(colour).Render(BadgeLabel(t))
}
