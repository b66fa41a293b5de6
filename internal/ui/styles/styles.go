// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#CCCCCC"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#696969"} // Hints, help text, footers
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"} // Description/body text

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	HighlightColor     = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focus, cursor, active elements

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#8C8C8C"}

	ButtonTextColor             = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonSecondaryBgColor      = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#2D3436"}
	ButtonSecondaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#636E72"}
	ButtonDangerBgColor         = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}
	ButtonDangerFocusBgColor    = lipgloss.AdaptiveColor{Light: "#E74C3C", Dark: "#E74C3C"}
)

// Styles rebuilt by ApplyTheme.
var (
	CardStyle        lipgloss.Style
	CardFocusedStyle lipgloss.Style
	CardTitleStyle   lipgloss.Style
	DescriptionStyle lipgloss.Style
	MutedStyle       lipgloss.Style
	AvatarStyle      lipgloss.Style
	DeleteStyle      lipgloss.Style
	DeleteFocusStyle lipgloss.Style
	SuccessStyle     lipgloss.Style
	ErrorStyle       lipgloss.Style
	StatusBarStyle   lipgloss.Style
	FieldStyle       lipgloss.Style
	FieldFocusStyle  lipgloss.Style

	SecondaryButtonStyle        lipgloss.Style
	SecondaryButtonFocusedStyle lipgloss.Style
	DangerButtonStyle           lipgloss.Style
	DangerButtonFocusedStyle    lipgloss.Style
)

func init() {
	rebuild()
}

// ApplyTheme applies custom theme colors from configuration.
// Empty strings are ignored, keeping the default values.
func ApplyTheme(highlight, subtle, errorColor, success string) {
	if highlight != "" {
		HighlightColor = lipgloss.AdaptiveColor{Light: highlight, Dark: highlight}
	}
	if subtle != "" {
		TextMutedColor = lipgloss.AdaptiveColor{Light: subtle, Dark: subtle}
		BorderDefaultColor = lipgloss.AdaptiveColor{Light: subtle, Dark: subtle}
	}
	if errorColor != "" {
		StatusErrorColor = lipgloss.AdaptiveColor{Light: errorColor, Dark: errorColor}
	}
	if success != "" {
		StatusSuccessColor = lipgloss.AdaptiveColor{Light: success, Dark: success}
	}
	rebuild()
}

func rebuild() {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDefaultColor).
		Padding(0, 1)
	CardFocusedStyle = CardStyle.BorderForeground(HighlightColor)
	CardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	DescriptionStyle = lipgloss.NewStyle().Foreground(TextDescriptionColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	AvatarStyle = lipgloss.NewStyle().Bold(true).Foreground(HighlightColor)
	DeleteStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	DeleteFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(StatusErrorColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Padding(0, 1)
	FieldStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDefaultColor).
		Padding(0, 1)
	FieldFocusStyle = FieldStyle.BorderForeground(HighlightColor)

	base := lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)
	SecondaryButtonStyle = base.Background(ButtonSecondaryBgColor)
	SecondaryButtonFocusedStyle = base.Background(ButtonSecondaryFocusBgColor).Underline(true).UnderlineSpaces(true)
	DangerButtonStyle = base.Background(ButtonDangerBgColor)
	DangerButtonFocusedStyle = base.Background(ButtonDangerFocusBgColor).Underline(true).UnderlineSpaces(true)
}
