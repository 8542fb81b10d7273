package tui

import "github.com/charmbracelet/lipgloss"

// One Dark Pro color palette
var (
	// Background colors
	ColorBgHighlight = lipgloss.Color("#2C313C")

	// Foreground colors
	ColorFgPrimary = lipgloss.Color("#ABB2BF")
	ColorFgMuted   = lipgloss.Color("#636B78")
	ColorFgComment = lipgloss.Color("#5C6370")

	// Syntax colors
	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorCyan    = lipgloss.Color("#56B6C2")
	ColorOrange  = lipgloss.Color("#D19A66")

	// UI colors
	ColorBorder = lipgloss.Color("#3F4451")
)

// Component styles
var (
	// Header style
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true).
			PaddingLeft(1)

	// Role badge next to the header
	RoleBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	// Tab bar styles
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Padding(0, 2)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Background(ColorBgHighlight).
			Bold(true).
			Padding(0, 2)

	// Workflow card styles
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	// Form field styles
	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	FieldFocusedLabelStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	SelectorStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	// List rendering
	ListItemStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	ListSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Background(ColorBgHighlight).
				Bold(true)

	ListMetaStyle = lipgloss.NewStyle().
			Foreground(ColorFgComment)

	// Answer / context blocks
	AnswerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorBlue).
			PaddingLeft(1)

	ContextStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorFgComment).
			PaddingLeft(1).
			Foreground(ColorFgComment)

	// Chart rendering
	ChartBarStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	ChartLabelStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1).
			PaddingRight(1)

	// Confirmation overlay
	ConfirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorRed).
			Padding(1, 2)

	// Event log panel
	EventLogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorYellow).
			Padding(0, 1)

	EventLogTitleStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	// Message styles
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	// Dimmed/help style for hints
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgComment)

	// Help overlay styles
	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)
)
