package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
)

// TitleStyle for screen headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1).
	MarginBottom(1)

// ChoiceStyle frames one side of a question.
var ChoiceStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 3).
	Width(30).
	Align(lipgloss.Center)

// ChoiceKey labels the key that picks a choice.
var ChoiceKey = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Align(lipgloss.Center).
	Width(36)

// ProgressText for "Question k of up to N".
var ProgressText = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// RankNumber style for the "#1" column of the results list.
var RankNumber = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true).
	Width(5)

// SelectedItem style for the results row under the cursor.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for other result rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// PickedItem marks rows chosen for an explanation.
var PickedItem = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true).
	Padding(0, 1)

// ExplainPanel frames the justification chain.
var ExplainPanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1).
	MarginTop(1)

// TokenStyle for the share link.
var TokenStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// NoticeStyle for transient confirmations.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section titles inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
