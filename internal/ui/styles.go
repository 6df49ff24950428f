package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 100
	MaxViewportWidth  = 160
	DefaultWidth      = 110 // Used when terminal size is unknown
	MinViewportHeight = 24
	DefaultHeight     = 32
	MinTableHeight    = 5

	// Rows taken by everything around the browser table: title, divider,
	// tabs, filter line, search line, footer, page controls, help box.
	browserChrome = 16
	// Tabbed tables have no filter/search/footer lines
	tabbedChrome = 11
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // terminal height, floored at MinViewportHeight
	InnerWidth     int // width of content inside the border box
	TableWidth     int // sum of column widths available to tables
	TableHeight    int // visible data rows in the browser table
}

// NewLayout creates a Layout from the terminal size, clamping to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	height := terminalHeight
	if height < MinViewportHeight {
		height = MinViewportHeight
	}

	tableHeight := height - browserChrome
	if tableHeight < MinTableHeight {
		tableHeight = MinTableHeight
	}

	return Layout{
		ViewportWidth:  width,
		ViewportHeight: height,
		InnerWidth:     width - 2, // minus border chars
		TableWidth:     width - 4, // minus border + cell padding
		TableHeight:    tableHeight,
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// TabbedTableHeight is the table height for views with a tab indicator
func (l Layout) TabbedTableHeight() int {
	h := l.ViewportHeight - tabbedChrome
	if h < MinTableHeight {
		return MinTableHeight
	}
	return h
}

// MainBoxHeight is the content height of the upper box in the two-box layout
func (l Layout) MainBoxHeight() int {
	// help box is 3 rows, main box border is 2
	return l.ViewportHeight - 5
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorAccentDim = lipgloss.Color("220") // yellow
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorGood      = lipgloss.Color("82")  // green
)

// Common styles - reusable style definitions
var (
	// Border style for the main box. Use .Width(layout.InnerWidth) with no
	// padding so content widths stay exact.
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Help box under the main box
	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ProgressStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim)

	// Transient status and error messages
	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true).
			Padding(0, 2)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Padding(0, 2)

	// Arrow style for pagination
	ArrowStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	// Score grades
	ScoreGoodStyle    = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	ScoreAverageStyle = lipgloss.NewStyle().Foreground(ColorAccentDim).Bold(true)
	ScorePoorStyle    = lipgloss.NewStyle().Foreground(ColorBorder).Bold(true)
)

// ScoreStyle picks the grade style for a 0-100 score
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 90:
		return ScoreGoodStyle
	case score >= 50:
		return ScoreAverageStyle
	default:
		return ScorePoorStyle
	}
}

// Render helpers

func RenderTitle(s string) string  { return TitleStyle.Render(s) }
func RenderDim(s string) string    { return DimStyle.Render(s) }
func RenderNormal(s string) string { return NormalStyle.Render(s) }

func RenderTabActive(s string) string   { return TabActiveStyle.Render(s) }
func RenderTabInactive(s string) string { return TabInactiveStyle.Render(s) }

// ApplyTableStyles sets header and cell styles on a bubbles table. The
// Selected style is neutral; RenderTableWithSelection draws the highlight.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderBottom(false).
		Bold(true).
		Foreground(ColorText)
	s.Cell = s.Cell.Foreground(ColorText)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
}

// NewAppSpinner returns the app's white dot spinner
func NewAppSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(NormalStyle),
	)
}

// PadContentToHeight pads content with blank lines up to height rows
func PadContentToHeight(content string, height int) string {
	lines := strings.Count(content, "\n") + 1
	if lines >= height {
		return content
	}
	return content + strings.Repeat("\n", height-lines)
}

// BuildTwoBoxView renders content in the red main box and helpText centered
// in a one-row box beneath it.
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(PadContentToHeight(content, layout.MainBoxHeight()))

	help := HelpBoxStyle.
		Width(layout.InnerWidth).
		Render(CenterTextPadded(HintStyle.Render(helpText), layout.InnerWidth))

	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

// StringWidth is the printable width of s, ignoring ANSI sequences
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

func stripEscapeCodes(s string) string {
	return ansi.Strip(s)
}

func truncateToWidth(s string, width int) string {
	return ansi.Truncate(s, width, "")
}

// NewAppTheme creates a huh theme matching the app's style guide
// White text, red highlights/selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	// Selected option - red background, white text
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
