package ui

// selectors.go provides a generic table selector model and the stored
// report picker built on it.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/psiview/internal/models"
)

// SelectorConfig defines configuration for a generic selector.
type SelectorConfig struct {
	Title    string       // Main title displayed at top
	Subtitle string       // Optional subtitle (e.g., "5 items available")
	HelpText string       // Help text for footer
	Columns  []ColumnSpec // Defaults to a single column titled Title
	Rows     []table.Row
	Values   []string // Value returned for each row
}

// SelectorModel is a generic table selector.
type SelectorModel struct {
	table    table.Model
	config   SelectorConfig
	layout   Layout
	selected int // Index of selected item, -1 if cancelled
	quitting bool
}

// NewSelectorModel creates a generic selector with the given configuration.
func NewSelectorModel(cfg SelectorConfig) SelectorModel {
	layout := DefaultLayout()

	if len(cfg.Columns) == 0 {
		cfg.Columns = SingleColumnSpec(cfg.Title)
	}
	if cfg.HelpText == "" {
		cfg.HelpText = "↑/↓: navigate | Enter: select | q/Esc: cancel"
	}

	return SelectorModel{
		table:    InitTable(CalculateColumns(cfg.Columns, layout.TableWidth), cfg.Rows, layout.TableHeight),
		config:   cfg,
		layout:   layout,
		selected: -1,
	}
}

func (m SelectorModel) Init() tea.Cmd {
	return StandardInit()
}

func (m SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.table.SetColumns(CalculateColumns(m.config.Columns, m.layout.TableWidth))
		m.table.SetHeight(m.layout.TableHeight)
		return m, nil

	case tea.KeyMsg:
		if quit, cmd := HandleQuitKeys(msg.String()); quit {
			m.selected = -1
			m.quitting = true
			return m, cmd
		}
		if msg.String() == "enter" && len(m.config.Rows) > 0 {
			m.selected = m.table.Cursor()
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SelectorModel) View() string {
	if m.quitting {
		return ""
	}

	var content strings.Builder
	if m.config.Subtitle != "" {
		content.WriteString(ViewHeaderWithSubtitle(m.config.Title, m.config.Subtitle, m.layout.InnerWidth))
	} else {
		content.WriteString(ViewHeader(m.config.Title, m.layout.InnerWidth))
	}
	content.WriteString(RenderTableWithSelection(m.table, m.layout))

	return TwoBoxView(content.String(), m.config.HelpText, m.layout)
}

// Selected returns the index of the selected item, or -1 if cancelled.
func (m SelectorModel) Selected() int {
	return m.selected
}

// SelectedValue returns the value of the selected item, or "" if cancelled.
func (m SelectorModel) SelectedValue() string {
	if m.selected < 0 || m.selected >= len(m.config.Values) {
		return ""
	}
	return m.config.Values[m.selected]
}

// RunSelectorWithValue runs a selector TUI and returns the selected value.
// Returns empty string if the user cancelled.
func RunSelectorWithValue(cfg SelectorConfig) (string, error) {
	p := tea.NewProgram(NewSelectorModel(cfg), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("selector error: %w", err)
	}
	return finalModel.(SelectorModel).SelectedValue(), nil
}

// ReportSelectorConfig lists stored reports, newest first
func ReportSelectorConfig(reports []models.ReportInfo) SelectorConfig {
	cfg := SelectorConfig{
		Title:    "Select Report",
		Subtitle: fmt.Sprintf("%d stored reports", len(reports)),
		Columns:  ReportListColumns(),
	}
	for i := len(reports) - 1; i >= 0; i-- {
		r := reports[i]
		cfg.Rows = append(cfg.Rows, table.Row{r.Name, fmt.Sprint(r.RecordCount), formatImported(r), r.Source})
		cfg.Values = append(cfg.Values, r.Name)
	}
	return cfg
}

// RunReportSelector lets the user pick a stored report by name.
// Returns "" if the user cancelled.
func RunReportSelector(reports []models.ReportInfo) (string, error) {
	return RunSelectorWithValue(ReportSelectorConfig(reports))
}
