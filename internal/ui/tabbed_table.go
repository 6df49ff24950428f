package ui

// tabbed_table.go provides a generic multi-page tabbed table viewer with
// Tab/←/→ switching. The record detail view is built on it (detail.go).

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Configuration Types
// =============================================================================

// TabbedTablePage defines a single page/tab of data.
type TabbedTablePage struct {
	Name     string       // Tab label (e.g., "Scores", "Metrics")
	Columns  []ColumnSpec // Column specifications (use columns.go helpers)
	Rows     []table.Row  // Row data
	HelpText string       // Optional per-page help text (overrides default)
}

// TabbedTableConfig defines the complete configuration for a tabbed table.
type TabbedTableConfig struct {
	Title    string            // Main title
	Subtitle string            // Optional subtitle
	Pages    []TabbedTablePage // Pages to display (at least 1 required)
	HelpText string            // Default footer help text (pages can override)
	// Embedded models close instead of quitting the program, so a parent
	// model can show them as an overlay.
	Embedded bool
}

// =============================================================================
// TabbedTableModel - The Bubble Tea Model
// =============================================================================

// TabbedTableModel is a generic multi-page table viewer.
// Embed configuration, manage per-page tables, handle tab switching.
type TabbedTableModel struct {
	config      TabbedTableConfig
	tables      []table.Model // One table per page
	currentPage int
	layout      Layout
	quitting    bool
}

// NewTabbedTableModelWithLayout creates a tabbed table sized for layout.
func NewTabbedTableModelWithLayout(cfg TabbedTableConfig, layout Layout) TabbedTableModel {
	// Validate config
	if len(cfg.Pages) == 0 {
		// Add a placeholder page to prevent crashes
		cfg.Pages = []TabbedTablePage{{
			Name:    "Empty",
			Columns: []ColumnSpec{{Title: "No Data", FlexRatio: 100}},
			Rows:    []table.Row{{"No pages configured"}},
		}}
	}

	// Default help text
	if cfg.HelpText == "" {
		if len(cfg.Pages) > 1 {
			cfg.HelpText = "↑/↓: scroll | Tab/←/→: switch page | q/Esc: back"
		} else {
			cfg.HelpText = "↑/↓: scroll | q/Esc: back"
		}
	}

	// Create a table for each page
	tables := make([]table.Model, len(cfg.Pages))
	for i, page := range cfg.Pages {
		// Calculate columns for this page
		columns := CalculateColumns(page.Columns, layout.TableWidth)

		// Create table with standard initialization
		t := table.New(
			table.WithColumns(columns),
			table.WithRows(page.Rows),
			table.WithFocused(i == 0), // Only first page is focused initially
			table.WithHeight(layout.TabbedTableHeight()),
		)
		ApplyTableStyles(&t)
		t.GotoTop()
		tables[i] = t
	}

	return TabbedTableModel{
		config:      cfg,
		tables:      tables,
		currentPage: 0,
		layout:      layout,
	}
}

// =============================================================================
// Bubble Tea Interface
// =============================================================================

func (m TabbedTableModel) Init() tea.Cmd {
	return StandardInit()
}

func (m TabbedTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.updateAllTableSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Let the current table handle other messages (scroll, etc.)
	var cmd tea.Cmd
	if m.currentPage >= 0 && m.currentPage < len(m.tables) {
		m.tables[m.currentPage], cmd = m.tables[m.currentPage].Update(msg)
	}
	return m, cmd
}

func (m TabbedTableModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "esc":
		m.quitting = true
		if m.config.Embedded {
			return m, nil
		}
		return m, tea.Quit

	case "tab", "right", "l":
		// Switch to next page
		if len(m.config.Pages) > 1 {
			m.switchPage((m.currentPage + 1) % len(m.config.Pages))
		}
		return m, nil

	case "left", "h":
		// Switch to previous page (only if multiple pages)
		if len(m.config.Pages) > 1 {
			m.switchPage((m.currentPage + len(m.config.Pages) - 1) % len(m.config.Pages))
		}
		return m, nil

	case "up", "k":
		m.tables[m.currentPage].MoveUp(1)
		return m, nil

	case "down", "j":
		m.tables[m.currentPage].MoveDown(1)
		return m, nil

	case "home", "g":
		m.tables[m.currentPage].GotoTop()
		return m, nil

	case "end", "G":
		m.tables[m.currentPage].GotoBottom()
		return m, nil

	case "pgup", "ctrl+u":
		// Move up by half page
		height := m.tables[m.currentPage].Height()
		for i := 0; i < height/2; i++ {
			m.tables[m.currentPage].MoveUp(1)
		}
		return m, nil

	case "pgdown", "ctrl+d":
		// Move down by half page
		height := m.tables[m.currentPage].Height()
		for i := 0; i < height/2; i++ {
			m.tables[m.currentPage].MoveDown(1)
		}
		return m, nil
	}

	return m, nil
}

func (m *TabbedTableModel) switchPage(newPage int) {
	if newPage < 0 || newPage >= len(m.config.Pages) {
		return
	}

	// Blur old table, focus new
	m.tables[m.currentPage].Blur()
	m.currentPage = newPage
	m.tables[m.currentPage].Focus()
	m.tables[m.currentPage].GotoTop()
}

func (m *TabbedTableModel) updateAllTableSizes() {
	for i, page := range m.config.Pages {
		columns := CalculateColumns(page.Columns, m.layout.TableWidth)
		m.tables[i].SetColumns(columns)
		m.tables[i].SetHeight(m.layout.TabbedTableHeight())
	}
}

// Resize applies a new layout to every page.
func (m *TabbedTableModel) Resize(layout Layout) {
	m.layout = layout
	m.updateAllTableSizes()
}

// Done reports whether the viewer was closed.
func (m TabbedTableModel) Done() bool {
	return m.quitting
}

// CurrentPage returns the index of the active page.
func (m TabbedTableModel) CurrentPage() int {
	return m.currentPage
}

// =============================================================================
// View Rendering
// =============================================================================

func (m TabbedTableModel) View() string {
	if m.quitting {
		return ""
	}

	var content strings.Builder

	// Title
	content.WriteString(RenderTitle(m.config.Title))
	content.WriteString("\n")

	// Tab indicator (only if multiple pages)
	if len(m.config.Pages) > 1 {
		content.WriteString(m.renderTabIndicator())
		content.WriteString("\n")
	}

	// Divider
	content.WriteString(strings.Repeat("─", m.layout.InnerWidth))
	content.WriteString("\n\n")

	// Subtitle if present
	if m.config.Subtitle != "" {
		content.WriteString(RenderDim(m.config.Subtitle))
		content.WriteString("\n\n")
	}

	// Table with full-width selection
	content.WriteString(RenderTableWithSelection(m.tables[m.currentPage], m.layout))

	// Get help text (page-specific or default)
	currentPage := m.config.Pages[m.currentPage]
	helpText := currentPage.HelpText
	if helpText == "" {
		helpText = m.config.HelpText
	}

	// Use TwoBoxView for consistent layout
	return TwoBoxView(content.String(), helpText, m.layout)
}

func (m TabbedTableModel) renderTabIndicator() string {
	var parts []string
	for i, page := range m.config.Pages {
		if i == m.currentPage {
			parts = append(parts, RenderTabActive(page.Name))
		} else {
			parts = append(parts, RenderTabInactive(page.Name))
		}
	}
	indicator := strings.Join(parts, " ")

	// Add navigation hint
	if len(m.config.Pages) > 1 {
		indicator += "  " + RenderDim("(Tab/←/→)")
	}

	return indicator
}

// =============================================================================
// Builder Helpers - Fluent API for common patterns
// =============================================================================

// TabbedTableBuilder provides a fluent API for building TabbedTableConfig.
type TabbedTableBuilder struct {
	config TabbedTableConfig
}

// NewTabbedTable starts building a new tabbed table configuration.
func NewTabbedTable(title string) *TabbedTableBuilder {
	return &TabbedTableBuilder{
		config: TabbedTableConfig{
			Title: title,
			Pages: []TabbedTablePage{},
		},
	}
}

// WithSubtitle sets the subtitle.
func (b *TabbedTableBuilder) WithSubtitle(subtitle string) *TabbedTableBuilder {
	b.config.Subtitle = subtitle
	return b
}

// WithHelpText sets the default help text.
func (b *TabbedTableBuilder) WithHelpText(helpText string) *TabbedTableBuilder {
	b.config.HelpText = helpText
	return b
}

// Embedded makes the viewer close instead of quitting the program.
func (b *TabbedTableBuilder) Embedded() *TabbedTableBuilder {
	b.config.Embedded = true
	return b
}

// AddPage adds a scrollable page.
func (b *TabbedTableBuilder) AddPage(name string, columns []ColumnSpec, rows []table.Row) *TabbedTableBuilder {
	b.config.Pages = append(b.config.Pages, TabbedTablePage{
		Name:    name,
		Columns: columns,
		Rows:    rows,
	})
	return b
}

// Build returns the completed configuration.
func (b *TabbedTableBuilder) Build() TabbedTableConfig {
	return b.config
}
