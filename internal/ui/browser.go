package ui

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/psiview/internal/models"
	"github.com/thesavant42/psiview/internal/view"
)

const statusDuration = 5 * time.Second

// BrowserConfig configures the result browser
type BrowserConfig struct {
	Title          string
	PageSize       int
	SearchDebounce time.Duration
	ExportDir      string // directory for e/m/x exports, "" = working directory
	Logger         *log.Logger
}

type browserMode int

const (
	browserModeTable  browserMode = iota // Navigating the result table
	browserModeSearch                    // Typing in the search box
	browserModeDetail                    // Tabbed detail view for one record
)

// searchSettledMsg fires after the debounce window of a search edit
type searchSettledMsg struct {
	token uint64
}

// BrowserModel is the TUI for browsing a result set. All filtering, sorting
// and paging goes through the view controller; the model only renders the
// derived view.
type BrowserModel struct {
	PageState

	controller *view.Controller
	logger     *log.Logger
	config     BrowserConfig

	table   table.Model
	search  textinput.Model
	derived view.DerivedView

	mode   browserMode
	detail TabbedTableModel
	// ID of the record shown in the detail view
	detailID string

	openURL func(string) error
}

// NewBrowserModel creates a browser over records
func NewBrowserModel(records []models.Record, cfg BrowserConfig) BrowserModel {
	if cfg.PageSize <= 0 {
		cfg.PageSize = models.DefaultPageSize
	}
	if cfg.Title == "" {
		cfg.Title = "PageSpeed Results"
	}

	ti := textinput.New()
	ti.Placeholder = "Search URLs and results (/ or ctrl+k)"
	ti.CharLimit = 200
	ti.Prompt = "Search: "
	ti.TextStyle = NormalStyle
	ti.PromptStyle = NormalStyle

	layout := DefaultLayout()
	controller := view.NewController(view.NewStore(records), cfg.PageSize, cfg.Logger)

	m := BrowserModel{
		PageState:  NewPageState(layout),
		controller: controller,
		logger:     cfg.Logger,
		config:     cfg,
		table:      InitTable(CalculateColumns(ResultColumns(), layout.TableWidth), nil, layout.TableHeight),
		search:     ti,
		derived:    controller.View(),
		openURL:    openURL,
	}
	m.search.Width = layout.InnerWidth - 12
	m.refreshTable()
	return m
}

// Init implements tea.Model
func (m BrowserModel) Init() tea.Cmd {
	return StandardInit()
}

// Update implements tea.Model
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			m.table.SetColumns(CalculateColumns(ResultColumns(), m.Layout.TableWidth))
			m.table.SetHeight(m.Layout.TableHeight)
			m.search.Width = m.Layout.InnerWidth - 12
			if m.mode == browserModeDetail {
				m.detail.Resize(m.Layout)
			}
		}
		return m, nil

	case searchSettledMsg:
		if derived, ok := m.controller.ApplySearch(msg.token); ok {
			m.setDerived(derived)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case browserModeSearch:
			return m.handleSearchKeys(msg)
		case browserModeDetail:
			return m.handleDetailKeys(msg)
		default:
			return m.handleTableKeys(msg)
		}
	}

	if m.mode == browserModeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BrowserModel) handleTableKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if quit, cmd := HandleQuitKeysNoEsc(key); quit {
		m.Quitting = true
		return m, cmd
	}

	switch key {
	case "esc":
		// Esc clears an active search before it quits
		if m.controller.Params().SearchText != "" {
			m.search.SetValue("")
			m.setDerived(m.controller.ClearSearch())
			return m, nil
		}
		m.Quitting = true
		return m, tea.Quit

	case "/", "ctrl+k":
		m.mode = browserModeSearch
		m.table.Blur()
		return m, m.search.Focus()

	case "tab":
		next := cycle(models.StrategyFilters, m.controller.Params().StrategyFilter, 1)
		m.setDerived(m.controller.SetStrategy(next))
	case "shift+tab":
		prev := cycle(models.StrategyFilters, m.controller.Params().StrategyFilter, -1)
		m.setDerived(m.controller.SetStrategy(prev))

	case "p":
		next := cycle(models.PerformanceBuckets, m.controller.Params().PerformanceBucket, 1)
		m.setDerived(m.controller.SetPerformance(next))
	case "s":
		next := cycle(models.StatusFilters, m.controller.Params().StatusFilter, 1)
		m.setDerived(m.controller.SetStatus(next))

	case "u":
		m.setDerived(m.controller.ToggleSort(models.SortURL))
	case "f":
		m.setDerived(m.controller.ToggleSort(models.SortPerformance))
	case "a":
		m.setDerived(m.controller.ToggleSort(models.SortAccessibility))
	case "l":
		m.setDerived(m.controller.ToggleSort(models.SortLoadTime))

	case "right", "pgdown", "n":
		m.setDerived(m.controller.NextPage())
	case "left", "pgup", "b":
		m.setDerived(m.controller.PrevPage())
	case "home", "g":
		m.setDerived(m.controller.SetPage(0))
	case "end", "G":
		m.setDerived(m.controller.SetPage(m.derived.TotalPages - 1))

	case "r":
		m.search.SetValue("")
		m.setDerived(m.controller.Reset())
		m.SetStatus("Filters reset", statusDuration)

	case "enter", "v":
		if r, ok := m.selectedRecord(); ok {
			m.showDetail(r)
		}

	case "o":
		if r, ok := m.selectedRecord(); ok {
			m.open(r)
		}

	case "e":
		m.export(FormatCSV)
	case "m":
		m.export(FormatMarkdown)
	case "x":
		m.export(FormatHTML)

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m BrowserModel) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit

	case "esc":
		// Clearing bypasses the debounce
		m.search.SetValue("")
		m.leaveSearch()
		m.setDerived(m.controller.ClearSearch())
		return m, nil

	case "enter", "tab", "up", "down":
		// Leaving the box applies the pending edit immediately
		m.leaveSearch()
		m.setDerived(m.controller.FlushSearch())
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	after := m.search.Value()
	if after == before {
		return m, cmd
	}

	if m.config.SearchDebounce <= 0 {
		m.setDerived(m.controller.SetSearch(after))
		return m, cmd
	}

	token := m.controller.QueueSearch(after)
	settle := tea.Tick(m.config.SearchDebounce, func(time.Time) tea.Msg {
		return searchSettledMsg{token: token}
	})
	return m, tea.Batch(cmd, settle)
}

func (m BrowserModel) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "o":
		if r, ok := m.controller.Record(m.detailID); ok {
			m.open(r)
		}
		return m, nil
	}

	updated, cmd := m.detail.Update(msg)
	m.detail = updated.(TabbedTableModel)
	if m.detail.Done() {
		m.mode = browserModeTable
		m.detailID = ""
		m.table.Focus()
	}
	return m, cmd
}

func (m *BrowserModel) leaveSearch() {
	m.search.Blur()
	m.mode = browserModeTable
	m.table.Focus()
}

// setDerived stores a new derived view and rebuilds the table rows
func (m *BrowserModel) setDerived(d view.DerivedView) {
	m.derived = d
	m.refreshTable()
}

func (m *BrowserModel) refreshTable() {
	rows := make([]table.Row, len(m.derived.Visible))
	first := m.derived.Page.StartRow()
	for i, r := range m.derived.Visible {
		rows[i] = ResultRow(first+i, r)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m BrowserModel) selectedRecord() (models.Record, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.derived.Visible) {
		return models.Record{}, false
	}
	return m.controller.Record(m.derived.Visible[cursor].ID)
}

func (m *BrowserModel) showDetail(r models.Record) {
	m.detail = NewTabbedTableModelWithLayout(RecordDetailConfig(r), m.Layout)
	m.detailID = r.ID
	m.mode = browserModeDetail
	m.table.Blur()
}

func (m *BrowserModel) open(r models.Record) {
	target := r.FinalURL
	if target == "" {
		target = r.URL
	}
	if err := m.openURL(target); err != nil {
		m.SetStatus(fmt.Sprintf("Failed to open URL: %v", err), statusDuration)
		if m.logger != nil {
			m.logger.Error("Failed to open URL", "url", target, "error", err)
		}
		return
	}
	m.SetStatus("Opened "+target, statusDuration)
}

// export writes the whole filtered set, not just the visible page
func (m *BrowserModel) export(format ExportFormat) {
	path := filepath.Join(m.config.ExportDir, DefaultExportFilename(format))
	records := m.controller.Filtered()

	written, err := ExportToFile(path, format, m.config.Title, records)
	if err != nil {
		m.SetStatus(fmt.Sprintf("Export failed: %v", err), statusDuration)
		if m.logger != nil {
			m.logger.Error("Export failed", "format", format, "error", err)
		}
		return
	}
	m.SetStatus(fmt.Sprintf("Exported %d records to %s", len(records), written), statusDuration)
	if m.logger != nil {
		m.logger.Info("Exported results", "format", format, "records", len(records), "file", written)
	}
}

// View implements tea.Model
func (m BrowserModel) View() string {
	if m.Quitting {
		return ""
	}
	if m.mode == browserModeDetail {
		return m.detail.View()
	}

	var b strings.Builder
	b.WriteString(ViewHeader(m.config.Title, m.Layout.InnerWidth))
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n")
	b.WriteString(m.renderSearch())
	b.WriteString("\n\n")

	if m.derived.IsEmpty {
		b.WriteString(m.renderEmptyState())
	} else {
		b.WriteString(RenderTableWithSelection(m.table, m.Layout))
		b.WriteString("\n\n")
		b.WriteString(m.renderFooter())
	}

	if m.HasStatus() {
		b.WriteString("\n\n")
		b.WriteString(AccentStyle.Render(m.StatusMsg))
	}

	return TwoBoxView(b.String(), m.helpText(), m.Layout)
}

func (m BrowserModel) renderTabs() string {
	active := m.controller.Params().StrategyFilter
	var parts []string
	for _, tab := range models.StrategyFilters {
		label := fmt.Sprintf("%s (%d)", tabTitle(tab), m.derived.TabCounts[tab])
		if tab == active {
			parts = append(parts, RenderTabActive(label))
		} else {
			parts = append(parts, RenderTabInactive(label))
		}
	}
	return strings.Join(parts, " ") + "  " + RenderDim("(Tab/Shift+Tab)")
}

func (m BrowserModel) renderFilters() string {
	p := m.controller.Params()
	sort := string(p.SortKey)
	if p.SortKey != models.SortNone {
		arrow := "↑"
		if p.SortDirection == models.SortDesc {
			arrow = "↓"
		}
		sort += " " + arrow
	}

	filter := func(label, value, def string) string {
		if value == def {
			return RenderDim(label+": ") + RenderNormal(value)
		}
		return RenderDim(label+": ") + AccentStyle.Render(value)
	}

	return strings.Join([]string{
		filter("Performance [p]", string(p.PerformanceBucket), string(models.BucketAll)),
		filter("Status [s]", string(p.StatusFilter), string(models.StatusFilterAll)),
		filter("Sort", sort, string(models.SortNone)),
		StatsStyle.Render(m.derived.ResultsLabel()),
	}, RenderDim("  |  "))
}

func (m BrowserModel) renderSearch() string {
	line := m.search.View()
	summary := m.derived.SearchSummary()
	if m.controller.SearchPending() {
		summary += "…"
	}
	return line + "\n" + RenderDim(summary)
}

func (m BrowserModel) renderEmptyState() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(CenterText(AccentStyle.Render("No results match the current filters"), m.Layout.InnerWidth))
	b.WriteString("\n\n")
	b.WriteString(CenterText(RenderDim("Press r to reset filters or Esc to clear the search"), m.Layout.InnerWidth))
	b.WriteString("\n")
	return b.String()
}

func (m BrowserModel) renderFooter() string {
	page := m.derived.Page
	rangeText := fmt.Sprintf("Showing %d–%d of %d", page.StartRow(), page.EndRow(), page.Total)
	controls := renderPageControls(page.Controls, 9)
	gap := m.Layout.InnerWidth - StringWidth(rangeText) - StringWidth(controls)
	if gap < 2 {
		gap = 2
	}
	return RenderNormal(rangeText) + strings.Repeat(" ", gap) + controls
}

// renderPageControls renders ‹ 1 2 [3] 4 › showing at most window page
// numbers around the current page.
func renderPageControls(c view.PageControls, window int) string {
	arrow := func(s string, disabled bool) string {
		if disabled {
			return RenderDim(s)
		}
		return ArrowStyle.Render(s)
	}

	current := 0
	for i, p := range c.Pages {
		if p.Current {
			current = i
		}
	}
	start, end := 0, len(c.Pages)
	if window > 0 && len(c.Pages) > window {
		start = current - window/2
		if start < 0 {
			start = 0
		}
		end = start + window
		if end > len(c.Pages) {
			end = len(c.Pages)
			start = end - window
		}
	}

	parts := []string{arrow("‹", c.PrevDisabled)}
	if start > 0 {
		parts = append(parts, RenderDim("…"))
	}
	for _, p := range c.Pages[start:end] {
		if p.Current {
			parts = append(parts, SelectedStyle.Render(fmt.Sprintf(" %d ", p.Number)))
		} else {
			parts = append(parts, RenderNormal(fmt.Sprint(p.Number)))
		}
	}
	if end < len(c.Pages) {
		parts = append(parts, RenderDim("…"))
	}
	parts = append(parts, arrow("›", c.NextDisabled))
	return strings.Join(parts, " ")
}

func (m BrowserModel) helpText() string {
	if m.mode == browserModeSearch {
		return "type to filter | Enter: apply | Esc: clear"
	}
	return "←/→: page | /: search | p/s: filter | u/f/a/l: sort | Enter: detail | o: open | e/m/x: export | q: quit"
}

// Derived returns the view currently rendered
func (m BrowserModel) Derived() view.DerivedView {
	return m.derived
}

func tabTitle(f models.StrategyFilter) string {
	switch f {
	case models.TabMobile:
		return "Mobile"
	case models.TabDesktop:
		return "Desktop"
	default:
		return "All"
	}
}

// cycle returns the value step positions after cur, wrapping around
func cycle[T comparable](values []T, cur T, step int) T {
	idx := 0
	for i, v := range values {
		if v == cur {
			idx = i
			break
		}
	}
	n := len(values)
	return values[((idx+step)%n+n)%n]
}

// openURL opens the URL in the default browser
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux, freebsd, etc.
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// RunBrowser runs the result browser full-screen
func RunBrowser(records []models.Record, cfg BrowserConfig) error {
	p := tea.NewProgram(NewBrowserModel(records, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
