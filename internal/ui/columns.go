package ui

// columns.go provides generic column width calculation for bubbles/table
// and the column layouts used by the report views.

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/thesavant42/psiview/internal/models"
	"github.com/thesavant42/psiview/internal/view"
)

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand/contract with terminal width.
// Use FixedWidth for columns that should maintain constant width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
//
//	columns := CalculateColumns([]ColumnSpec{
//	    {Title: "URL", FlexRatio: 100, MinWidth: 30},
//	    {Title: "Perf", FixedWidth: 6},
//	}, layout.TableWidth)
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < 50 {
		totalWidth = 50
	}

	// bubbles/table pads every cell by one space on each side
	totalWidth -= 2 * len(specs)

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := totalWidth - fixedTotal
	if remaining < 0 {
		remaining = 0
	}

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// SingleColumnSpec returns a column spec for single-column selectors.
func SingleColumnSpec(title string) []ColumnSpec {
	return []ColumnSpec{
		{Title: title, FlexRatio: 100},
	}
}

// ResultColumns returns column specs for the result browser table.
// Sortable headers carry the key that toggles them.
func ResultColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "#", FixedWidth: 4},
		{Title: "URL [u]", FlexRatio: 100, MinWidth: 30},
		{Title: "Strategy", FixedWidth: 9},
		{Title: "Status", FixedWidth: 8},
		{Title: "Perf [f]", FixedWidth: 8},
		{Title: "A11y [a]", FixedWidth: 8},
		{Title: "BP", FixedWidth: 4},
		{Title: "SEO", FixedWidth: 4},
		{Title: "Load [l]", FixedWidth: 8},
	}
}

// ResultRow renders a record as a browser table row. n is the 1-based
// position in the filtered set.
func ResultRow(n int, r models.Record) table.Row {
	return table.Row{
		strconv.Itoa(n),
		r.URL,
		string(r.Strategy),
		string(r.Status),
		scoreCell(r, models.CategoryPerformance),
		scoreCell(r, models.CategoryAccessibility),
		scoreCell(r, models.CategoryBestPractices),
		scoreCell(r, models.CategorySEO),
		loadTimeCell(r),
	}
}

// ReportListColumns returns column specs for the stored report selector.
func ReportListColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Report", FlexRatio: 40, MinWidth: 16},
		{Title: "Records", FixedWidth: 8},
		{Title: "Imported", FixedWidth: 17},
		{Title: "Source", FlexRatio: 60, MinWidth: 20},
	}
}

// ScoreColumns returns column specs for the detail view's score page.
func ScoreColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Category", FlexRatio: 60, MinWidth: 16},
		{Title: "Score", FixedWidth: 8},
		{Title: "Grade", FlexRatio: 40, MinWidth: 18},
	}
}

// MetricColumns returns column specs for the detail view's metrics page.
func MetricColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Metric", FlexRatio: 60, MinWidth: 24},
		{Title: "Value", FixedWidth: 14},
		{Title: "Grade", FlexRatio: 40, MinWidth: 18},
	}
}

// OpportunityColumns returns column specs for the detail view's opportunities page.
func OpportunityColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "Opportunity", FlexRatio: 40, MinWidth: 20},
		{Title: "Impact", FixedWidth: 8},
		{Title: "Savings", FixedWidth: 9},
		{Title: "Description", FlexRatio: 60, MinWidth: 20},
	}
}

func scoreCell(r models.Record, c models.Category) string {
	if s, ok := r.Score(c); ok {
		return strconv.Itoa(s)
	}
	return "-"
}

func loadTimeCell(r models.Record) string {
	if ms, ok := r.LoadTime(); ok {
		return view.FormatLoadTime(ms)
	}
	return "-"
}

func scoreGrade(score int) string {
	switch {
	case score >= view.ScoreExcellent:
		return "good"
	case score >= view.ScorePoor:
		return "needs improvement"
	default:
		return "poor"
	}
}

func formatMs(ms float64) string {
	if ms <= 0 {
		return "-"
	}
	return view.FormatLoadTime(ms)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
