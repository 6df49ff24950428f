package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/thesavant42/psiview/internal/models"
	"github.com/thesavant42/psiview/internal/view"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	purple = lipgloss.Color("99")  // for borders
	pink   = lipgloss.Color("205") // for header text
	cyan   = lipgloss.Color("86")
	white  = lipgloss.Color("255")
	green  = lipgloss.Color("82")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(pink).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(cyan)

	headerStyle = lipgloss.NewStyle().
			Foreground(pink).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(white)

	statStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			Foreground(purple)
)

// This is a CLI report (non-interactive): table structure is plain string
// formatting and lipgloss only colors the text. Interactive tables use
// bubbles/table (see browser.go).

// PrintSummary prints aggregate statistics for a record set
func PrintSummary(w io.Writer, title string, s models.ReportSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintf(w, "%s %s   %s %s   %s %s\n",
		subtitleStyle.Render("Total:"), statStyle.Render(fmt.Sprint(s.TotalRecords)),
		subtitleStyle.Render("Successful:"), statStyle.Render(fmt.Sprint(s.SuccessfulRecords)),
		subtitleStyle.Render("Failed:"), ScorePoorStyle.Render(fmt.Sprint(s.FailedRecords)),
	)
	fmt.Fprintln(w)

	if len(s.AverageScores) == 0 {
		fmt.Fprintln(w, subtitleStyle.Render("No scored results"))
		fmt.Fprintln(w)
		return
	}

	widths := []int{16, 9, 6, 19, 6}
	separator := strings.Repeat("─", sumWidths(widths))

	fmt.Fprintln(w, borderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, headerStyle.Render(formatRow(widths, "Category", "Average", "Good", "Needs Improvement", "Poor")))
	fmt.Fprintln(w, borderStyle.Render("├"+separator+"┤"))

	for _, c := range models.Categories {
		avg, ok := s.AverageScores[c]
		if !ok {
			continue
		}
		dist := s.ScoreDistribution[c]
		line := formatRow(widths,
			c.Title(),
			fmt.Sprintf("%.1f", avg),
			fmt.Sprint(dist[0]),
			fmt.Sprint(dist[1]),
			fmt.Sprint(dist[2]),
		)
		fmt.Fprintln(w, ScoreStyle(int(avg+0.5)).Render(line))
	}
	fmt.Fprintln(w, borderStyle.Render("└"+separator+"┘"))
	fmt.Fprintln(w)

	if s.Fastest != nil {
		fmt.Fprintf(w, "%s %s %s\n", subtitleStyle.Render("Fastest:"),
			rowStyle.Render(fmt.Sprintf("%s (%s)", s.Fastest.URL, s.Fastest.Strategy)),
			statStyle.Render(view.FormatLoadTime(*s.Fastest.LoadTimeMs)))
	}
	if s.Slowest != nil {
		fmt.Fprintf(w, "%s %s %s\n", subtitleStyle.Render("Slowest:"),
			rowStyle.Render(fmt.Sprintf("%s (%s)", s.Slowest.URL, s.Slowest.Strategy)),
			ScorePoorStyle.Render(view.FormatLoadTime(*s.Slowest.LoadTimeMs)))
	}
	fmt.Fprintln(w)
}

// PrintReports prints the stored report list
func PrintReports(w io.Writer, reports []models.ReportInfo) {
	if len(reports) == 0 {
		fmt.Fprintln(w, subtitleStyle.Render("No stored reports. Use 'psiview import' or 'psiview fetch'."))
		return
	}

	widths := []int{24, 8, 17, 40}
	separator := strings.Repeat("─", sumWidths(widths))

	fmt.Fprintln(w, borderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, headerStyle.Render(formatRow(widths, "Report", "Records", "Imported", "Source")))
	fmt.Fprintln(w, borderStyle.Render("├"+separator+"┤"))
	for _, r := range reports {
		fmt.Fprintln(w, rowStyle.Render(formatRow(widths,
			r.Name,
			fmt.Sprint(r.RecordCount),
			formatImported(r),
			r.Source,
		)))
	}
	fmt.Fprintln(w, borderStyle.Render("└"+separator+"┘"))
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, statStyle.Render(message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, StatusMsgStyle.Render("Error: "+message))
}

// formatRow lays out cells as "│ a │ b │", truncating long values
func formatRow(widths []int, cells ...string) string {
	var b strings.Builder
	b.WriteString("│")
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if StringWidth(cell) > w {
			cell = truncateToWidth(cell, w-3) + "..."
		}
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", w-StringWidth(cell)))
		b.WriteString(" │")
	}
	return b.String()
}

// sumWidths is the inner width of a row from formatRow, excluding the
// outer border characters.
func sumWidths(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w + 3
	}
	return total - 1
}

func formatImported(r models.ReportInfo) string {
	if r.ImportedAt.IsZero() {
		return "-"
	}
	return r.ImportedAt.Local().Format("2006-01-02 15:04")
}
