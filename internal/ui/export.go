package ui

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/thesavant42/psiview/internal/models"
	"github.com/thesavant42/psiview/internal/view"
)

// ExportFormat is an output format for the filtered result set
type ExportFormat string

const (
	FormatCSV      ExportFormat = "csv"
	FormatMarkdown ExportFormat = "md"
	FormatHTML     ExportFormat = "html"
)

// ParseExportFormat accepts csv, md/markdown and html/htm
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, md or html)", s)
}

// timeNow is a variable for testability.
var timeNow = time.Now

var csvHeader = []string{
	"URL", "Strategy", "Status",
	"Performance", "Accessibility", "Best Practices", "SEO",
	"Load Time (ms)", "Final URL",
}

// ExportCSV writes records as CSV. Missing scores and load times are empty cells.
func ExportCSV(w io.Writer, records []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{r.URL, string(r.Strategy), string(r.Status)}
		for _, c := range models.Categories {
			if s, ok := r.Score(c); ok {
				row = append(row, strconv.Itoa(s))
			} else {
				row = append(row, "")
			}
		}
		if ms, ok := r.LoadTime(); ok {
			row = append(row, strconv.FormatFloat(ms, 'f', 0, 64))
		} else {
			row = append(row, "")
		}
		row = append(row, r.FinalURL)

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// GenerateMarkdownReport builds a markdown document for records with an
// aggregate summary followed by one table row per record.
func GenerateMarkdownReport(title string, records []models.Record) string {
	var sb strings.Builder
	summary := view.Summarize(records)

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", timeNow().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Records:** %d (%d successful, %d failed)\n\n",
		summary.TotalRecords, summary.SuccessfulRecords, summary.FailedRecords))

	if len(summary.AverageScores) > 0 {
		sb.WriteString("## Average Scores\n\n")
		sb.WriteString("| Category | Average | Good | Needs Improvement | Poor |\n")
		sb.WriteString("|----------|---------|------|-------------------|------|\n")
		for _, c := range models.Categories {
			avg, ok := summary.AverageScores[c]
			if !ok {
				continue
			}
			dist := summary.ScoreDistribution[c]
			sb.WriteString(fmt.Sprintf("| %s | %.1f | %d | %d | %d |\n",
				c.Title(), avg, dist[0], dist[1], dist[2]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Results\n\n")
	if len(records) == 0 {
		sb.WriteString("No results match the current filters.\n")
		return sb.String()
	}

	sb.WriteString("| URL | Strategy | Status | Performance | Accessibility | Best Practices | SEO | Load Time |\n")
	sb.WriteString("|-----|----------|--------|-------------|---------------|----------------|-----|-----------|\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			escapeMarkdownCell(r.URL),
			r.Strategy,
			statusCell(r),
			scoreCell(r, models.CategoryPerformance),
			scoreCell(r, models.CategoryAccessibility),
			scoreCell(r, models.CategoryBestPractices),
			scoreCell(r, models.CategorySEO),
			loadTimeCell(r),
		))
	}

	return sb.String()
}

// ExportMarkdown writes the markdown report for records
func ExportMarkdown(w io.Writer, title string, records []models.Record) error {
	if _, err := io.WriteString(w, GenerateMarkdownReport(title, records)); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

// ExportHTML writes a standalone HTML page rendered from the markdown report
func ExportHTML(w io.Writer, title string, records []models.Record) error {
	body, err := RenderMarkdownHTML(GenerateMarkdownReport(title, records))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, htmlPage, html.EscapeString(title), body)
	if err != nil {
		return fmt.Errorf("failed to write html: %w", err)
	}
	return nil
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
</style>
</head>
<body>
%s</body>
</html>
`

// Export writes records in the given format
func Export(w io.Writer, format ExportFormat, title string, records []models.Record) error {
	switch format {
	case FormatCSV:
		return ExportCSV(w, records)
	case FormatMarkdown:
		return ExportMarkdown(w, title, records)
	case FormatHTML:
		return ExportHTML(w, title, records)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// DefaultExportFilename is a timestamped filename for format
func DefaultExportFilename(format ExportFormat) string {
	return fmt.Sprintf("psiview-%s.%s", timeNow().Format("2006-01-02-150405"), format)
}

// ExportToFile writes records to path, or to a timestamped file in the
// working directory when path is empty. Returns the written filename.
func ExportToFile(path string, format ExportFormat, title string, records []models.Record) (string, error) {
	if path == "" {
		path = DefaultExportFilename(format)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := Export(f, format, title, records); err != nil {
		return "", err
	}
	return path, f.Close()
}

func statusCell(r models.Record) string {
	if r.Status == models.StatusError && r.ErrorMessage != "" {
		return "error: " + escapeMarkdownCell(r.ErrorMessage)
	}
	return string(r.Status)
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
