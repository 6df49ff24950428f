package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/thesavant42/psiview/internal/models"
	"github.com/thesavant42/psiview/internal/view"
)

func TestCalculateColumns(t *testing.T) {
	specs := []ColumnSpec{
		{Title: "Fixed", FixedWidth: 10},
		{Title: "Narrow", FlexRatio: 1},
		{Title: "Wide", FlexRatio: 3},
	}

	tests := []struct {
		name  string
		width int
		want  []int
	}{
		{"normal", 100, []int{10, 21, 63}},
		{"floored at 50", 20, []int{10, 8, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := CalculateColumns(specs, tt.width)
			if len(cols) != len(tt.want) {
				t.Fatalf("got %d columns, want %d", len(cols), len(tt.want))
			}
			for i, c := range cols {
				if c.Width != tt.want[i] {
					t.Errorf("column %q width = %d, want %d", c.Title, c.Width, tt.want[i])
				}
			}
		})
	}
}

func TestCalculateColumnsMinWidth(t *testing.T) {
	cols := CalculateColumns(ResultColumns(), 50)
	if cols[1].Width < 30 {
		t.Errorf("URL column width = %d, want at least 30", cols[1].Width)
	}
}

func TestResultRow(t *testing.T) {
	records := exportRecords()

	row := ResultRow(7, records[0])
	if row[0] != "7" || row[1] != "https://a.example.com/" || row[4] != "95" {
		t.Errorf("ResultRow() = %v", row)
	}
	if row[8] != view.FormatLoadTime(1234.4) {
		t.Errorf("load cell = %q", row[8])
	}

	failed := ResultRow(1, records[1])
	for i := 4; i < len(failed); i++ {
		if failed[i] != "-" {
			t.Errorf("missing value cell %d = %q, want -", i, failed[i])
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScoreGrade(t *testing.T) {
	tests := map[int]string{100: "good", 90: "good", 89: "needs improvement", 50: "needs improvement", 49: "poor", 0: "poor"}
	for score, want := range tests {
		if got := scoreGrade(score); got != want {
			t.Errorf("scoreGrade(%d) = %q, want %q", score, got, want)
		}
	}
}

func controls(n, current int) view.PageControls {
	c := view.PageControls{PrevDisabled: current == 1, NextDisabled: current == n}
	for i := 1; i <= n; i++ {
		c.Pages = append(c.Pages, view.PageControl{Number: i, Current: i == current})
	}
	return c
}

func TestRenderPageControls(t *testing.T) {
	tests := []struct {
		name   string
		c      view.PageControls
		window int
		want   string
	}{
		{"all pages fit", controls(3, 1), 9, "‹  1  2 3 ›"},
		{"windowed middle", controls(20, 10), 9, "‹ … 6 7 8 9  10  11 12 13 14 … ›"},
		{"windowed start", controls(20, 2), 9, "‹ 1  2  3 4 5 6 7 8 9 … ›"},
		{"windowed end", controls(20, 20), 9, "‹ … 12 13 14 15 16 17 18 19  20  ›"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripEscapeCodes(renderPageControls(tt.c, tt.window))
			if got != tt.want {
				t.Errorf("renderPageControls() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCycle(t *testing.T) {
	values := []string{"a", "b", "c"}
	tests := []struct {
		cur  string
		step int
		want string
	}{
		{"a", 1, "b"},
		{"c", 1, "a"},
		{"a", -1, "c"},
		{"missing", 1, "b"},
	}
	for _, tt := range tests {
		if got := cycle(values, tt.cur, tt.step); got != tt.want {
			t.Errorf("cycle(%q, %d) = %q, want %q", tt.cur, tt.step, got, tt.want)
		}
	}
}

func TestMarkdownToPlain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "link keeps destination",
			in:   "Serve images in modern formats. [Learn more](https://web.dev/uses-webp-images/).",
			want: "Serve images in modern formats. Learn more (https://web.dev/uses-webp-images/).",
		},
		{
			name: "emphasis and code",
			in:   "Reduce **unused** `JavaScript`",
			want: "Reduce unused JavaScript",
		},
		{
			name: "line breaks collapse",
			in:   "first line\nsecond line",
			want: "first line second line",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownToPlain(tt.in); got != tt.want {
				t.Errorf("MarkdownToPlain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportSelectorConfig(t *testing.T) {
	reports := []models.ReportInfo{
		{Name: "old", Source: "old.json", RecordCount: 4, ImportedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "new", Source: "http://localhost:8080", RecordCount: 9},
	}

	cfg := ReportSelectorConfig(reports)
	if len(cfg.Values) != 2 || cfg.Values[0] != "new" || cfg.Values[1] != "old" {
		t.Errorf("values = %v, want newest first", cfg.Values)
	}
	if cfg.Rows[0][2] != "-" {
		t.Errorf("zero import time cell = %q, want -", cfg.Rows[0][2])
	}

	m := NewSelectorModel(cfg)
	if m.SelectedValue() != "" {
		t.Error("unselected model should return empty value")
	}
	updated, _ := m.Update(keyMsg("enter"))
	if got := updated.(SelectorModel).SelectedValue(); got != "new" {
		t.Errorf("SelectedValue() = %q, want new", got)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, "Nightly", view.Summarize(exportRecords()))
	out := stripEscapeCodes(buf.String())

	for _, want := range []string{"Nightly", "Total: 2", "Successful: 1", "Failed: 1", "Performance", "95.0", "Fastest:", "https://a.example.com/ (mobile)"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

func TestPrintSummaryNoScores(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, "Empty", view.Summarize(nil))
	if !strings.Contains(stripEscapeCodes(buf.String()), "No scored results") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestPrintReports(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		PrintReports(&buf, nil)
		if !strings.Contains(buf.String(), "No stored reports") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})

	t.Run("truncates long names", func(t *testing.T) {
		var buf bytes.Buffer
		PrintReports(&buf, []models.ReportInfo{
			{Name: strings.Repeat("x", 40), Source: "a.json", RecordCount: 3},
		})
		out := stripEscapeCodes(buf.String())
		if !strings.Contains(out, strings.Repeat("x", 21)+"...") {
			t.Errorf("long name not truncated:\n%s", out)
		}
		if !strings.Contains(out, "a.json") {
			t.Errorf("source missing:\n%s", out)
		}
	})
}
