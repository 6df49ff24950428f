package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/thesavant42/psiview/internal/models"
)

const detailHelp = "↑/↓: scroll | Tab/←/→: switch page | o: open URL | q/Esc: back"

// RecordDetailConfig builds the tabbed detail view for one record:
// Overview, Scores, Metrics and Opportunities.
func RecordDetailConfig(r models.Record) TabbedTableConfig {
	b := NewTabbedTable(fmt.Sprintf("Audit Details: %s", r.URL)).
		WithSubtitle(fmt.Sprintf("%s | %s", r.Strategy, r.Status)).
		WithHelpText(detailHelp).
		Embedded().
		AddPage("Overview", []ColumnSpec{
			{Title: "Field", FixedWidth: 14},
			{Title: "Value", FlexRatio: 100, MinWidth: 30},
		}, overviewRows(r)).
		AddPage("Scores", ScoreColumns(), scoreRows(r))

	if r.Metrics != nil {
		b.AddPage("Metrics", MetricColumns(), metricRows(r.Metrics))
	}
	if len(r.Opportunities) > 0 {
		b.AddPage("Opportunities", OpportunityColumns(), opportunityRows(r.Opportunities))
	}
	return b.Build()
}

func overviewRows(r models.Record) []table.Row {
	rows := []table.Row{
		{"URL", r.URL},
	}
	if r.FinalURL != "" && r.FinalURL != r.URL {
		rows = append(rows, table.Row{"Final URL", r.FinalURL})
	}
	if r.RootDomain != "" {
		rows = append(rows, table.Row{"Domain", r.RootDomain})
	}
	rows = append(rows,
		table.Row{"Strategy", string(r.Strategy)},
		table.Row{"Status", string(r.Status)},
		table.Row{"Load Time", loadTimeCell(r)},
	)
	if r.ErrorMessage != "" {
		rows = append(rows, table.Row{"Error", r.ErrorMessage})
	}
	return rows
}

func scoreRows(r models.Record) []table.Row {
	if r.Scores == nil {
		return []table.Row{{"No scores", "-", "-"}}
	}
	var rows []table.Row
	for _, c := range models.Categories {
		s, ok := r.Score(c)
		if !ok {
			rows = append(rows, table.Row{c.Title(), "-", "-"})
			continue
		}
		rows = append(rows, table.Row{c.Title(), strconv.Itoa(s), scoreGrade(s)})
	}
	return rows
}

func metricRows(m *models.Metrics) []table.Row {
	grades := m.Grades()
	return []table.Row{
		{"First Contentful Paint", formatMs(m.FirstContentfulPaint), grades["fcp"]},
		{"Largest Contentful Paint", formatMs(m.LargestContentfulPaint), grades["lcp"]},
		{"First Input Delay", formatMs(m.FirstInputDelay), grades["fid"]},
		{"Cumulative Layout Shift", strconv.FormatFloat(m.CumulativeLayoutShift, 'f', 3, 64), grades["cls"]},
		{"Speed Index", formatMs(m.SpeedIndex), ""},
		{"Time to Interactive", formatMs(m.TimeToInteractive), ""},
		{"Total Blocking Time", formatMs(m.TotalBlockingTime), ""},
		{"DOM Size", strconv.FormatFloat(m.DOMSize, 'f', 0, 64), ""},
		{"Requests", strconv.Itoa(m.ResourceCount), ""},
		{"Transfer Size", formatBytes(m.TransferSize), ""},
	}
}

func opportunityRows(opps []models.Opportunity) []table.Row {
	rows := make([]table.Row, 0, len(opps))
	for _, o := range opps {
		savings := "-"
		if o.PotentialSavings > 0 {
			savings = formatMs(o.PotentialSavings)
		}
		rows = append(rows, table.Row{
			o.Title,
			o.Impact,
			savings,
			MarkdownToPlain(o.Description),
		})
	}
	return rows
}
