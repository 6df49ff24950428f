package view

import (
	"strconv"
	"strings"

	"github.com/thesavant42/psiview/internal/models"
)

// Performance bucket boundaries
const (
	ScoreExcellent = 90
	ScorePoor      = 50
)

// MatchesStrategy reports whether r belongs to the active strategy tab
func MatchesStrategy(r models.Record, p models.ViewParameters) bool {
	return p.StrategyFilter == models.TabAll ||
		p.StrategyFilter == "" ||
		string(r.Strategy) == string(p.StrategyFilter)
}

// MatchesSearch reports whether the search text appears in the URL or anywhere
// in the row text. Matching is case-insensitive.
func MatchesSearch(r models.Record, p models.ViewParameters) bool {
	term := strings.ToLower(strings.TrimSpace(p.SearchText))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.URL), term) {
		return true
	}
	return strings.Contains(strings.ToLower(RowText(r)), term)
}

// MatchesPerformance reports whether the performance score falls in the bucket.
// Records without a performance score always match.
func MatchesPerformance(r models.Record, p models.ViewParameters) bool {
	score, ok := r.Score(models.CategoryPerformance)
	if !ok {
		return true
	}
	switch p.PerformanceBucket {
	case models.BucketExcellent:
		return score >= ScoreExcellent
	case models.BucketGood:
		return score >= ScorePoor && score < ScoreExcellent
	case models.BucketPoor:
		return score < ScorePoor
	default:
		return true
	}
}

// MatchesStatus reports whether r has the requested status.
// Unknown status matches only the all filter.
func MatchesStatus(r models.Record, p models.ViewParameters) bool {
	switch p.StatusFilter {
	case models.StatusFilterSuccess:
		return r.Status == models.StatusSuccess
	case models.StatusFilterError:
		return r.Status == models.StatusError
	default:
		return true
	}
}

// Matches is the AND of every dimension predicate
func Matches(r models.Record, p models.ViewParameters) bool {
	return MatchesStrategy(r, p) &&
		MatchesSearch(r, p) &&
		MatchesPerformance(r, p) &&
		MatchesStatus(r, p)
}

// RowText renders every visible field of a record into one string, the same
// cells the browser table shows.
func RowText(r models.Record) string {
	var b strings.Builder
	b.WriteString(r.URL)
	b.WriteByte(' ')
	b.WriteString(r.RootDomain)
	b.WriteByte(' ')
	b.WriteString(string(r.Strategy))
	b.WriteByte(' ')
	b.WriteString(string(r.Status))
	for _, c := range models.Categories {
		if s, ok := r.Score(c); ok {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(s))
		}
	}
	if ms, ok := r.LoadTime(); ok {
		b.WriteByte(' ')
		b.WriteString(FormatLoadTime(ms))
	}
	if r.FinalURL != "" {
		b.WriteByte(' ')
		b.WriteString(r.FinalURL)
	}
	if r.ErrorMessage != "" {
		b.WriteByte(' ')
		b.WriteString(r.ErrorMessage)
	}
	return b.String()
}

// FormatLoadTime renders milliseconds as shown in the table ("850ms", "2.3s")
func FormatLoadTime(ms float64) string {
	if ms < 1000 {
		return strconv.FormatFloat(ms, 'f', 0, 64) + "ms"
	}
	return strconv.FormatFloat(ms/1000, 'f', 1, 64) + "s"
}
