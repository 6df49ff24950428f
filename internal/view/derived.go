package view

import (
	"fmt"

	"github.com/thesavant42/psiview/internal/models"
)

// DerivedView is everything the presentation layer needs for one render.
// It is recomputed from scratch on every parameter change.
type DerivedView struct {
	Params models.ViewParameters // with PageIndex clamped

	Filtered         []models.Record // full filtered and ordered set
	Visible          []models.Record // current page of Filtered
	TotalRecordCount int
	FilteredCount    int

	// CountsByStrategy counts Filtered per strategy
	CountsByStrategy map[models.Strategy]int
	// TabCounts counts the whole store per tab, ignoring every other filter
	TabCounts map[models.StrategyFilter]int

	Page        Page
	CurrentPage int // 1-based
	TotalPages  int
	IsEmpty     bool
}

// Derive computes the view of store under p. It has no side effects.
func Derive(store *Store, p models.ViewParameters) DerivedView {
	all := store.All()
	filtered := Reduce(all, p)
	page := Paginate(filtered, p.PageIndex, p.PageSize)

	p.PageIndex = page.PageIndex
	p.PageSize = page.PageSize

	counts := make(map[models.Strategy]int, len(models.Strategies))
	for _, s := range models.Strategies {
		counts[s] = 0
	}
	for _, r := range filtered {
		counts[r.Strategy]++
	}

	return DerivedView{
		Params:           p,
		Filtered:         filtered,
		Visible:          page.Visible,
		TotalRecordCount: len(all),
		FilteredCount:    len(filtered),
		CountsByStrategy: counts,
		TabCounts:        TabCounts(all),
		Page:             page,
		CurrentPage:      page.PageIndex + 1,
		TotalPages:       page.TotalPages,
		IsEmpty:          len(filtered) == 0,
	}
}

// TabCounts counts records per strategy tab. The all tab counts every record.
func TabCounts(records []models.Record) map[models.StrategyFilter]int {
	counts := map[models.StrategyFilter]int{
		models.TabAll:     len(records),
		models.TabMobile:  0,
		models.TabDesktop: 0,
	}
	for _, r := range records {
		switch r.Strategy {
		case models.StrategyMobile:
			counts[models.TabMobile]++
		case models.StrategyDesktop:
			counts[models.TabDesktop]++
		}
	}
	return counts
}

// SearchSummary describes the search result for the status line
func (d DerivedView) SearchSummary() string {
	if d.Params.SearchText == "" {
		return fmt.Sprintf("Showing all %d results", d.TotalRecordCount)
	}
	return fmt.Sprintf("Showing %d of %d results for %q", d.FilteredCount, d.TotalRecordCount, d.Params.SearchText)
}

// ResultsLabel is the short results counter, e.g. "1 result" or "12 results"
func (d DerivedView) ResultsLabel() string {
	if d.FilteredCount == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", d.FilteredCount)
}
