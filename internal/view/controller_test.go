package view

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/psiview/internal/models"
)

// clampRecords returns 25 records where only the first 5 are on example.com
func clampRecords() []models.Record {
	out := make([]models.Record, 25)
	for i := range out {
		host := "other.org"
		if i < 5 {
			host = "example.com"
		}
		out[i] = rec(fmt.Sprintf("r%02d", i), fmt.Sprintf("https://%s/p%02d", host, i), models.StrategyMobile, 60)
	}
	return out
}

func TestClampAfterNarrowing(t *testing.T) {
	store := NewStore(clampRecords())

	p := models.DefaultViewParameters(10)
	p.PageIndex = 2
	d := Derive(store, p)
	if d.Page.PageIndex != 2 || d.TotalPages != 3 {
		t.Fatalf("before narrowing: page %d of %d", d.Page.PageIndex, d.TotalPages)
	}

	// Narrow without resetting the page: derivation must clamp
	p.SearchText = "example.com"
	d = Derive(store, p)
	if d.Page.PageIndex != 0 || d.TotalPages != 1 {
		t.Errorf("after narrowing: page %d of %d, want 0 of 1", d.Page.PageIndex, d.TotalPages)
	}
	if len(d.Visible) != 5 {
		t.Errorf("len(Visible) = %d, want 5", len(d.Visible))
	}
}

func TestControllerResetsPageOnFilterChange(t *testing.T) {
	c := NewController(NewStore(clampRecords()), 10, nil)

	d := c.SetPage(2)
	if d.CurrentPage != 3 {
		t.Fatalf("CurrentPage = %d, want 3", d.CurrentPage)
	}

	tests := []struct {
		dim   models.Dimension
		value string
	}{
		{models.DimSearch, "p"},
		{models.DimStrategy, "mobile"},
		{models.DimPerformance, "good"},
		{models.DimStatus, "success"},
		{models.DimSort, "url"},
		{models.DimDirection, "desc"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dim), func(t *testing.T) {
			c.SetPage(2)
			d := c.SetParameter(tt.dim, tt.value)
			if d.Params.PageIndex != 0 {
				t.Errorf("PageIndex = %d after %s change, want 0", d.Params.PageIndex, tt.dim)
			}
		})
	}
}

func TestControllerPageNavigation(t *testing.T) {
	c := NewController(NewStore(clampRecords()), 10, nil)

	if d := c.PrevPage(); d.CurrentPage != 1 {
		t.Errorf("PrevPage on first page moved to %d", d.CurrentPage)
	}
	c.NextPage()
	c.NextPage()
	if d := c.NextPage(); d.CurrentPage != 3 {
		t.Errorf("NextPage past end = %d, want 3", d.CurrentPage)
	}
	if d := c.SetParameter(models.DimPage, "2"); d.CurrentPage != 2 {
		t.Errorf("SetParameter(page, 2) = %d", d.CurrentPage)
	}
	if d := c.SetParameter(models.DimPage, "prev"); d.CurrentPage != 1 {
		t.Errorf("SetParameter(page, prev) = %d", d.CurrentPage)
	}
	if d := c.SetParameter(models.DimPage, "99"); d.CurrentPage != 3 {
		t.Errorf("SetParameter(page, 99) = %d, want clamp to 3", d.CurrentPage)
	}
	// Page change keeps search
	c.SetSearch("other")
	if d := c.NextPage(); d.Params.SearchText != "other" || d.CurrentPage != 2 {
		t.Errorf("NextPage lost state: %+v", d.Params)
	}
}

func TestControllerSortToggle(t *testing.T) {
	records := sampleRecords()
	c := NewController(NewStore(records), 10, nil)

	first := ids(c.ToggleSort(models.SortURL).Filtered)
	second := ids(c.ToggleSort(models.SortURL).Filtered)

	reversed := make([]string, len(first))
	for i, id := range first {
		reversed[len(first)-1-i] = id
	}
	if !reflect.DeepEqual(second, reversed) {
		t.Errorf("second toggle = %v, want reverse of %v", second, first)
	}
	if c.Params().SortDirection != models.SortDesc {
		t.Errorf("direction = %s, want desc", c.Params().SortDirection)
	}

	// A different key starts in its own default direction
	c.ToggleSort(models.SortPerformance)
	if p := c.Params(); p.SortKey != models.SortPerformance || p.SortDirection != models.SortDesc {
		t.Errorf("performance sort = %s %s, want desc", p.SortKey, p.SortDirection)
	}
	c.ToggleSort(models.SortLoadTime)
	if p := c.Params(); p.SortDirection != models.SortAsc {
		t.Errorf("loadtime sort = %s, want asc", p.SortDirection)
	}
	c.ToggleSort(models.SortLoadTime)
	if p := c.Params(); p.SortDirection != models.SortDesc {
		t.Errorf("loadtime second toggle = %s, want desc", p.SortDirection)
	}
}

func TestControllerStableUnderNoOpChange(t *testing.T) {
	c := NewController(NewStore(sampleRecords()), 10, nil)
	before := ids(c.ToggleSort(models.SortPerformance).Filtered)
	after := ids(c.SetStatus(models.StatusFilterAll).Filtered)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("order changed after no-op: %v -> %v", before, after)
	}
}

func TestControllerUnknownValuesFallBack(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	c := NewController(NewStore(sampleRecords()), 10, logger)

	c.SetStrategy(models.TabMobile)
	d := c.SetParameter(models.DimStrategy, "tablet")
	if d.Params.StrategyFilter != models.TabAll {
		t.Errorf("StrategyFilter = %s, want all", d.Params.StrategyFilter)
	}
	d = c.SetParameter(models.DimSort, "bogus")
	if d.Params.SortKey != models.SortNone {
		t.Errorf("SortKey = %s, want none", d.Params.SortKey)
	}
	d = c.SetParameter(models.DimPerformance, "great")
	if d.Params.PerformanceBucket != models.BucketAll {
		t.Errorf("PerformanceBucket = %s, want all", d.Params.PerformanceBucket)
	}
	if d.FilteredCount != 5 {
		t.Errorf("FilteredCount = %d, want 5", d.FilteredCount)
	}
	if n := strings.Count(buf.String(), "Unrecognized view parameter"); n != 3 {
		t.Errorf("logged %d warnings, want 3:\n%s", n, buf.String())
	}
}

func TestControllerDebouncedSearch(t *testing.T) {
	c := NewController(NewStore(sampleRecords()), 10, nil)

	t1 := c.QueueSearch("ex")
	t2 := c.QueueSearch("exam")
	if c.View().Params.SearchText != "" {
		t.Fatalf("queued search applied early")
	}

	if _, ok := c.ApplySearch(t1); ok {
		t.Errorf("stale token applied")
	}
	d, ok := c.ApplySearch(t2)
	if !ok || d.Params.SearchText != "exam" || d.FilteredCount != 1 {
		t.Errorf("ApplySearch(latest) = %q, %d, %v", d.Params.SearchText, d.FilteredCount, ok)
	}
	if _, ok := c.ApplySearch(t2); ok {
		t.Errorf("token applied twice")
	}
}

func TestControllerFlushAndClearSearch(t *testing.T) {
	c := NewController(NewStore(sampleRecords()), 10, nil)

	c.QueueSearch("test")
	if !c.SearchPending() {
		t.Fatalf("SearchPending() = false")
	}
	d := c.FlushSearch()
	if d.Params.SearchText != "test" || c.SearchPending() {
		t.Errorf("FlushSearch() = %q, pending %v", d.Params.SearchText, c.SearchPending())
	}

	token := c.QueueSearch("broken")
	d = c.ClearSearch()
	if d.Params.SearchText != "" || d.FilteredCount != 5 {
		t.Errorf("ClearSearch() = %q, %d", d.Params.SearchText, d.FilteredCount)
	}
	if _, ok := c.ApplySearch(token); ok {
		t.Errorf("cleared edit was applied later")
	}
}

func TestControllerReset(t *testing.T) {
	c := NewController(NewStore(sampleRecords()), 2, nil)
	c.SetSearch("example")
	c.SetStrategy(models.TabDesktop)
	c.SetStatus(models.StatusFilterError)
	c.ToggleSort(models.SortLoadTime)

	d := c.Reset()
	want := models.DefaultViewParameters(2)
	want.SortKey = models.SortURL
	if d.Params != want {
		t.Errorf("Reset() params = %+v, want %+v", d.Params, want)
	}
	if d.FilteredCount != 5 || d.TotalPages != 3 {
		t.Errorf("Reset() = %d records over %d pages", d.FilteredCount, d.TotalPages)
	}
}

func TestControllerAccessors(t *testing.T) {
	c := NewController(NewStore(sampleRecords()), 2, nil)
	c.SetStatus(models.StatusFilterSuccess)

	if got := len(c.Filtered()); got != 3 {
		t.Errorf("Filtered() = %d records, want 3 across pages", got)
	}
	if got := len(c.View().Visible); got != 2 {
		t.Errorf("Visible = %d, want 2", got)
	}
	if c.TabCounts()[models.TabAll] != 5 {
		t.Errorf("TabCounts() = %v", c.TabCounts())
	}
	if c.IsEmpty() {
		t.Errorf("IsEmpty() = true")
	}
	if r, ok := c.Record("4"); !ok || r.Status != models.StatusError {
		t.Errorf("Record(4) = %+v, %v", r, ok)
	}
	if _, ok := c.Record("nope"); ok {
		t.Errorf("Record(nope) found")
	}
}

func TestDebouncerCancel(t *testing.T) {
	var d Debouncer
	tok := d.Schedule("a")
	d.Cancel()
	if _, ok := d.Apply(tok); ok {
		t.Errorf("Apply after Cancel succeeded")
	}
	if _, ok := d.Flush(); ok {
		t.Errorf("Flush after Cancel succeeded")
	}
}
