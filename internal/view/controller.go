package view

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/psiview/internal/models"
)

// Controller owns the view parameters for one record store and re-derives the
// view after every change. It is not safe for concurrent use; the UI event
// loop is its only caller.
type Controller struct {
	store    *Store
	params   models.ViewParameters
	current  DerivedView
	debounce Debouncer
	logger   *log.Logger
}

// NewController creates a controller with default parameters. A nil logger
// disables diagnostics.
func NewController(store *Store, pageSize int, logger *log.Logger) *Controller {
	if store == nil {
		store = NewStore(nil)
	}
	c := &Controller{
		store:  store,
		params: models.DefaultViewParameters(pageSize),
		logger: logger,
	}
	c.derive()
	return c
}

func (c *Controller) derive() DerivedView {
	c.current = Derive(c.store, c.params)
	c.params.PageIndex = c.current.Params.PageIndex
	if c.logger != nil {
		c.logger.Debug("view derived",
			"search", c.params.SearchText,
			"strategy", c.params.StrategyFilter,
			"performance", c.params.PerformanceBucket,
			"status", c.params.StatusFilter,
			"sort", c.params.SortKey,
			"dir", c.params.SortDirection,
			"page", c.current.CurrentPage,
			"filtered", c.current.FilteredCount)
	}
	return c.current
}

func (c *Controller) warn(dim models.Dimension, value string) {
	if c.logger != nil {
		c.logger.Warn("Unrecognized view parameter, using default", "dimension", dim, "value", value)
	}
}

// SetParameter updates one dimension from its string form and returns the new
// view. Every dimension except page resets to the first page. Unrecognized
// values fall back to the dimension's default.
func (c *Controller) SetParameter(dim models.Dimension, value string) DerivedView {
	switch dim {
	case models.DimSearch:
		c.debounce.Cancel()
		c.params.SearchText = value
	case models.DimStrategy:
		f, ok := models.ParseStrategyFilter(value)
		if !ok {
			c.warn(dim, value)
		}
		c.params.StrategyFilter = f
	case models.DimPerformance:
		b, ok := models.ParsePerformanceBucket(value)
		if !ok {
			c.warn(dim, value)
		}
		c.params.PerformanceBucket = b
	case models.DimStatus:
		s, ok := models.ParseStatusFilter(value)
		if !ok {
			c.warn(dim, value)
		}
		c.params.StatusFilter = s
	case models.DimSort:
		k, ok := models.ParseSortKey(value)
		if !ok {
			c.warn(dim, value)
		}
		return c.ToggleSort(k)
	case models.DimDirection:
		d, ok := models.ParseSortDirection(value)
		if !ok {
			c.warn(dim, value)
		}
		c.params.SortDirection = d
	case models.DimPage:
		return c.setPageString(value)
	default:
		c.warn(dim, value)
		return c.current
	}
	c.params.PageIndex = 0
	return c.derive()
}

// setPageString accepts a 1-based page number, "next" or "prev"
func (c *Controller) setPageString(value string) DerivedView {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "next":
		return c.NextPage()
	case "prev", "previous":
		return c.PrevPage()
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		c.warn(models.DimPage, value)
		return c.current
	}
	return c.SetPage(n - 1)
}

// SetSearch applies search text immediately, cancelling any pending edit
func (c *Controller) SetSearch(text string) DerivedView {
	return c.SetParameter(models.DimSearch, text)
}

// QueueSearch records a search edit without applying it. Pass the returned
// token to ApplySearch once the quiet period has elapsed.
func (c *Controller) QueueSearch(text string) uint64 {
	return c.debounce.Schedule(text)
}

// ApplySearch applies the queued search if token is the latest edit. ok is
// false when a newer edit or an immediate change superseded it.
func (c *Controller) ApplySearch(token uint64) (DerivedView, bool) {
	text, ok := c.debounce.Apply(token)
	if !ok {
		return c.current, false
	}
	c.params.SearchText = text
	c.params.PageIndex = 0
	return c.derive(), true
}

// FlushSearch applies any queued search immediately
func (c *Controller) FlushSearch() DerivedView {
	text, ok := c.debounce.Flush()
	if !ok {
		return c.current
	}
	c.params.SearchText = text
	c.params.PageIndex = 0
	return c.derive()
}

// ClearSearch drops any queued edit and clears the search text
func (c *Controller) ClearSearch() DerivedView {
	return c.SetSearch("")
}

// SearchPending reports whether a queued search edit has not been applied yet
func (c *Controller) SearchPending() bool {
	return c.debounce.Pending()
}

// SetStrategy selects a strategy tab
func (c *Controller) SetStrategy(f models.StrategyFilter) DerivedView {
	return c.SetParameter(models.DimStrategy, string(f))
}

// SetPerformance selects a performance bucket
func (c *Controller) SetPerformance(b models.PerformanceBucket) DerivedView {
	return c.SetParameter(models.DimPerformance, string(b))
}

// SetStatus selects a status filter
func (c *Controller) SetStatus(s models.StatusFilter) DerivedView {
	return c.SetParameter(models.DimStatus, string(s))
}

// ToggleSort activates a sort key. Activating the current key again flips the
// direction; a different key starts in its own default direction.
func (c *Controller) ToggleSort(key models.SortKey) DerivedView {
	if key == c.params.SortKey && key != models.SortNone {
		c.params.SortDirection = c.params.SortDirection.Toggle()
	} else {
		c.params.SortKey = key
		c.params.SortDirection = key.DefaultDirection()
	}
	c.params.PageIndex = 0
	return c.derive()
}

// SetSort sets key and direction explicitly
func (c *Controller) SetSort(key models.SortKey, dir models.SortDirection) DerivedView {
	c.params.SortKey = key
	c.params.SortDirection = dir
	c.params.PageIndex = 0
	return c.derive()
}

// SetPage moves to a zero-based page, clamped to the valid range
func (c *Controller) SetPage(index int) DerivedView {
	c.params.PageIndex = index
	return c.derive()
}

// NextPage moves forward one page if possible
func (c *Controller) NextPage() DerivedView {
	return c.SetPage(c.params.PageIndex + 1)
}

// PrevPage moves back one page if possible
func (c *Controller) PrevPage() DerivedView {
	if c.params.PageIndex == 0 {
		return c.current
	}
	return c.SetPage(c.params.PageIndex - 1)
}

// Reset restores every filter and sorts by URL ascending
func (c *Controller) Reset() DerivedView {
	c.debounce.Cancel()
	c.params = models.DefaultViewParameters(c.params.PageSize)
	c.params.SortKey = models.SortURL
	c.params.SortDirection = models.SortAsc
	return c.derive()
}

// View returns the most recently derived view
func (c *Controller) View() DerivedView {
	return c.current
}

// Params returns the current parameters
func (c *Controller) Params() models.ViewParameters {
	return c.params
}

// TabCounts returns per-tab totals over the whole store
func (c *Controller) TabCounts() map[models.StrategyFilter]int {
	return c.current.TabCounts
}

// IsEmpty reports whether the current filters match no records
func (c *Controller) IsEmpty() bool {
	return c.current.IsEmpty
}

// Filtered returns the full filtered and ordered set, across all pages
func (c *Controller) Filtered() []models.Record {
	return c.current.Filtered
}

// Record looks up a record by ID for the detail view
func (c *Controller) Record(id string) (models.Record, bool) {
	return c.store.Get(id)
}

// Store returns the underlying record store
func (c *Controller) Store() *Store {
	return c.store
}
