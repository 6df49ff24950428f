package models

import "strings"

// StrategyFilter selects which strategy tab is active
type StrategyFilter string

const (
	TabAll     StrategyFilter = "all"
	TabMobile  StrategyFilter = StrategyFilter(StrategyMobile)
	TabDesktop StrategyFilter = StrategyFilter(StrategyDesktop)
)

// StrategyFilters lists tabs in display order
var StrategyFilters = []StrategyFilter{TabAll, TabMobile, TabDesktop}

// PerformanceBucket narrows records by performance score
type PerformanceBucket string

const (
	BucketAll       PerformanceBucket = "all"
	BucketExcellent PerformanceBucket = "excellent" // >= 90
	BucketGood      PerformanceBucket = "good"      // 50-89
	BucketPoor      PerformanceBucket = "poor"      // < 50
)

// PerformanceBuckets lists buckets in dropdown order
var PerformanceBuckets = []PerformanceBucket{BucketAll, BucketExcellent, BucketGood, BucketPoor}

// StatusFilter narrows records by audit status
type StatusFilter string

const (
	StatusFilterAll     StatusFilter = "all"
	StatusFilterSuccess StatusFilter = "success"
	StatusFilterError   StatusFilter = "error"
)

// StatusFilters lists status options in dropdown order
var StatusFilters = []StatusFilter{StatusFilterAll, StatusFilterSuccess, StatusFilterError}

// SortKey selects the comparator applied to the filtered set
type SortKey string

const (
	SortNone          SortKey = "none"
	SortURL           SortKey = "url"
	SortPerformance   SortKey = "performance"
	SortAccessibility SortKey = "accessibility"
	SortLoadTime      SortKey = "loadtime"
)

// SortKeys lists sort keys in dropdown order
var SortKeys = []SortKey{SortNone, SortURL, SortPerformance, SortAccessibility, SortLoadTime}

// DefaultDirection is the direction a key starts with when first selected.
// Scores sort best-first, load time fastest-first, URLs alphabetically.
func (k SortKey) DefaultDirection() SortDirection {
	switch k {
	case SortPerformance, SortAccessibility:
		return SortDesc
	default:
		return SortAsc
	}
}

// SortDirection is ascending or descending
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Toggle returns the opposite direction
func (d SortDirection) Toggle() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// Dimension names one independently settable view parameter
type Dimension string

const (
	DimSearch      Dimension = "search"
	DimStrategy    Dimension = "strategy"
	DimPerformance Dimension = "performance"
	DimStatus      Dimension = "status"
	DimSort        Dimension = "sort"
	DimDirection   Dimension = "direction"
	DimPage        Dimension = "page"
)

// DefaultPageSize is the number of rows shown per page
const DefaultPageSize = 10

// ViewParameters is the complete mutable state of a report view
type ViewParameters struct {
	SearchText        string
	StrategyFilter    StrategyFilter
	PerformanceBucket PerformanceBucket
	StatusFilter      StatusFilter
	SortKey           SortKey
	SortDirection     SortDirection
	PageIndex         int // zero-based
	PageSize          int
}

// DefaultViewParameters returns the initial parameters for a fresh view
func DefaultViewParameters(pageSize int) ViewParameters {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ViewParameters{
		StrategyFilter:    TabAll,
		PerformanceBucket: BucketAll,
		StatusFilter:      StatusFilterAll,
		SortKey:           SortNone,
		SortDirection:     SortAsc,
		PageSize:          pageSize,
	}
}

// ParseStrategyFilter parses a tab name. ok is false for unrecognized values, which map to all.
func ParseStrategyFilter(s string) (StrategyFilter, bool) {
	for _, f := range StrategyFilters {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f, true
		}
	}
	return TabAll, false
}

// ParsePerformanceBucket parses a bucket name, falling back to all
func ParsePerformanceBucket(s string) (PerformanceBucket, bool) {
	for _, b := range PerformanceBuckets {
		if strings.EqualFold(strings.TrimSpace(s), string(b)) {
			return b, true
		}
	}
	return BucketAll, false
}

// ParseStatusFilter parses a status filter, falling back to all
func ParseStatusFilter(s string) (StatusFilter, bool) {
	for _, f := range StatusFilters {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f, true
		}
	}
	return StatusFilterAll, false
}

// ParseSortKey parses a sort key, falling back to none
func ParseSortKey(s string) (SortKey, bool) {
	for _, k := range SortKeys {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, true
		}
	}
	return SortNone, false
}

// ParseSortDirection parses asc/desc, falling back to asc
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SortAsc):
		return SortAsc, true
	case string(SortDesc):
		return SortDesc, true
	}
	return SortAsc, false
}
