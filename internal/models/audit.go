package models

import "time"

// Strategy is the device profile an audit ran with
type Strategy string

const (
	StrategyMobile  Strategy = "mobile"
	StrategyDesktop Strategy = "desktop"
)

// Strategies lists strategies in tab order
var Strategies = []Strategy{StrategyMobile, StrategyDesktop}

// Status is the outcome of a single audit
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusUnknown Status = "unknown"
)

// Category is a Lighthouse scoring category
type Category string

const (
	CategoryPerformance   Category = "performance"
	CategoryAccessibility Category = "accessibility"
	CategoryBestPractices Category = "best_practices"
	CategorySEO           Category = "seo"
)

// Categories lists categories in display order
var Categories = []Category{
	CategoryPerformance,
	CategoryAccessibility,
	CategoryBestPractices,
	CategorySEO,
}

// Title returns the human-readable category name
func (c Category) Title() string {
	switch c {
	case CategoryPerformance:
		return "Performance"
	case CategoryAccessibility:
		return "Accessibility"
	case CategoryBestPractices:
		return "Best Practices"
	case CategorySEO:
		return "SEO"
	default:
		return string(c)
	}
}

// Scores maps a category to its 0-100 score. A nil map means the audit produced no scores.
type Scores map[Category]int

// Record is one audited URL/strategy pair. Records are never mutated after construction.
type Record struct {
	ID            string        `json:"id"`
	URL           string        `json:"url"`
	FinalURL      string        `json:"final_url,omitempty"`
	RootDomain    string        `json:"root_domain,omitempty"`
	Strategy      Strategy      `json:"strategy"`
	Status        Status        `json:"status"`
	ErrorMessage  string        `json:"error,omitempty"`
	Scores        Scores        `json:"scores,omitempty"`
	LoadTimeMs    *float64      `json:"load_time_ms,omitempty"` // nil when unavailable
	Metrics       *Metrics      `json:"metrics,omitempty"`
	Opportunities []Opportunity `json:"opportunities,omitempty"`
}

// Score returns the score for a category and whether it is present
func (r Record) Score(c Category) (int, bool) {
	if r.Scores == nil {
		return 0, false
	}
	s, ok := r.Scores[c]
	return s, ok
}

// LoadTime returns the load time in milliseconds and whether it is present
func (r Record) LoadTime() (float64, bool) {
	if r.LoadTimeMs == nil {
		return 0, false
	}
	return *r.LoadTimeMs, true
}

// Metrics contains core web vitals and lab performance metrics
type Metrics struct {
	FirstContentfulPaint   float64 `json:"first_contentful_paint"`   // ms
	LargestContentfulPaint float64 `json:"largest_contentful_paint"` // ms
	FirstInputDelay        float64 `json:"first_input_delay"`        // ms
	CumulativeLayoutShift  float64 `json:"cumulative_layout_shift"`
	SpeedIndex             float64 `json:"speed_index"`         // ms
	TimeToInteractive      float64 `json:"time_to_interactive"` // ms
	TotalBlockingTime      float64 `json:"total_blocking_time"` // ms
	DOMSize                float64 `json:"dom_size"`
	ResourceCount          int     `json:"resource_count"`
	TransferSize           int64   `json:"transfer_size"` // bytes
}

// Core Web Vitals grades
const (
	GradeGood             = "good"
	GradeNeedsImprovement = "needs-improvement"
	GradePoor             = "poor"
)

// Grades returns a grade per core web vital (fcp, lcp, cls, fid)
func (m *Metrics) Grades() map[string]string {
	grade := func(v, good, poor float64) string {
		switch {
		case v < good:
			return GradeGood
		case v < poor:
			return GradeNeedsImprovement
		default:
			return GradePoor
		}
	}

	return map[string]string{
		"fcp": grade(m.FirstContentfulPaint, 1800, 3000),
		"lcp": grade(m.LargestContentfulPaint, 2500, 4000),
		"cls": grade(m.CumulativeLayoutShift, 0.1, 0.25),
		"fid": grade(m.FirstInputDelay, 100, 300),
	}
}

// Opportunity is a suggested improvement. Description is Lighthouse markdown.
type Opportunity struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Impact           string  `json:"impact"`            // "High", "Medium", "Low"
	PotentialSavings float64 `json:"potential_savings"` // ms
}

// ReportInfo describes an imported report stored in the database
type ReportInfo struct {
	Name        string
	Source      string // file path or server URL the report came from
	RecordCount int
	ImportedAt  time.Time
}

// ReportSummary contains aggregate statistics over a record list
type ReportSummary struct {
	TotalRecords      int
	SuccessfulRecords int
	FailedRecords     int
	AverageScores     map[Category]float64
	ScoreDistribution map[Category][3]int // good, needs improvement, poor
	Fastest           *Record
	Slowest           *Record
}
