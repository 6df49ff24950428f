package api

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/thesavant42/psiview/internal/models"
	"github.com/tidwall/gjson"
	"golang.org/x/net/publicsuffix"
)

var (
	// ErrEmptyReport is returned when a report parses but holds no audits
	ErrEmptyReport = errors.New("report contains no audit results")
	// ErrUnrecognizedReport is returned for JSON that is not a known report shape
	ErrUnrecognizedReport = errors.New("unrecognized report format")
)

// recordNamespace seeds the name-based UUIDs used as record IDs
var recordNamespace = uuid.MustParse("6f1c3b9e-2d4a-4c8e-9a57-0b3f5e2d7c41")

// Lighthouse category keys in a raw PSI response
var lighthouseCategories = map[models.Category]string{
	models.CategoryPerformance:   "performance",
	models.CategoryAccessibility: "accessibility",
	models.CategoryBestPractices: "best-practices",
	models.CategorySEO:           "seo",
}

// Audits reported as improvement opportunities
var opportunityAudits = []string{
	"unused-css-rules",
	"unused-javascript",
	"modern-image-formats",
	"efficiently-encode-images",
	"render-blocking-resources",
	"unminified-css",
	"unminified-javascript",
	"legacy-javascript",
	"largest-contentful-paint-element",
}

// ParseReportFile reads and parses a report from disk
func ParseReportFile(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	records, err := ParseReport(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// ParseReport converts report JSON into records. Accepted shapes:
//   - an array of pages, each with Mobile and Desktop results
//   - an array of flat results, each with a strategy
//   - an object with a "results" array of flat results
//   - a single raw PageSpeed Insights API response
func ParseReport(data []byte) ([]models.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrUnrecognizedReport)
	}
	root := gjson.ParseBytes(data)

	var results []gjson.Result
	switch {
	case root.IsArray():
		results = flattenResults(root.Array())
	case root.Get("lighthouseResult").Exists():
		results = []gjson.Result{root}
	case root.Get("results").IsArray():
		results = flattenResults(root.Get("results").Array())
	default:
		return nil, ErrUnrecognizedReport
	}

	if len(results) == 0 {
		return nil, ErrEmptyReport
	}

	records := make([]models.Record, 0, len(results))
	seen := make(map[string]int)
	for _, res := range results {
		var r models.Record
		if res.Get("lighthouseResult").Exists() {
			r = recordFromPSI(res)
		} else {
			r = recordFromResult(res)
		}
		if r.URL == "" {
			continue
		}

		key := r.URL + "|" + string(r.Strategy)
		r.ID = RecordID(r.URL, r.Strategy, seen[key])
		seen[key]++

		if domain, err := ExtractRootDomain(r.URL); err == nil {
			r.RootDomain = domain
		}
		records = append(records, r)
	}

	if len(records) == 0 {
		return nil, ErrEmptyReport
	}
	return records, nil
}

// flattenResults expands page entries into their per-strategy results
func flattenResults(items []gjson.Result) []gjson.Result {
	var out []gjson.Result
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		mobile, desktop := item.Get("Mobile"), item.Get("Desktop")
		if mobile.Exists() || desktop.Exists() {
			for _, res := range []gjson.Result{mobile, desktop} {
				if res.IsObject() {
					out = append(out, res)
				}
			}
			continue
		}
		out = append(out, item)
	}
	return out
}

// RecordID derives a stable ID for the nth audit of url with strategy
func RecordID(rawURL string, strategy models.Strategy, n int) string {
	name := fmt.Sprintf("%s|%s|%d", rawURL, strategy, n)
	return uuid.NewSHA1(recordNamespace, []byte(name)).String()
}

func parseStrategy(s string) models.Strategy {
	if strings.EqualFold(strings.TrimSpace(s), string(models.StrategyDesktop)) {
		return models.StrategyDesktop
	}
	return models.StrategyMobile
}

// recordFromResult converts one psi-map result
func recordFromResult(res gjson.Result) models.Record {
	r := models.Record{
		URL:      strings.TrimSpace(res.Get("url").String()),
		FinalURL: strings.TrimSpace(res.Get("final_url").String()),
		Strategy: parseStrategy(res.Get("strategy").String()),
	}

	if elapsed := res.Get("elapsed").Float(); elapsed > 0 {
		loadMs := elapsed / 1e6
		r.LoadTimeMs = &loadMs
	}

	if scores := res.Get("scores"); scores.IsObject() {
		r.Scores = models.Scores{}
		for _, c := range models.Categories {
			r.Scores[c] = roundScore(scores.Get(string(c)).Float())
		}
	}

	if m := res.Get("metrics"); m.IsObject() {
		r.Metrics = &models.Metrics{
			FirstContentfulPaint:   m.Get("first_contentful_paint").Float(),
			LargestContentfulPaint: m.Get("largest_contentful_paint").Float(),
			FirstInputDelay:        m.Get("first_input_delay").Float(),
			CumulativeLayoutShift:  m.Get("cumulative_layout_shift").Float(),
			SpeedIndex:             m.Get("speed_index").Float(),
			TimeToInteractive:      m.Get("time_to_interactive").Float(),
			TotalBlockingTime:      m.Get("total_blocking_time").Float(),
			DOMSize:                m.Get("dom_size").Float(),
			ResourceCount:          int(m.Get("resource_count").Int()),
			TransferSize:           m.Get("transfer_size").Int(),
		}
	}

	res.Get("opportunities").ForEach(func(_, o gjson.Result) bool {
		r.Opportunities = append(r.Opportunities, models.Opportunity{
			ID:               o.Get("id").String(),
			Title:            o.Get("title").String(),
			Description:      o.Get("description").String(),
			Impact:           o.Get("impact").String(),
			PotentialSavings: o.Get("potential_savings").Float(),
		})
		return true
	})

	r.Status, r.ErrorMessage = resultStatus(res.Get("error"), r.Scores != nil)
	return r
}

// resultStatus classifies a result. Go errors serialize as {} so any
// non-null, non-empty error value marks a failure.
func resultStatus(errVal gjson.Result, hasScores bool) (models.Status, string) {
	switch errVal.Type {
	case gjson.Null, gjson.False:
	case gjson.String:
		if msg := strings.TrimSpace(errVal.String()); msg != "" {
			return models.StatusError, msg
		}
	case gjson.JSON:
		if m := errVal.Get("message").String(); m != "" {
			return models.StatusError, m
		}
		return models.StatusError, "audit failed"
	default:
		return models.StatusError, errVal.Raw
	}
	if hasScores {
		return models.StatusSuccess, ""
	}
	return models.StatusUnknown, ""
}

// recordFromPSI converts a raw PageSpeed Insights API response
func recordFromPSI(res gjson.Result) models.Record {
	lr := res.Get("lighthouseResult")

	r := models.Record{
		URL:      strings.TrimSpace(lr.Get("requestedUrl").String()),
		FinalURL: strings.TrimSpace(lr.Get("finalDisplayedUrl").String()),
		Strategy: parseStrategy(lr.Get("configSettings.formFactor").String()),
	}
	if r.URL == "" {
		r.URL = strings.TrimSpace(res.Get("id").String())
	}
	if r.FinalURL == "" {
		r.FinalURL = strings.TrimSpace(lr.Get("finalUrl").String())
	}

	if cats := lr.Get("categories"); cats.IsObject() {
		r.Scores = models.Scores{}
		for c, key := range lighthouseCategories {
			r.Scores[c] = roundScore(cats.Get(key + ".score").Float() * 100)
		}
	}

	audits := lr.Get("audits")
	numeric := func(id string) float64 {
		return audits.Get(id + ".numericValue").Float()
	}

	if si := audits.Get("speed-index.numericValue"); si.Exists() && si.Float() > 0 {
		loadMs := si.Float()
		r.LoadTimeMs = &loadMs
	}

	if audits.IsObject() {
		r.Metrics = &models.Metrics{
			FirstContentfulPaint:   numeric("first-contentful-paint"),
			LargestContentfulPaint: numeric("largest-contentful-paint"),
			FirstInputDelay:        numeric("max-potential-fid"),
			CumulativeLayoutShift:  numeric("cumulative-layout-shift"),
			SpeedIndex:             numeric("speed-index"),
			TimeToInteractive:      numeric("interactive"),
			TotalBlockingTime:      numeric("total-blocking-time"),
			DOMSize:                numeric("dom-size"),
			ResourceCount:          int(audits.Get("network-requests.details.items.#").Int()),
			TransferSize:           sumTransferSize(audits.Get("network-requests.details.items")),
		}

		for _, id := range opportunityAudits {
			a := audits.Get(id)
			if !a.Exists() || !a.Get("details").Exists() {
				continue
			}
			r.Opportunities = append(r.Opportunities, models.Opportunity{
				ID:               id,
				Title:            a.Get("title").String(),
				Description:      a.Get("description").String(),
				Impact:           auditImpact(a.Get("score")),
				PotentialSavings: a.Get("numericValue").Float(),
			})
		}
	}

	if msg := res.Get("error.message").String(); msg != "" {
		r.Status, r.ErrorMessage = models.StatusError, msg
	} else if rt := lr.Get("runtimeError.message").String(); rt != "" {
		r.Status, r.ErrorMessage = models.StatusError, rt
	} else if r.Scores != nil {
		r.Status = models.StatusSuccess
	} else {
		r.Status = models.StatusUnknown
	}
	return r
}

func sumTransferSize(items gjson.Result) int64 {
	var total int64
	items.ForEach(func(_, item gjson.Result) bool {
		total += item.Get("transferSize").Int()
		return true
	})
	return total
}

// auditImpact grades an audit score into High/Medium/Low
func auditImpact(score gjson.Result) string {
	if !score.Exists() || score.Type == gjson.Null {
		return ""
	}
	switch s := score.Float(); {
	case s < 0.5:
		return "High"
	case s < 0.9:
		return "Medium"
	default:
		return "Low"
	}
}

func roundScore(v float64) int {
	return int(math.Round(v))
}

// ExtractRootDomain extracts the registrable domain from a URL or hostname.
// Uses publicsuffix so that multi-label suffixes like .co.uk are handled.
//   - "https://www.example.co.uk/a" -> "example.co.uk"
//   - "blog.example.com" -> "example.com"
func ExtractRootDomain(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty input")
	}

	if strings.Contains(input, "://") {
		parsed, err := url.Parse(input)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		input = parsed.Hostname()
	} else if i := strings.IndexAny(input, "/:"); i >= 0 {
		input = input[:i]
	}

	input = strings.TrimSuffix(strings.ToLower(input), ".")

	rootDomain, err := publicsuffix.EffectiveTLDPlusOne(input)
	if err != nil {
		return "", fmt.Errorf("failed to extract root domain: %w", err)
	}
	return rootDomain, nil
}
