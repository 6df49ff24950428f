package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/thesavant42/psiview/internal/models"
)

const pageReport = `[
  {
    "URL": "https://www.example.com/",
    "Mobile": {
      "url": "https://www.example.com/",
      "final_url": "https://www.example.com/home",
      "strategy": "mobile",
      "elapsed": 2500000000,
      "scores": {"performance": 87.6, "accessibility": 92, "best_practices": 100, "seo": 90},
      "metrics": {"first_contentful_paint": 1500, "largest_contentful_paint": 3200, "cumulative_layout_shift": 0.05},
      "opportunities": [{"id": "unused-css-rules", "title": "Reduce unused CSS", "description": "See [docs](https://web.dev)", "impact": "High", "potential_savings": 450}]
    },
    "Desktop": {
      "url": "https://www.example.com/",
      "strategy": "desktop",
      "elapsed": 900000000,
      "error": {}
    },
    "Duration": 3400000000
  },
  {
    "URL": "https://blog.test.co.uk/post",
    "Mobile": {
      "url": "https://blog.test.co.uk/post",
      "strategy": "mobile",
      "elapsed": 0
    },
    "Desktop": null
  }
]`

func TestParseReportPages(t *testing.T) {
	records, err := ParseReport([]byte(pageReport))
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	m := records[0]
	if m.Strategy != models.StrategyMobile || m.Status != models.StatusSuccess {
		t.Errorf("mobile record = %s/%s", m.Strategy, m.Status)
	}
	if got, _ := m.Score(models.CategoryPerformance); got != 88 {
		t.Errorf("performance = %d, want 88 (rounded)", got)
	}
	if lt, ok := m.LoadTime(); !ok || lt != 2500 {
		t.Errorf("LoadTime() = %v, %v, want 2500", lt, ok)
	}
	if m.RootDomain != "example.com" || m.FinalURL != "https://www.example.com/home" {
		t.Errorf("domain/final = %q/%q", m.RootDomain, m.FinalURL)
	}
	if m.Metrics == nil || m.Metrics.LargestContentfulPaint != 3200 {
		t.Errorf("Metrics = %+v", m.Metrics)
	}
	if len(m.Opportunities) != 1 || m.Opportunities[0].PotentialSavings != 450 {
		t.Errorf("Opportunities = %+v", m.Opportunities)
	}

	d := records[1]
	if d.Strategy != models.StrategyDesktop || d.Status != models.StatusError || d.ErrorMessage == "" {
		t.Errorf("desktop record = %s/%s/%q", d.Strategy, d.Status, d.ErrorMessage)
	}
	if d.Scores != nil {
		t.Errorf("failed audit has scores %v", d.Scores)
	}

	u := records[2]
	if u.Status != models.StatusUnknown {
		t.Errorf("status = %s, want unknown", u.Status)
	}
	if _, ok := u.LoadTime(); ok {
		t.Errorf("zero elapsed should leave load time absent")
	}
	if u.RootDomain != "test.co.uk" {
		t.Errorf("RootDomain = %q, want test.co.uk", u.RootDomain)
	}

	if m.ID == "" || m.ID == d.ID {
		t.Errorf("IDs not distinct: %q %q", m.ID, d.ID)
	}
	again, _ := ParseReport([]byte(pageReport))
	if again[0].ID != m.ID {
		t.Errorf("IDs are not stable across parses")
	}
}

func TestParseReportWrapper(t *testing.T) {
	data := `{"generated": "2024-01-01T00:00:00Z", "results": [
		{"url": "https://a.dev", "strategy": "desktop", "scores": {"performance": 55}},
		{"url": "https://a.dev", "strategy": "desktop", "error": "context deadline exceeded"}
	]}`
	records, err := ParseReport([]byte(data))
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d", len(records))
	}
	if records[1].ErrorMessage != "context deadline exceeded" {
		t.Errorf("ErrorMessage = %q", records[1].ErrorMessage)
	}
	if records[0].ID == records[1].ID {
		t.Errorf("duplicate url/strategy pairs share an ID")
	}
}

const psiResponse = `{
  "id": "https://example.org/",
  "lighthouseResult": {
    "requestedUrl": "https://example.org/",
    "finalDisplayedUrl": "https://example.org/",
    "configSettings": {"formFactor": "desktop"},
    "categories": {
      "performance": {"score": 0.42},
      "accessibility": {"score": 0.9},
      "best-practices": {"score": 1},
      "seo": {"score": 0.815}
    },
    "audits": {
      "speed-index": {"numericValue": 3120.5},
      "first-contentful-paint": {"numericValue": 1200},
      "cumulative-layout-shift": {"numericValue": 0.3},
      "render-blocking-resources": {"title": "Eliminate render-blocking resources", "score": 0.3, "numericValue": 800, "details": {"type": "opportunity"}},
      "unused-javascript": {"title": "Reduce unused JavaScript", "score": 0.95},
      "network-requests": {"details": {"items": [{"transferSize": 1000}, {"transferSize": 2500}]}}
    }
  }
}`

func TestParseReportRawPSI(t *testing.T) {
	records, err := ParseReport([]byte(psiResponse))
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d", len(records))
	}
	r := records[0]

	want := map[models.Category]int{
		models.CategoryPerformance:   42,
		models.CategoryAccessibility: 90,
		models.CategoryBestPractices: 100,
		models.CategorySEO:           82,
	}
	for c, w := range want {
		if got, _ := r.Score(c); got != w {
			t.Errorf("%s = %d, want %d", c, got, w)
		}
	}
	if r.Strategy != models.StrategyDesktop || r.Status != models.StatusSuccess {
		t.Errorf("record = %s/%s", r.Strategy, r.Status)
	}
	if lt, _ := r.LoadTime(); lt != 3120.5 {
		t.Errorf("LoadTime() = %v", lt)
	}
	if r.Metrics.ResourceCount != 2 || r.Metrics.TransferSize != 3500 {
		t.Errorf("resources = %d/%d", r.Metrics.ResourceCount, r.Metrics.TransferSize)
	}
	if len(r.Opportunities) != 1 || r.Opportunities[0].Impact != "High" {
		t.Errorf("Opportunities = %+v", r.Opportunities)
	}
}

func TestParseReportErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"invalid json", `{"results": [`, ErrUnrecognizedReport},
		{"unknown object", `{"foo": 1}`, ErrUnrecognizedReport},
		{"empty array", `[]`, ErrEmptyReport},
		{"no urls", `[{"strategy": "mobile"}]`, ErrEmptyReport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReport([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseReport() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte(pageReport), 0644); err != nil {
		t.Fatal(err)
	}
	records, err := ParseReportFile(path)
	if err != nil || len(records) != 3 {
		t.Errorf("ParseReportFile() = %d records, %v", len(records), err)
	}

	if _, err := ParseReportFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("ParseReportFile(missing) returned no error")
	}
}

func TestExtractRootDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.example.com/a?b=c", "example.com"},
		{"http://shop.example.co.uk:8080/", "example.co.uk"},
		{"blog.example.com", "example.com"},
		{"example.com/path", "example.com"},
		{"EXAMPLE.com.", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ExtractRootDomain(tt.input)
			if err != nil {
				t.Fatalf("ExtractRootDomain() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractRootDomain() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ExtractRootDomain("   "); err == nil {
		t.Errorf("ExtractRootDomain(empty) returned no error")
	}
}

func TestReportClientFetch(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/results" {
			http.NotFound(w, r)
			return
		}
		// First attempt fails to exercise the retry path
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(pageReport))
	}))
	defer srv.Close()

	client := NewReportClient(srv.URL+"/", 2, nil)
	client.httpClient.RetryWaitMin = 0
	client.httpClient.RetryWaitMax = 0

	records, err := client.FetchRecords(context.Background())
	if err != nil {
		t.Fatalf("FetchRecords() error = %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len(records) = %d, want 3", len(records))
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Errorf("server hit %d times, want 2", hits)
	}
}

func TestReportClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewReportClient(srv.URL, 0, nil)
	if _, err := client.FetchRecords(context.Background()); err == nil {
		t.Errorf("FetchRecords() returned no error for 404")
	}
	if _, err := NewReportClient("", 0, nil).FetchRecords(context.Background()); err == nil {
		t.Errorf("FetchRecords() with empty base URL returned no error")
	}
}
