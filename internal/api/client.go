package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/thesavant42/psiview/internal/models"
)

const (
	resultsPath   = "/api/results"
	clientTimeout = 60 * time.Second
	maxReportSize = 64 << 20
)

// ReportClient downloads audit results from a running psi-map server
type ReportClient struct {
	baseURL    string
	httpClient *retryablehttp.Client
	logger     *log.Logger
}

// NewReportClient creates a client for the server at baseURL. retries is the
// number of extra attempts on connection errors and 5xx responses.
func NewReportClient(baseURL string, retries int, logger *log.Logger) *ReportClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = clientTimeout
	if logger != nil {
		rc.Logger = leveledLogger{logger}
	} else {
		rc.Logger = nil
	}

	return &ReportClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: rc,
		logger:     logger,
	}
}

// ResultsURL returns the endpoint the client fetches from
func (c *ReportClient) ResultsURL() string {
	return c.baseURL + resultsPath
}

// FetchRecords downloads and parses every result the server holds
func (c *ReportClient) FetchRecords(ctx context.Context) ([]models.Record, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.ResultsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReportSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	records, err := ParseReport(body)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info("Results fetched", "url", c.ResultsURL(), "records", len(records))
	}
	return records, nil
}

// leveledLogger adapts a charmbracelet logger to retryablehttp.LeveledLogger
type leveledLogger struct {
	l *log.Logger
}

func (a leveledLogger) Error(msg string, keyvals ...interface{}) { a.l.Error(msg, keyvals...) }
func (a leveledLogger) Info(msg string, keyvals ...interface{})  { a.l.Info(msg, keyvals...) }
func (a leveledLogger) Debug(msg string, keyvals ...interface{}) { a.l.Debug(msg, keyvals...) }
func (a leveledLogger) Warn(msg string, keyvals ...interface{})  { a.l.Warn(msg, keyvals...) }
