package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thesavant42/psiview/internal/db"
)

const testReport = `[
  {
    "URL": "https://a.example.com/",
    "Mobile": {"url": "https://a.example.com/", "strategy": "mobile", "elapsed": 1000000000,
      "scores": {"performance": 95, "accessibility": 90, "best_practices": 100, "seo": 92}},
    "Desktop": {"url": "https://a.example.com/", "strategy": "desktop", "elapsed": 800000000,
      "scores": {"performance": 60, "accessibility": 90, "best_practices": 100, "seo": 92}}
  },
  {
    "URL": "https://b.example.com/",
    "Mobile": {"url": "https://b.example.com/", "strategy": "mobile", "elapsed": 4000000000,
      "scores": {"performance": 40, "accessibility": 70, "best_practices": 80, "seo": 85}},
    "Desktop": {"url": "https://b.example.com/", "strategy": "desktop", "error": "timeout"}
  }
]`

// testEnv isolates config lookup and the database in a temp directory
func testEnv(t *testing.T) (dir, report string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PSIVIEW_DB", filepath.Join(dir, "test.db"))

	report = filepath.Join(dir, "nightly.json")
	if err := os.WriteFile(report, []byte(testReport), 0644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return dir, report
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExportFromFile(t *testing.T) {
	_, report := testEnv(t)

	tests := []struct {
		name string
		args []string
		want []string // URL column of each data row, in order
	}{
		{
			name: "all records in input order",
			args: []string{"export", report},
			want: []string{"https://a.example.com/", "https://a.example.com/", "https://b.example.com/", "https://b.example.com/"},
		},
		{
			name: "mobile by performance",
			args: []string{"export", report, "--strategy", "mobile", "--sort", "performance"},
			want: []string{"https://a.example.com/", "https://b.example.com/"},
		},
		{
			name: "mobile by performance ascending",
			args: []string{"export", report, "--strategy", "mobile", "--sort", "performance", "--dir", "asc"},
			want: []string{"https://b.example.com/", "https://a.example.com/"},
		},
		{
			name: "errors only",
			args: []string{"export", report, "--status", "error"},
			want: []string{"https://b.example.com/"},
		},
		{
			name: "search",
			args: []string{"export", report, "--search", "a.example"},
			want: []string{"https://a.example.com/", "https://a.example.com/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("export error = %v", err)
			}

			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(lines) != len(tt.want)+1 {
				t.Fatalf("got %d lines, want header + %d rows:\n%s", len(lines), len(tt.want), out)
			}
			for i, url := range tt.want {
				if !strings.HasPrefix(lines[i+1], url+",") {
					t.Errorf("row %d = %q, want URL %s", i, lines[i+1], url)
				}
			}
		})
	}
}

func TestExportRejectsInvalidFlags(t *testing.T) {
	_, report := testEnv(t)

	tests := [][]string{
		{"export", report, "--strategy", "tablet"},
		{"export", report, "--sort", "size"},
		{"export", report, "--dir", "up"},
		{"export", report, "--format", "pdf"},
		{"export"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[1:], " "), func(t *testing.T) {
			if _, err := run(t, args...); err == nil {
				t.Errorf("expected error for %v", args)
			}
		})
	}
}

func TestExportFormatFromExtension(t *testing.T) {
	dir, report := testEnv(t)
	out := filepath.Join(dir, "results.md")

	if _, err := run(t, "export", report, "--out", out); err != nil {
		t.Fatalf("export error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "# PageSpeed Results: nightly.json") {
		t.Errorf("expected markdown export, got:\n%s", data)
	}
}

func TestImportListDelete(t *testing.T) {
	_, report := testEnv(t)

	out, err := run(t, "import", report, "--force")
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, `Stored 4 records as "nightly"`) {
		t.Errorf("import output = %q", out)
	}

	out, err = run(t, "reports")
	if err != nil {
		t.Fatalf("reports error = %v", err)
	}
	if !strings.Contains(out, "nightly") {
		t.Errorf("reports output missing nightly:\n%s", out)
	}

	out, err = run(t, "export", "--report", "nightly", "--status", "success")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if got := strings.Count(strings.TrimSpace(out), "\n"); got != 3 {
		t.Errorf("stored export has %d rows, want 3:\n%s", got, out)
	}

	out, err = run(t, "summary", "--report", "nightly")
	if err != nil {
		t.Fatalf("summary error = %v", err)
	}
	if !strings.Contains(out, "Summary: nightly") {
		t.Errorf("summary output:\n%s", out)
	}

	if _, err := run(t, "reports", "delete", "nightly"); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	_, err = run(t, "export", "--report", "nightly")
	if !errors.Is(err, db.ErrReportNotFound) {
		t.Errorf("export after delete error = %v, want ErrReportNotFound", err)
	}
}

func TestReportsDatabases(t *testing.T) {
	dir, report := testEnv(t)

	if _, err := run(t, "import", report, "--name", "x", "--force"); err != nil {
		t.Fatalf("import error = %v", err)
	}
	out, err := run(t, "reports", "--databases")
	if err != nil {
		t.Fatalf("reports error = %v", err)
	}
	if !strings.Contains(out, filepath.Join(dir, "test.db")) {
		t.Errorf("databases output = %q", out)
	}
}

func TestDefaultFetchName(t *testing.T) {
	tests := map[string]string{
		"https://psi.example.co.uk":   "example.co.uk",
		"http://localhost:8080":       "fetched",
		"http://127.0.0.1:8080":       "fetched",
		"https://reports.example.com": "example.com",
	}
	for in, want := range tests {
		if got := defaultFetchName(in); got != want {
			t.Errorf("defaultFetchName(%q) = %q, want %q", in, got, want)
		}
	}
}
