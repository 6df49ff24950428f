package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBPath != DefaultDB || cfg.PageSize != 10 || cfg.SearchDebounce != 300*time.Millisecond {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.LogLevel != log.InfoLevel || cfg.HTTPRetries != 3 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestInitReadsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psiview.yaml")
	content := "page_size: 25\nsearch_debounce: 150ms\nlog_level: debug\nserver_url: http://localhost:8080\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PSIVIEW_HTTP_RETRIES", "7")

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PageSize != 25 || cfg.SearchDebounce != 150*time.Millisecond {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != log.DebugLevel || cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.HTTPRetries != 7 {
		t.Errorf("HTTPRetries = %d, want 7 from env", cfg.HTTPRetries)
	}
}

func TestLoadNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
		check func(Config) bool
	}{
		{"zero page size", KeyPageSize, 0, func(c Config) bool { return c.PageSize == 10 }},
		{"negative page size", KeyPageSize, -4, func(c Config) bool { return c.PageSize == 10 }},
		{"negative debounce", KeySearchDebounce, "-1s", func(c Config) bool { return c.SearchDebounce == DefaultSearchDebounce }},
		{"zero debounce allowed", KeySearchDebounce, "0s", func(c Config) bool { return c.SearchDebounce == 0 }},
		{"negative retries", KeyHTTPRetries, -2, func(c Config) bool { return c.HTTPRetries == 0 }},
		{"blank db", KeyDB, "  ", func(c Config) bool { return c.DBPath == DefaultDB }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)
			cfg, err := Load(v)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Load() = %+v", cfg)
			}
		})
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyLogLevel, "loud")
	if _, err := Load(v); err == nil || !strings.Contains(err.Error(), KeyLogLevel) {
		t.Errorf("Load() error = %v, want log_level error", err)
	}
}

func TestOpenLogFile(t *testing.T) {
	w, closeFn, err := Config{}.OpenLogFile()
	if err != nil || w == nil {
		t.Fatalf("OpenLogFile() with no file = %v, %v", w, err)
	}
	closeFn()

	path := filepath.Join(t.TempDir(), "logs", "psiview.log")
	cfg := Config{LogFile: path, LogLevel: log.InfoLevel}
	w, closeFn, err = cfg.OpenLogFile()
	if err != nil {
		t.Fatalf("OpenLogFile() error = %v", err)
	}
	cfg.NewLogger(w, "test").Info("hello")
	closeFn()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q", data)
	}
}
