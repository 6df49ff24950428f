package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/thesavant42/psiview/internal/models"
)

// Config keys
const (
	KeyDB             = "db"
	KeyPageSize       = "page_size"
	KeySearchDebounce = "search_debounce"
	KeyLogLevel       = "log_level"
	KeyLogFile        = "log_file"
	KeyServerURL      = "server_url"
	KeyHTTPRetries    = "http_retries"
)

// Defaults
const (
	DefaultDB             = "psiview.db"
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultLogLevel       = "info"
	DefaultHTTPRetries    = 3
	EnvPrefix             = "PSIVIEW"
	configName            = ".psiview"
)

// Config is the resolved application configuration
type Config struct {
	DBPath         string
	PageSize       int
	SearchDebounce time.Duration
	LogLevel       log.Level
	LogFile        string
	ServerURL      string
	HTTPRetries    int
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, DefaultDB)
	v.SetDefault(KeyPageSize, models.DefaultPageSize)
	v.SetDefault(KeySearchDebounce, DefaultSearchDebounce)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyServerURL, "")
	v.SetDefault(KeyHTTPRetries, DefaultHTTPRetries)
}

// Init points v at cfgFile, or $HOME/.psiview.yaml when cfgFile is empty,
// and enables PSIVIEW_ environment overrides. A missing config file is not
// an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if cfgFile == "" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load resolves and validates the configuration held by v
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DBPath:         strings.TrimSpace(v.GetString(KeyDB)),
		PageSize:       v.GetInt(KeyPageSize),
		SearchDebounce: v.GetDuration(KeySearchDebounce),
		LogFile:        strings.TrimSpace(v.GetString(KeyLogFile)),
		ServerURL:      strings.TrimSpace(v.GetString(KeyServerURL)),
		HTTPRetries:    v.GetInt(KeyHTTPRetries),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDB
	}
	if expanded, err := homedir.Expand(cfg.DBPath); err == nil {
		cfg.DBPath = expanded
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = models.DefaultPageSize
	}
	if cfg.SearchDebounce < 0 {
		cfg.SearchDebounce = DefaultSearchDebounce
	}
	if cfg.HTTPRetries < 0 {
		cfg.HTTPRetries = 0
	}

	level, err := log.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

// NewLogger builds a logger at the configured level writing to w
func (c Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           c.LogLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
}

// OpenLogFile opens the configured log file for appending. With no log file
// configured it returns io.Discard, so full-screen views stay clean.
func (c Config) OpenLogFile() (io.Writer, func() error, error) {
	if c.LogFile == "" {
		return io.Discard, func() error { return nil }, nil
	}
	path, err := homedir.Expand(c.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log file path: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f.Close, nil
}
