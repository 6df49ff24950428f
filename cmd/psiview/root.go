package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thesavant42/psiview/internal/api"
	"github.com/thesavant42/psiview/internal/config"
	"github.com/thesavant42/psiview/internal/db"
	"github.com/thesavant42/psiview/internal/models"
)

// app holds state shared by every subcommand once the root has resolved
// configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *log.Logger
	out     io.Writer
	errOut  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:      viper.New(),
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	root := &cobra.Command{
		Use:   "psiview",
		Short: "Browse, filter and export PageSpeed Insights results",
		Long: `psiview loads psi-map reports and raw PageSpeed Insights responses, stores them
in a local SQLite database and lets you search, filter, sort and page through the
results in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			a.errOut = cmd.ErrOrStderr()
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.psiview.yaml)")
	flags.String("db", "", "SQLite database path (default psiview.db)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag(config.KeyDB, flags.Lookup("db"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		newBrowseCmd(a),
		newImportCmd(a),
		newFetchCmd(a),
		newReportsCmd(a),
		newExportCmd(a),
		newSummaryCmd(a),
	)
	return root
}

// setup loads .env, the config file and the environment
func (a *app) setup() error {
	// Silently ignore a missing .env
	_ = godotenv.Load()

	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(a.errOut, "psiview")
	a.logger.Debug("Configuration loaded", "config", a.v.ConfigFileUsed(), "db", cfg.DBPath)
	return nil
}

func (a *app) openDB() (*db.DB, error) {
	database, err := db.New(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// source names where records come from: a report file or a stored report
type source struct {
	file   string
	report string
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.report, "report", "r", "", "stored report name")
}

func (s *source) fromArgs(args []string) error {
	if len(args) > 0 {
		if s.report != "" {
			return errors.New("pass either a report file or --report, not both")
		}
		s.file = args[0]
	}
	return nil
}

func (s source) empty() bool {
	return s.file == "" && s.report == ""
}

// title is the display name of the source
func (s source) title() string {
	if s.report != "" {
		return s.report
	}
	return filepath.Base(s.file)
}

// load reads records from the source. A stored report is remembered as the
// last one opened.
func (a *app) load(s source) ([]models.Record, error) {
	if s.file != "" {
		records, err := api.ParseReportFile(s.file)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("Report parsed", "file", s.file, "records", len(records))
		return records, nil
	}

	database, err := a.openDB()
	if err != nil {
		return nil, err
	}
	defer database.Close()

	records, err := database.GetRecords(s.report)
	if err != nil {
		return nil, err
	}
	if err := database.SetSetting(db.SettingLastReport, s.report); err != nil {
		a.logger.Warn("Could not remember last report", "err", err)
	}
	return records, nil
}

// lastReport returns the most recently opened stored report, or ""
func (a *app) lastReport() (string, error) {
	database, err := a.openDB()
	if err != nil {
		return "", err
	}
	defer database.Close()
	return database.GetSetting(db.SettingLastReport)
}
