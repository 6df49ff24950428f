package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thesavant42/psiview/internal/ui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		src       source
		last      bool
		exportDir string
	)

	cmd := &cobra.Command{
		Use:   "browse [report.json]",
		Short: "Browse results in the terminal UI",
		Long: `Browse opens a report file, a stored report (--report NAME) or, with neither,
a picker of stored reports. With no stored reports you are prompted for a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := src.fromArgs(args); err != nil {
				return err
			}

			if last && src.empty() {
				name, err := a.lastReport()
				if err != nil {
					return err
				}
				if name == "" {
					return fmt.Errorf("no report has been opened yet")
				}
				src.report = name
			}

			if src.empty() {
				picked, ok, err := a.pickSource()
				if err != nil || !ok {
					return err
				}
				src = picked
			}

			records, err := a.load(src)
			if err != nil {
				return err
			}

			// Logs would corrupt the alt screen, so they go to the log file
			w, closeLog, err := a.cfg.OpenLogFile()
			if err != nil {
				return err
			}
			defer closeLog()

			return ui.RunBrowser(records, ui.BrowserConfig{
				Title:          src.title(),
				PageSize:       a.cfg.PageSize,
				SearchDebounce: a.cfg.SearchDebounce,
				ExportDir:      exportDir,
				Logger:         a.cfg.NewLogger(w, "browse"),
			})
		},
	}

	src.bind(cmd)
	cmd.Flags().BoolVar(&last, "last", false, "open the most recently browsed stored report")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "directory for exports made from the browser (default: working directory)")
	return cmd
}

// pickSource asks the user which report to open. ok is false when the user
// cancelled.
func (a *app) pickSource() (source, bool, error) {
	database, err := a.openDB()
	if err != nil {
		return source{}, false, err
	}
	reports, err := database.GetReports()
	database.Close()
	if err != nil {
		return source{}, false, err
	}

	if len(reports) > 0 {
		name, err := ui.RunReportSelector(reports)
		if err != nil {
			return source{}, false, err
		}
		return source{report: name}, name != "", nil
	}

	path, err := ui.PromptForReportPath()
	if err != nil {
		return source{}, false, err
	}
	return source{file: path}, true, nil
}
