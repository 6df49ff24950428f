package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thesavant42/psiview/internal/api"
	"github.com/thesavant42/psiview/internal/models"
	"github.com/thesavant42/psiview/internal/ui"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		name   string
		force  bool
		prompt bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Parse a report file and store it in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			records, err := api.ParseReportFile(path)
			if err != nil {
				return err
			}

			if name == "" {
				name = ui.ReportNameFromPath(path)
				if prompt {
					if name, err = ui.PromptForReportName(name); err != nil {
						return err
					}
				}
			}

			return a.store(name, path, records, force)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "report name (default: file name without extension)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing report without asking")
	cmd.Flags().BoolVarP(&prompt, "interactive", "i", false, "prompt for the report name")
	return cmd
}

// store saves records under name. Replacing an existing report asks for
// confirmation unless force is set.
func (a *app) store(name, src string, records []models.Record, force bool) error {
	database, err := a.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	if !force {
		reports, err := database.GetReports()
		if err != nil {
			return err
		}
		for _, r := range reports {
			if r.Name != name {
				continue
			}
			ok, err := ui.ConfirmReplace(name)
			if err != nil {
				return err
			}
			if !ok {
				ui.PrintError(a.errOut, "import cancelled")
				return nil
			}
			break
		}
	}

	if _, err := database.SaveReport(name, src, records); err != nil {
		return err
	}
	a.logger.Info("Report stored", "name", name, "records", len(records), "db", a.cfg.DBPath)
	ui.PrintSuccess(a.out, fmt.Sprintf("Stored %d records as %q", len(records), name))
	return nil
}
