package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/thesavant42/psiview/internal/db"
	"github.com/thesavant42/psiview/internal/ui"
)

func newReportsCmd(a *app) *cobra.Command {
	var databases bool

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List stored reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databases {
				return a.listDatabases()
			}

			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			reports, err := database.GetReports()
			if err != nil {
				return err
			}
			ui.PrintReports(a.out, reports)
			return nil
		},
	}
	cmd.Flags().BoolVar(&databases, "databases", false, "list .db files next to the configured database instead")

	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.DeleteReport(args[0]); err != nil {
				return err
			}
			ui.PrintSuccess(a.out, fmt.Sprintf("Deleted report %q", args[0]))
			return nil
		},
	})

	return cmd
}

func (a *app) listDatabases() error {
	dir := filepath.Dir(a.cfg.DBPath)
	files, err := db.ListProjectFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(a.out, "No .db files in %s\n", dir)
		return nil
	}
	for _, f := range files {
		fmt.Fprintln(a.out, filepath.Join(dir, f))
	}
	return nil
}
