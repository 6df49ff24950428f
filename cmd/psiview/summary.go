package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/thesavant42/psiview/internal/ui"
	"github.com/thesavant42/psiview/internal/view"
)

func newSummaryCmd(a *app) *cobra.Command {
	var (
		src source
		vf  viewFlags
	)

	cmd := &cobra.Command{
		Use:   "summary [report.json]",
		Short: "Print average scores, score distribution and load time extremes",
		Long: `Summary aggregates a report: success and failure counts, the average score and
good / needs improvement / poor distribution per category over successful audits,
and the fastest and slowest pages. Filters narrow the set that is summarized.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := src.fromArgs(args); err != nil {
				return err
			}
			if src.empty() {
				return errors.New("pass a report file or --report NAME")
			}
			if err := vf.validate(); err != nil {
				return err
			}

			records, err := a.load(src)
			if err != nil {
				return err
			}

			c := view.NewController(view.NewStore(records), a.cfg.PageSize, a.logger)
			derived := vf.apply(c)
			ui.PrintSummary(a.out, "Summary: "+src.title(), view.Summarize(derived.Filtered))
			return nil
		},
	}

	src.bind(cmd)
	vf.bind(cmd)
	return cmd
}
