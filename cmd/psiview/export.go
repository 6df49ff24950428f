package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thesavant42/psiview/internal/models"
	"github.com/thesavant42/psiview/internal/ui"
	"github.com/thesavant42/psiview/internal/view"
)

// viewFlags are the view parameters settable from the command line
type viewFlags struct {
	search      string
	strategy    string
	performance string
	status      string
	sort        string
	dir         string
}

func (f *viewFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.search, "search", "", "case-insensitive search over URLs, status and scores")
	fl.StringVar(&f.strategy, "strategy", "all", "strategy tab: all, mobile, desktop")
	fl.StringVar(&f.performance, "performance", "all", "performance bucket: all, excellent, good, poor")
	fl.StringVar(&f.status, "status", "all", "status filter: all, success, error")
	fl.StringVar(&f.sort, "sort", "none", "sort key: none, url, performance, accessibility, loadtime")
	fl.StringVar(&f.dir, "dir", "", "sort direction: asc, desc (default depends on the sort key)")
}

// validate rejects values the controller would silently replace with defaults
func (f viewFlags) validate() error {
	var errs []error
	if _, ok := models.ParseStrategyFilter(f.strategy); !ok {
		errs = append(errs, fmt.Errorf("invalid --strategy %q", f.strategy))
	}
	if _, ok := models.ParsePerformanceBucket(f.performance); !ok {
		errs = append(errs, fmt.Errorf("invalid --performance %q", f.performance))
	}
	if _, ok := models.ParseStatusFilter(f.status); !ok {
		errs = append(errs, fmt.Errorf("invalid --status %q", f.status))
	}
	if _, ok := models.ParseSortKey(f.sort); !ok {
		errs = append(errs, fmt.Errorf("invalid --sort %q", f.sort))
	}
	if f.dir != "" {
		if _, ok := models.ParseSortDirection(f.dir); !ok {
			errs = append(errs, fmt.Errorf("invalid --dir %q", f.dir))
		}
	}
	return errors.Join(errs...)
}

// apply drives c through the same parameter updates the browser makes
func (f viewFlags) apply(c *view.Controller) view.DerivedView {
	c.SetParameter(models.DimStrategy, f.strategy)
	c.SetParameter(models.DimPerformance, f.performance)
	c.SetParameter(models.DimStatus, f.status)
	c.SetParameter(models.DimSearch, f.search)
	if f.dir == "" {
		return c.SetParameter(models.DimSort, f.sort)
	}
	key, _ := models.ParseSortKey(f.sort)
	dir, _ := models.ParseSortDirection(f.dir)
	return c.SetSort(key, dir)
}

func newExportCmd(a *app) *cobra.Command {
	var (
		src    source
		vf     viewFlags
		format string
		out    string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "export [report.json]",
		Short: "Export the filtered and sorted result set",
		Long: `Export applies the given search, filters and sort to a report and writes every
matching record (not just one page) as CSV, Markdown or HTML. Without --out the
export goes to stdout; --out - does the same.`,
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

			fmtVal, err := ui.ParseExportFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") && out != "" && out != "-" {
				if f, err := ui.ParseExportFormat(strings.TrimPrefix(filepath.Ext(out), ".")); err == nil {
					fmtVal = f
				}
			}

			records, err := a.load(src)
			if err != nil {
				return err
			}

			c := view.NewController(view.NewStore(records), a.cfg.PageSize, a.logger)
			derived := vf.apply(c)
			if title == "" {
				title = "PageSpeed Results: " + src.title()
			}
			a.logger.Debug("Exporting", "format", fmtVal, "records", derived.FilteredCount, "params", derived.Params)

			if out == "" || out == "-" {
				return ui.Export(a.out, fmtVal, title, derived.Filtered)
			}
			path, err := ui.ExportToFile(out, fmtVal, title, derived.Filtered)
			if err != nil {
				return err
			}
			ui.PrintSuccess(a.errOut, fmt.Sprintf("Exported %d of %d records to %s", derived.FilteredCount, derived.TotalRecordCount, path))
			return nil
		},
	}

	src.bind(cmd)
	vf.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv, md, html (default: from --out extension, else csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&title, "title", "", "title for markdown and html exports")
	return cmd
}
