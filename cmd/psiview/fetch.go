package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/thesavant42/psiview/internal/api"
	"github.com/thesavant42/psiview/internal/models"
	"github.com/thesavant42/psiview/internal/ui"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		server  string
		name    string
		force   bool
		noSpin  bool
		retries int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download results from a running psi-map server and store them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = a.cfg.ServerURL
			}
			if server == "" {
				return errors.New("no server given: use --server or set server_url in the config")
			}
			if !cmd.Flags().Changed("retries") {
				retries = a.cfg.HTTPRetries
			}
			if name == "" {
				name = defaultFetchName(server)
			}

			client := api.NewReportClient(server, retries, a.logger)

			var records []models.Record
			fetch := func() error {
				var err error
				records, err = client.FetchRecords(cmd.Context())
				return err
			}

			var err error
			if noSpin {
				err = fetch()
			} else {
				err = ui.RunWithSpinner(fmt.Sprintf("Fetching %s...", client.ResultsURL()), fetch)
			}
			if err != nil {
				return err
			}

			return a.store(name, client.ResultsURL(), records, force)
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "psi-map server base URL (default: server_url from config)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "report name (default: the server's domain)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing report without asking")
	cmd.Flags().BoolVar(&noSpin, "no-spinner", false, "do not show a spinner while downloading")
	cmd.Flags().IntVar(&retries, "retries", 0, "retry attempts on connection errors and 5xx responses (default: http_retries from config)")
	return cmd
}

// defaultFetchName names a fetched report after the server's registrable
// domain, falling back to "fetched" for IPs and hosts like localhost.
func defaultFetchName(server string) string {
	if u, err := url.Parse(server); err == nil && net.ParseIP(u.Hostname()) != nil {
		return "fetched"
	}
	if domain, err := api.ExtractRootDomain(server); err == nil {
		return domain
	}
	return "fetched"
}
