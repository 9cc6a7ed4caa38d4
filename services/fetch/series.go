package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/riverbed-labs/nwisfetch/internal/archive"
	"github.com/riverbed-labs/nwisfetch/nwis"
)

// saveOptions collects the per-call output settings shared by the series
// and quality commands.
type saveOptions struct {
	out         string
	headerDir   string
	printHeader bool
	archivePath string
	timeout     time.Duration
}

func (o *saveOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.out, "out", "", "output CSV path (default USGS<site>_<type>.csv)")
	cmd.Flags().StringVar(&o.headerDir, "header-dir", "", "directory for the metadata header file (omitted: no header file)")
	cmd.Flags().BoolVar(&o.printHeader, "print-header", false, "print the metadata comment lines")
	cmd.Flags().StringVar(&o.archivePath, "archive", "", "also store numeric observations into this sqlite archive")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 30*time.Second, "request timeout")
}

func newSeriesCmd() *cobra.Command {
	var (
		site     string
		dataType string
		startStr string
		endStr   string
		opts     saveOptions
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Download a time series (instantaneous or daily values)",
		Example: `  # One week of instantaneous values for the Wax Lake Outlet gauge
  nwisfetch series --site 07381590 --type iv --start 2023-01-01 --end 2023-01-07`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				return fmt.Errorf("invalid --start date: %w", err)
			}
			end, err := time.Parse("2006-01-02", endStr)
			if err != nil {
				return fmt.Errorf("invalid --end date: %w", err)
			}

			q := nwis.Query{
				Site:     site,
				DataType: dataType,
				Mode:     nwis.TimeSeries,
				Start:    start,
				End:      end,
			}
			return fetchAndSave(cmd, q, opts)
		},
	}

	cmd.Flags().StringVar(&site, "site", "", "USGS site number (required)")
	cmd.Flags().StringVar(&dataType, "type", "iv", "data type: iv, dv, ...")
	cmd.Flags().StringVar(&startStr, "start", "", "start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&endStr, "end", "", "end date, YYYY-MM-DD (required)")
	opts.register(cmd)
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// fetchAndSave runs one retrieval and writes the requested outputs.
func fetchAndSave(cmd *cobra.Command, q nwis.Query, opts saveOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout+10*time.Second)
	defer cancel()

	client := &nwis.Client{HTTP: &http.Client{Timeout: opts.timeout}}

	u, err := q.URL()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloading %s\n", u)

	head, table, err := client.Download(ctx, q)
	if err != nil {
		return err
	}

	if opts.printHeader {
		for _, line := range head {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	}

	if opts.headerDir != "" {
		headPath := filepath.Join(opts.headerDir, "USGS"+q.Site+"_"+q.DataType+"_head.txt")
		if err := nwis.SaveHeader(head, headPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved header to %s\n", headPath)
	}

	out := opts.out
	if out == "" {
		out = "USGS" + q.Site + "_" + q.DataType + ".csv"
	}
	if err := nwis.Save(table, out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d rows to %s\n", table.Len(), out)

	if opts.archivePath != "" {
		db, err := archive.Open(opts.archivePath)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.PutTable(ctx, q.Site, table)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %d observations to %s\n", n, opts.archivePath)
	}

	return nil
}
