// Command nwisfetch downloads USGS NWIS data to local delimited files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nwisfetch",
		Short: "Retrieve USGS NWIS hydrological data",
		Long: `nwisfetch downloads streamflow and water-quality data from the USGS
National Water Information System and saves it as delimited files, with
the service's metadata comments preserved in a sibling header file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newSeriesCmd())
	rootCmd.AddCommand(newQualityCmd())
	rootCmd.AddCommand(newReadCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
