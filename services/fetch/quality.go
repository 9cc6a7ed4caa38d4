package main

import (
	"github.com/spf13/cobra"

	"github.com/riverbed-labs/nwisfetch/nwis"
)

func newQualityCmd() *cobra.Command {
	var (
		site     string
		dataType string
		group    string
		opts     saveOptions
	)

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Download water-quality results for a parameter group",
		Example: `  # Sediment results for the Yukon River at Pilot Station
  nwisfetch quality --site 15565447 --group SED`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := nwis.Query{
				Site:       site,
				DataType:   dataType,
				Mode:       nwis.WaterQuality,
				ParamGroup: group,
			}
			return fetchAndSave(cmd, q, opts)
		},
	}

	cmd.Flags().StringVar(&site, "site", "", "USGS site number (required)")
	cmd.Flags().StringVar(&dataType, "type", "qwdata", "water-quality service name")
	cmd.Flags().StringVar(&group, "group", "", "parameter group, e.g. SED, NUT (required)")
	opts.register(cmd)
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}
