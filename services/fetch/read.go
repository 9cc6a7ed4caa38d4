package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/riverbed-labs/nwisfetch/nwis"
)

func newReadCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "read <file.csv>",
		Short: "Inspect a previously saved data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 0 {
				return fmt.Errorf("invalid --rows %d: must not be negative", rows)
			}

			t, err := nwis.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows, %d columns\n", args[0], t.Len(), len(t.Columns))
			if t.Len() > 0 {
				fmt.Fprintf(out, "time range: %s .. %s\n",
					t.Index[0].Format("2006-01-02 15:04:05"),
					t.Index[t.Len()-1].Format("2006-01-02 15:04:05"))
			}

			w := table.NewWriter()
			w.SetOutputMirror(out)

			header := make(table.Row, len(t.Columns))
			for i, c := range t.Columns {
				header[i] = c.Name
			}
			w.AppendHeader(header)

			n := rows
			if n > t.Len() {
				n = t.Len()
			}
			for _, row := range t.Rows[:n] {
				r := make(table.Row, len(row))
				for i, cell := range row {
					r[i] = cell.Token()
				}
				w.AppendRow(r)
			}
			w.Render()

			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 10, "number of preview rows")
	return cmd
}
