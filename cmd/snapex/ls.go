package main

import (
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"snapex/internal/explorer"
)

func newLsCmd(o *options) *cobra.Command {
	var (
		filter   string
		withURLs bool
	)
	cmd := &cobra.Command{
		Use:   "ls SNAPSHOT [PATH]",
		Short: "List a directory of a snapshot",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := o.setupCLI(cmd)
			if err != nil {
				return err
			}
			st := explorer.NavigationState{SnapshotID: args[0]}
			if len(args) == 2 {
				st.CurrentPath = strings.TrimSpace(args[1])
			}
			entries, err := client.FetchListing(cmd.Context(), st.SnapshotID, st.CurrentPath)
			if err != nil {
				return err
			}
			rows := explorer.BuildRows(entries, st, filter, client, time.Local)
			printRows(cmd.OutOrStdout(), rows, withURLs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show entries whose name contains this text (case-insensitive)")
	cmd.Flags().BoolVar(&withURLs, "urls", false, "Add a download link column")
	return cmd
}

// printRows renders the visible rows as a table in backend order.
func printRows(w io.Writer, rows []explorer.Row, withURLs bool) {
	table := tablewriter.NewWriter(w)
	header := []string{"Name", "Size", "Modified"}
	if withURLs {
		header = append(header, "Download")
	}
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")

	for _, r := range rows {
		if !r.Visible {
			continue
		}
		rec := []string{r.Label, r.SizeText, r.ModifiedText}
		if withURLs {
			rec = append(rec, r.DownloadURL)
		}
		table.Append(rec)
	}
	table.Render()
}
