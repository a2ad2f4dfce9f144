package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"snapex/internal/listing"
)

func newURLCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "url SNAPSHOT PATH",
		Short: "Print the download link of a file without fetching it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := o.setupCLI(cmd)
			if err != nil {
				return err
			}
			if args[0] == "" {
				return listing.ErrNoSnapshot
			}
			fmt.Fprintln(cmd.OutOrStdout(), client.DownloadURL(args[0], strings.TrimSpace(args[1])))
			return nil
		},
	}
}
