package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "List the available streams",
	Args:  cobra.NoArgs,
	RunE:  runStreams,
}

func runStreams(cmd *cobra.Command, _ []string) error {
	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("load streams: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDESCRIPTION")
	for _, s := range cat.All() {
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Title, s.Description)
	}
	return w.Flush()
}
