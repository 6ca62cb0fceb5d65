package main

import (
	"fmt"
	"slotbook/config"
	"slotbook/shared"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, _ []string) {
			version := shared.FirstNonEmpty(config.Get().App.Version, Version)

			fmt.Fprintf(cmd.OutOrStdout(), "slotbook %s (commit=%s)\n", version, CommitSHA)
		},
	}
}
