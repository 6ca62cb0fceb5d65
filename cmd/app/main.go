package main

import (
	"fmt"
	"os"
	"slotbook/config"
	"slotbook/shared/logger"

	"github.com/spf13/cobra"
)

// @title Slotbook API
// @version 1.0
// @description Appointment availability and booking backed by Google Calendar.
// @BasePath /

var (
	Version   = "dev"
	CommitSHA = "none"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "slotbook",
		Short:         "Appointment booking API backed by Google Calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cfg := config.Get()

			logger.InitLogger(cfg)
			logger.SetLogLevel(cfg)
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSlotsCmd())
	root.AddCommand(newEventsCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
