package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"slotbook/config"
	"slotbook/infras/kafka"
	"slotbook/internal/integrations/eventbus"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	events := &cobra.Command{
		Use:   "events",
		Short: "Inspect the booking event bus",
	}

	events.AddCommand(&cobra.Command{
		Use:   "tail",
		Short: "Print booking events as they are published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Get()

			client := kafka.New(cfg)
			defer func() {
				if err := client.Close(); err != nil {
					log.Error().Err(err).Msg("Failed to close Kafka client")
				}
			}()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			encoder := json.NewEncoder(cmd.OutOrStdout())

			return eventbus.Tail(ctx, cfg, client, func(event eventbus.Event) {
				if err := encoder.Encode(event); err != nil {
					log.Warn().Err(err).Str("eventType", string(event.EventType)).Msg("failed to print event")
				}
			})
		},
	})

	return events
}

