package main

import (
	"context"
	"fmt"
	"slotbook/di"
	"slotbook/internal/domains/booking/model/dto"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"
	"time"

	"github.com/spf13/cobra"
)

const slotsTimeout = 30 * time.Second

func newSlotsCmd() *cobra.Command {
	var (
		date     string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the free slots of a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := timezone.Parse(constant.DateLayout, date)
			if err != nil {
				return fmt.Errorf("date must be in %s format: %w", constant.DateLayout, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), slotsTimeout)
			defer cancel()

			slots, err := di.InitializeAvailability().ListFreeSlots(ctx, day, duration)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintln(out, "no free slots")

				return nil
			}

			for _, slot := range slots {
				fmt.Fprintf(out, "%s-%s\n", slot.StartTime, slot.EndTime)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", timezone.Today().Format(constant.DateLayout), "day to list, YYYY-MM-DD")
	cmd.Flags().IntVar(&duration, "duration", dto.DefaultDurationMinutes, "slot length in minutes")

	return cmd
}
