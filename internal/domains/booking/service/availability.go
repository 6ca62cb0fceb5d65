package service

import (
	"context"
	"errors"
	"fmt"
	"slotbook/infras/otel"
	"slotbook/internal/domains/booking/gateway"
	"slotbook/internal/domains/booking/model"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

var errCalendarNotConfigured = fmt.Errorf("%w: calendar is not configured", model.ErrCalendar)

// Availability answers slot questions against the calendar's busy intervals.
type Availability interface {
	IsSlotFree(ctx context.Context, day time.Time, clock string, durationMinutes int) (bool, error)
	ListFreeSlots(ctx context.Context, day time.Time, durationMinutes int) ([]model.Slot, error)
}

type availabilityImpl struct {
	calendar gateway.Calendar
	otel     otel.Otel
}

func NewAvailability(calendar gateway.Calendar, otel otel.Otel) Availability {
	return &availabilityImpl{
		calendar: calendar,
		otel:     otel,
	}
}

// IsSlotFree never reports a slot as free when the calendar cannot be read.
func (s *availabilityImpl) IsSlotFree(ctx context.Context, day time.Time, clock string, durationMinutes int) (free bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsSlotFree")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if timezone.IsPastDay(day) {
		return false, model.ErrPastDate
	}

	startMinute, err := model.ParseClock(clock)
	if err != nil {
		return false, err
	}

	candidate, err := model.IntervalAt(day, startMinute, durationMinutes)
	if err != nil {
		return false, err
	}

	if !s.calendar.IsReady() {
		return false, errCalendarNotConfigured
	}

	busy, err := s.busyIntervals(ctx, candidate)
	if err != nil {
		return false, err
	}

	free = !candidate.OverlapsAny(busy)

	scope.SetAttributes(map[string]any{
		"slot.start": candidate.Start.Format(time.RFC3339),
		"slot.free":  free,
		"busy.count": len(busy),
	})

	return free, nil
}

// ListFreeSlots falls back to every generated slot only when no calendar is configured.
// A configured calendar that fails is an error.
func (s *availabilityImpl) ListFreeSlots(ctx context.Context, day time.Time, durationMinutes int) (slots []model.Slot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListFreeSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if timezone.IsPastDay(day) {
		return nil, model.ErrPastDate
	}

	generated, err := model.GenerateSlots(day, durationMinutes)
	if err != nil {
		return nil, err
	}

	if !s.calendar.IsReady() {
		log.Warn().Str("date", day.Format(constant.DateLayout)).Msg("calendar not configured, offering every slot")

		return generated, nil
	}

	busy, err := s.busyIntervals(ctx, model.DayInterval(day))
	if err != nil {
		return nil, err
	}

	slots = make([]model.Slot, 0, len(generated))

	for _, slot := range generated {
		if slot.OverlapsAny(busy) {
			continue
		}

		slots = append(slots, slot)
	}

	scope.SetAttributes(map[string]any{
		"slots.generated": len(generated),
		"slots.free":      len(slots),
	})

	return slots, nil
}

// busyIntervals queries exactly window, so a candidate running past midnight also sees the
// next day's events.
func (s *availabilityImpl) busyIntervals(ctx context.Context, window model.TimeInterval) ([]model.TimeInterval, error) {
	busy, err := s.calendar.ListBusyIntervals(ctx, window)
	if err != nil {
		log.Error().Err(err).
			Str("from", window.Start.Format(time.RFC3339)).
			Str("to", window.End.Format(time.RFC3339)).
			Msg("failed to list busy intervals")

		if errors.Is(err, model.ErrCalendar) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", model.ErrCalendar, err)
	}

	return busy, nil
}
