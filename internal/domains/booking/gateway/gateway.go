// Package gateway declares the outbound ports the booking domain depends on. Implementations
// live under internal/integrations.
package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=../mocks/gateway_mock.go -package=mocks

import (
	"context"
	"slotbook/internal/domains/booking/model"
)

// EventType names a booking lifecycle notification.
type EventType string

const (
	EventSlotConflict         EventType = "slot_conflict"
	EventBookingCreated       EventType = "booking_created"
	EventBookingError         EventType = "booking_error"
	EventAvailabilityCheck    EventType = "availability_check"
	EventCalendarEventCreated EventType = "calendar_event_created"
	EventEmailSent            EventType = "email_sent"
)

type CalendarEvent struct {
	EventID   string
	EventLink string
}

type Calendar interface {
	IsReady() bool
	// ListBusyIntervals returns the busy time overlapping window, which may span several days.
	ListBusyIntervals(ctx context.Context, window model.TimeInterval) ([]model.TimeInterval, error)
	CreateEvent(ctx context.Context, record model.BookingRecord) (CalendarEvent, error)
}

// SubmitResult is the remote processor's verdict on a delegated booking.
type SubmitResult struct {
	Accepted  bool
	EventID   string
	EmailSent bool
	Message   string
}

type NotifyResult struct {
	Accepted bool
}

type Notifier interface {
	IsReady() bool
	SubmitBooking(ctx context.Context, record model.BookingRecord) (SubmitResult, error)
	Notify(ctx context.Context, eventType EventType, payload any) (NotifyResult, error)
}

type Mailer interface {
	IsReady() bool
	SendConfirmation(ctx context.Context, record model.BookingRecord, calendarLink string) (messageID string, err error)
}
