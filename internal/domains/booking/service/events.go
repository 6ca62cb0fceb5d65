package service

import (
	"context"
	"slotbook/internal/domains/booking/model"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"
)

// BookingEvent is the payload of booking_created and the data of delegated bookings.
type BookingEvent struct {
	BookingID            string   `json:"bookingId,omitempty"`
	EventID              string   `json:"eventId,omitempty"`
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	Phone                string   `json:"phone"`
	Date                 string   `json:"date"`
	Time                 string   `json:"time"`
	Services             []string `json:"services"`
	Notes                string   `json:"notes,omitempty"`
	TotalDurationMinutes int      `json:"totalDurationMinutes"`
	TotalPrice           float64  `json:"totalPrice"`
	IP                   string   `json:"ip,omitempty"`
	Timestamp            string   `json:"timestamp"`
}

type ErrorEvent struct {
	Error       string        `json:"error"`
	BookingData *BookingEvent `json:"bookingData,omitempty"`
	Timestamp   string        `json:"timestamp"`
}

type AvailabilityEvent struct {
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration"`
	IP              string `json:"ip,omitempty"`
	Timestamp       string `json:"timestamp"`
}

type CalendarEventCreated struct {
	EventID    string `json:"eventId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	ClientName string `json:"clientName"`
	Services   string `json:"services"`
}

func now() string {
	return timezone.Now().Format(constant.DateFormat)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(constant.ContextKeyClientIP).(string)

	return ip
}

func newBookingEvent(ctx context.Context, record model.BookingRecord) *BookingEvent {
	return &BookingEvent{
		BookingID:            record.BookingID,
		EventID:              record.EventID,
		Name:                 record.Name,
		Email:                record.Email,
		Phone:                record.Phone,
		Date:                 record.Date,
		Time:                 record.Time,
		Services:             record.ServiceNames,
		Notes:                record.Notes,
		TotalDurationMinutes: record.TotalDurationMinutes,
		TotalPrice:           record.TotalPrice,
		IP:                   clientIP(ctx),
		Timestamp:            now(),
	}
}

func newErrorEvent(ctx context.Context, err error, record *model.BookingRecord) ErrorEvent {
	event := ErrorEvent{
		Error:     err.Error(),
		Timestamp: now(),
	}

	if record != nil {
		event.BookingData = newBookingEvent(ctx, *record)
	}

	return event
}
