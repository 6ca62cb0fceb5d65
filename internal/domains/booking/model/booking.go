package model

import (
	"slotbook/shared/constant"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	bookingIDPrefix      = "BK"
	bookingIDNameLength  = 6
	bookingIDStampDigits = 6
	bookingIDGuestName   = "GUEST"
)

// BookingRequest is the validated client input.
type BookingRequest struct {
	Name          string
	Email         string
	Phone         string
	Date          string
	Time          string
	ServiceNames  []string
	Notes         string
	AgreedToTerms bool
}

// BookingRecord is a request resolved against the catalog and placed on the calendar day.
type BookingRecord struct {
	BookingRequest
	Day                  time.Time
	Slot                 TimeInterval
	Services             []Service
	TotalDurationMinutes int
	TotalPrice           float64
	BookingID            string
	EventID              string
	EventLink            string
}

// NewBookingRecord derives the totals and the requested interval.
func NewBookingRecord(req BookingRequest, day time.Time, startMinute int, services []Service) (BookingRecord, error) {
	record := BookingRecord{
		BookingRequest: req,
		Day:            day,
		Services:       services,
	}

	for _, svc := range services {
		record.TotalDurationMinutes += svc.DurationMinutes
		record.TotalPrice += svc.Price
	}

	slot, err := IntervalAt(day, startMinute, record.TotalDurationMinutes)
	if err != nil {
		return BookingRecord{}, err
	}

	record.Slot = slot

	return record, nil
}

// StartClock is the requested start as an HH:MM label.
func (r BookingRecord) StartClock() string {
	return r.Slot.Start.Format(constant.ClockLayout)
}

// NewBookingID builds BK-<NAME>-<stamp>: up to six upper-cased ASCII alphanumerics of the client
// name and the last six digits of the unix millisecond timestamp. Two bookings for similar names
// within the same millisecond window collide; the ID is a reference, not a key.
func NewBookingID(name string, now time.Time) string {
	var fragment strings.Builder

	for _, r := range name {
		if fragment.Len() == bookingIDNameLength {
			break
		}

		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			fragment.WriteRune(unicode.ToUpper(r))
		}
	}

	namePart := fragment.String()
	if namePart == "" {
		namePart = bookingIDGuestName
	}

	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	if len(stamp) > bookingIDStampDigits {
		stamp = stamp[len(stamp)-bookingIDStampDigits:]
	}

	return strings.Join([]string{bookingIDPrefix, namePart, stamp}, "-")
}
