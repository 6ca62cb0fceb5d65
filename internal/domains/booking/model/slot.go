package model

import (
	"fmt"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"
	"strconv"
	"strings"
	"time"
)

const (
	OpeningHour = 9
	ClosingHour = 17

	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// Slot is a bookable interval with HH:MM labels for display.
type Slot struct {
	TimeInterval
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GenerateSlots cuts the business hours of day into consecutive slots of durationMinutes,
// earliest first. A trailing slot that would end after closing is not offered.
func GenerateSlots(day time.Time, durationMinutes int) ([]Slot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMinutes)
	}

	opening := OpeningHour * minutesPerHour
	closing := ClosingHour * minutesPerHour

	slots := make([]Slot, 0, (closing-opening)/durationMinutes)

	for start := opening; start+durationMinutes <= closing; start += durationMinutes {
		slots = append(slots, newSlot(day, start, start+durationMinutes))
	}

	return slots, nil
}

func newSlot(day time.Time, startMinute, endMinute int) Slot {
	return Slot{
		TimeInterval: TimeInterval{
			Start: atMinute(day, startMinute),
			End:   atMinute(day, endMinute),
		},
		StartTime: FormatClock(startMinute),
		EndTime:   FormatClock(endMinute),
	}
}

// IntervalAt returns the interval starting clock minutes after midnight of day.
func IntervalAt(day time.Time, startMinute, durationMinutes int) (TimeInterval, error) {
	if durationMinutes <= 0 {
		return TimeInterval{}, fmt.Errorf("%w: %d", ErrInvalidDuration, durationMinutes)
	}

	return NewTimeInterval(atMinute(day, startMinute), atMinute(day, startMinute+durationMinutes))
}

// DayInterval covers the whole calendar day, from midnight to the next midnight.
func DayInterval(day time.Time) TimeInterval {
	start := timezone.StartOfDay(day)

	return TimeInterval{Start: start, End: start.AddDate(0, 0, 1)}
}

// atMinute resolves a wall-clock minute offset on day, so DST transitions keep labels honest.
func atMinute(day time.Time, minute int) time.Time {
	day = timezone.StartOfDay(day)

	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, day.Location())
}

// ParseDay parses a YYYY-MM-DD date as midnight in the application timezone.
func ParseDay(value string) (time.Time, error) {
	day, err := timezone.Parse(constant.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be in YYYY-MM-DD format", ErrInvalidInput, value)
	}

	return day, nil
}

// ParseClock converts H:MM or HH:MM into minutes after midnight.
func ParseClock(value string) (int, error) {
	hours, minutes, found := strings.Cut(value, ":")
	if !found || len(minutes) != 2 || len(hours) == 0 || len(hours) > 2 {
		return 0, fmt.Errorf("%w: time %q must be in HH:MM format", ErrInvalidInput, value)
	}

	h, errH := strconv.Atoi(hours)
	m, errM := strconv.Atoi(minutes)

	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time %q must be in HH:MM format", ErrInvalidInput, value)
	}

	return h*minutesPerHour + m, nil
}

// FormatClock renders minutes after midnight as a zero-padded HH:MM label.
func FormatClock(minute int) string {
	minute = ((minute % minutesPerDay) + minutesPerDay) % minutesPerDay

	return fmt.Sprintf("%02d:%02d", minute/minutesPerHour, minute%minutesPerHour)
}
