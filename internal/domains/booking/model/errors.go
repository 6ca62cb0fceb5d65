package model

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownService  = errors.New("unknown service")
	ErrPastDate        = errors.New("date is in the past")
	ErrSlotConflict    = errors.New("time slot is not available")
	ErrCalendar        = errors.New("calendar error")
	ErrNotification    = errors.New("notification error")
	ErrEmail           = errors.New("email error")
	ErrInvalidInterval = errors.New("interval start must be before its end")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrUnexpected      = errors.New("unexpected booking failure")
)
