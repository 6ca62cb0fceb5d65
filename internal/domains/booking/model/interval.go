package model

import (
	"fmt"
	"time"
)

// TimeInterval is the half-open range [Start, End).
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("%w: %s >= %s", ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return TimeInterval{Start: start, End: end}, nil
}

// IsEmpty reports whether the interval covers no time at all.
func (i TimeInterval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Overlaps reports whether both intervals share at least one instant. Empty intervals overlap nothing.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}

	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether point lies inside the interval.
func (i TimeInterval) Contains(point time.Time) bool {
	return !point.Before(i.Start) && point.Before(i.End)
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// OverlapsAny reports whether i overlaps at least one of busy.
func (i TimeInterval) OverlapsAny(busy []TimeInterval) bool {
	for _, b := range busy {
		if i.Overlaps(b) {
			return true
		}
	}

	return false
}
