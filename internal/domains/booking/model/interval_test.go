package model_test

import (
	"slotbook/internal/domains/booking/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2030, 5, 1, hour, minute, 0, 0, time.UTC)
}

func span(startHour, startMinute, endHour, endMinute int) model.TimeInterval {
	return model.TimeInterval{Start: at(startHour, startMinute), End: at(endHour, endMinute)}
}

func TestNewTimeInterval(t *testing.T) {
	interval, err := model.NewTimeInterval(at(9, 0), at(10, 0))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, interval.Duration())

	_, err = model.NewTimeInterval(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, model.ErrInvalidInterval)

	_, err = model.NewTimeInterval(at(11, 0), at(10, 0))
	assert.ErrorIs(t, err, model.ErrInvalidInterval)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     model.TimeInterval
		expected bool
	}{
		{name: "identical", a: span(10, 0, 11, 0), b: span(10, 0, 11, 0), expected: true},
		{name: "a contains b", a: span(9, 0, 12, 0), b: span(10, 0, 11, 0), expected: true},
		{name: "b contains a", a: span(10, 15, 10, 45), b: span(10, 0, 11, 0), expected: true},
		{name: "partial overlap at start", a: span(9, 30, 10, 30), b: span(10, 0, 11, 0), expected: true},
		{name: "partial overlap at end", a: span(10, 30, 11, 30), b: span(10, 0, 11, 0), expected: true},
		{name: "touching at end is free", a: span(9, 0, 10, 0), b: span(10, 0, 11, 0), expected: false},
		{name: "touching at start is free", a: span(11, 0, 12, 0), b: span(10, 0, 11, 0), expected: false},
		{name: "disjoint", a: span(13, 0, 14, 0), b: span(10, 0, 11, 0), expected: false},
		{name: "empty inside other", a: span(10, 30, 10, 30), b: span(10, 0, 11, 0), expected: false},
		{name: "other empty", a: span(10, 0, 11, 0), b: span(10, 30, 10, 30), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.expected, tt.b.Overlaps(tt.a))
		})
	}
}

func TestContains(t *testing.T) {
	interval := span(10, 0, 11, 0)

	assert.True(t, interval.Contains(at(10, 0)))
	assert.True(t, interval.Contains(at(10, 59)))
	assert.False(t, interval.Contains(at(11, 0)))
	assert.False(t, interval.Contains(at(9, 59)))
}

func TestOverlapsAny(t *testing.T) {
	busy := []model.TimeInterval{span(9, 0, 9, 30), span(12, 0, 13, 0)}

	assert.True(t, span(12, 30, 13, 30).OverlapsAny(busy))
	assert.False(t, span(10, 0, 11, 0).OverlapsAny(busy))
	assert.False(t, span(10, 0, 11, 0).OverlapsAny(nil))
}
