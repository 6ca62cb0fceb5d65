// Package calendar reads busy time from and writes bookings to a Google Calendar using a
// service account.
package calendar

import (
	"context"
	"fmt"
	"net/http"
	"slotbook/config"
	"slotbook/infras/jwt"
	"slotbook/infras/otel"
	"slotbook/internal/domains/booking/gateway"
	"slotbook/internal/domains/booking/model"
	"slotbook/shared/cache"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	Scope = "https://www.googleapis.com/auth/calendar"

	statusCancelled    = "cancelled"
	transparencyFree   = "transparent"
	reminderEmail      = "email"
	reminderPopup      = "popup"
	reminderEmailLead  = 24 * 60
	reminderPopupLead  = 60
	summaryPrefix      = "Booking: "
	emptyNotes         = "None"
	listOrderStartTime = "startTime"
)

type googleCalendar struct {
	calendarID string
	service    *gcal.Service
	timeout    time.Duration
	otel       otel.Otel
}

// New returns a calendar that reports itself not ready when the service account or calendar
// ID is missing. The token cache is shared through Redis when sharedCache is not nil.
func New(cfg *config.Config, sharedCache cache.RedisCache, ot otel.Otel) gateway.Calendar {
	google := cfg.External.Google
	if google.CalendarID == "" {
		log.Warn().Msg("Google calendar ID not configured")

		return &googleCalendar{otel: ot}
	}

	credentials, err := jwt.NewCredentials(cfg, Scope)
	if err != nil {
		log.Warn().Err(err).Msg("Google calendar credentials unusable")

		return &googleCalendar{otel: ot}
	}

	timeout := timeoutOf(cfg)
	source := jwt.NewTokenSource(credentials, &http.Client{Timeout: timeout}, sharedCache, ot)

	client := &http.Client{
		Timeout:   timeout,
		Transport: &jwt.Transport{Source: source},
	}

	calendar, err := NewWithClient(cfg, client, ot)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Google calendar client")

		return &googleCalendar{otel: ot}
	}

	return calendar
}

// NewWithClient talks to the calendar API through client, which must already authenticate its
// requests.
func NewWithClient(cfg *config.Config, client *http.Client, ot otel.Otel) (gateway.Calendar, error) {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if endpoint := cfg.External.Google.APIEndpoint; endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	service, err := gcal.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCalendar, err)
	}

	return &googleCalendar{
		calendarID: cfg.External.Google.CalendarID,
		service:    service,
		timeout:    timeoutOf(cfg),
		otel:       ot,
	}, nil
}

func timeoutOf(cfg *config.Config) time.Duration {
	seconds := cfg.External.Timeout.CalendarSeconds
	if seconds <= 0 {
		seconds = constant.DefaultExternalTimeoutSeconds
	}

	return time.Duration(seconds) * time.Second
}

func (c *googleCalendar) IsReady() bool {
	return c.service != nil && c.calendarID != ""
}

func (c *googleCalendar) ListBusyIntervals(ctx context.Context, window model.TimeInterval) (busy []model.TimeInterval, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".calendar.ListBusyIntervals")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !c.IsReady() {
		return nil, fmt.Errorf("%w: calendar is not configured", model.ErrCalendar)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.service.Events.List(c.calendarID).
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy(listOrderStartTime)

	err = call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			interval, ok := busyInterval(item)
			if ok {
				busy = append(busy, interval)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list events: %w", model.ErrCalendar, err)
	}

	scope.SetAttribute("busy.count", len(busy))

	return busy, nil
}

// busyInterval maps an event to the time it blocks. Cancelled and transparent events block
// nothing; all-day events block their whole days.
func busyInterval(event *gcal.Event) (model.TimeInterval, bool) {
	if event == nil || event.Status == statusCancelled || event.Transparency == transparencyFree {
		return model.TimeInterval{}, false
	}

	start, okStart := eventTime(event.Start)
	end, okEnd := eventTime(event.End)

	if !okStart || !okEnd {
		log.Warn().Str("eventId", event.Id).Msg("skipping calendar event without usable times")

		return model.TimeInterval{}, false
	}

	interval, err := model.NewTimeInterval(start, end)
	if err != nil {
		log.Warn().Err(err).Str("eventId", event.Id).Msg("skipping calendar event with empty interval")

		return model.TimeInterval{}, false
	}

	return interval, true
}

func eventTime(at *gcal.EventDateTime) (time.Time, bool) {
	if at == nil {
		return time.Time{}, false
	}

	if at.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, at.DateTime)

		return parsed, err == nil
	}

	if at.Date != "" {
		parsed, err := timezone.Parse(constant.DateLayout, at.Date)

		return parsed, err == nil
	}

	return time.Time{}, false
}

func (c *googleCalendar) CreateEvent(ctx context.Context, record model.BookingRecord) (created gateway.CalendarEvent, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".calendar.CreateEvent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !c.IsReady() {
		return created, fmt.Errorf("%w: calendar is not configured", model.ErrCalendar)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	event, err := c.service.Events.Insert(c.calendarID, newEvent(record)).Context(ctx).Do()
	if err != nil {
		return created, fmt.Errorf("%w: insert event: %w", model.ErrCalendar, err)
	}

	scope.SetAttribute("event.id", event.Id)

	return gateway.CalendarEvent{
		EventID:   event.Id,
		EventLink: event.HtmlLink,
	}, nil
}

func newEvent(record model.BookingRecord) *gcal.Event {
	zone := timezone.GetLocation().String()

	return &gcal.Event{
		Summary:     summaryPrefix + record.Name,
		Description: description(record),
		Start: &gcal.EventDateTime{
			DateTime: timezone.Format(record.Slot.Start, time.RFC3339),
			TimeZone: zone,
		},
		End: &gcal.EventDateTime{
			DateTime: timezone.Format(record.Slot.End, time.RFC3339),
			TimeZone: zone,
		},
		Attendees: []*gcal.EventAttendee{
			{Email: record.Email, DisplayName: record.Name},
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: reminderEmail, Minutes: reminderEmailLead},
				{Method: reminderPopup, Minutes: reminderPopupLead},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

func description(record model.BookingRecord) string {
	services := make([]string, len(record.Services))
	for i, svc := range record.Services {
		services[i] = fmt.Sprintf("%s (%d min, %s €)", svc.Name, svc.DurationMinutes, strconv.FormatFloat(svc.Price, 'f', -1, 64))
	}

	notes := record.Notes
	if strings.TrimSpace(notes) == "" {
		notes = emptyNotes
	}

	var b strings.Builder

	b.WriteString("Services: " + strings.Join(services, "\n") + "\n\n")
	b.WriteString("Client: " + record.Name + "\n")
	b.WriteString("Email: " + record.Email + "\n")
	b.WriteString("Phone: " + record.Phone + "\n\n")
	b.WriteString("Notes: " + notes)

	return b.String()
}
