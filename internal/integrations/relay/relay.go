// Package relay forwards booking events to, and delegates whole bookings to, the remote
// booking processor.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slotbook/config"
	"slotbook/infras/otel"
	"slotbook/internal/domains/booking/gateway"
	"slotbook/internal/domains/booking/model"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	pathBookingEvents  = "/api/booking-events"
	pathProcessBooking = "/api/process-booking"

	maxResponseBody     = 4 << 10
	defaultRejectReason = "Failed to process booking"
)

var ErrNotConfigured = errors.New("relay is not configured")

type eventEnvelope struct {
	EventType gateway.EventType `json:"eventType"`
	Timestamp string            `json:"timestamp"`
	RequestID string            `json:"requestId"`
	Data      any               `json:"data"`
}

type serviceLine struct {
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration"`
	Price           float64 `json:"price"`
}

type bookingData struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Services      []serviceLine `json:"services"`
	Notes         string        `json:"notes,omitempty"`
	TotalDuration int           `json:"totalDuration"`
	TotalPrice    float64       `json:"totalPrice"`
	CalendarID    string        `json:"calendarId,omitempty"`
}

type processRequest struct {
	BookingData bookingData `json:"bookingData"`
	Timestamp   string      `json:"timestamp"`
	CalendarID  string      `json:"calendarId,omitempty"`
}

type processResponse struct {
	EventID   string `json:"eventId"`
	EmailSent bool   `json:"emailSent"`
	Message   string `json:"message"`
}

type relayImpl struct {
	baseURL    string
	apiKey     string
	calendarID string
	ready      bool
	client     *http.Client
	otel       otel.Otel
}

// New reads the relay settings from config. The relay is ready only when it is enabled and
// both its URL and API key are set.
func New(cfg *config.Config, ot otel.Otel) gateway.Notifier {
	relay := cfg.External.Relay

	seconds := cfg.External.Timeout.RelaySeconds
	if seconds <= 0 {
		seconds = constant.DefaultExternalTimeoutSeconds
	}

	ready := relay.Enable && relay.URL != "" && relay.APIKey != ""
	if !ready {
		log.Warn().Msg("Relay not configured, check EXTERNAL_RELAY_ENABLE, EXTERNAL_RELAY_URL and EXTERNAL_RELAY_API_KEY")
	}

	return &relayImpl{
		baseURL:    strings.TrimRight(relay.URL, "/"),
		apiKey:     relay.APIKey,
		calendarID: cfg.External.Google.CalendarID,
		ready:      ready,
		client:     &http.Client{Timeout: time.Duration(seconds) * time.Second},
		otel:       ot,
	}
}

func (r *relayImpl) IsReady() bool {
	return r.ready
}

// Notify is a no-op reporting Accepted false when the relay is not configured.
func (r *relayImpl) Notify(ctx context.Context, eventType gateway.EventType, payload any) (result gateway.NotifyResult, err error) {
	if !r.ready {
		log.Debug().Str("eventType", string(eventType)).Msg("relay not configured, skipping notification")

		return result, nil
	}

	ctx, scope := r.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".relay.Notify")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	requestID := uuid.NewString()
	scope.SetAttributes(map[string]any{"event.type": string(eventType), "request.id": requestID})

	status, body, err := r.post(ctx, pathBookingEvents, requestID, eventEnvelope{
		EventType: eventType,
		Timestamp: timezone.Now().Format(constant.DateFormat),
		RequestID: requestID,
		Data:      payload,
	})
	if err != nil {
		return result, err
	}

	if !success(status) {
		return result, fmt.Errorf("%w: %s returned %d: %s", model.ErrNotification, pathBookingEvents, status, body)
	}

	log.Debug().Str("eventType", string(eventType)).Str("requestId", requestID).Msg("notification delivered")

	result.Accepted = true

	return result, nil
}

// SubmitBooking asks the remote processor to take over the booking. A reply other than 2xx
// is a rejection, not an error.
func (r *relayImpl) SubmitBooking(ctx context.Context, record model.BookingRecord) (result gateway.SubmitResult, err error) {
	if !r.ready {
		return result, ErrNotConfigured
	}

	ctx, scope := r.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".relay.SubmitBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	requestID := uuid.NewString()

	status, body, err := r.post(ctx, pathProcessBooking, requestID, processRequest{
		BookingData: newBookingData(record, r.calendarID),
		Timestamp:   timezone.Now().Format(constant.DateFormat),
		CalendarID:  r.calendarID,
	})
	if err != nil {
		return result, err
	}

	var res processResponse
	if len(body) > 0 {
		if decodeErr := json.Unmarshal(body, &res); decodeErr != nil && success(status) {
			return result, fmt.Errorf("%w: decode %s response: %w", model.ErrNotification, pathProcessBooking, decodeErr)
		}
	}

	scope.SetAttribute("response.status", status)

	if !success(status) {
		result.Message = res.Message
		if result.Message == "" {
			result.Message = defaultRejectReason
		}

		return result, nil
	}

	return gateway.SubmitResult{
		Accepted:  true,
		EventID:   res.EventID,
		EmailSent: res.EmailSent,
		Message:   res.Message,
	}, nil
}

func (r *relayImpl) post(ctx context.Context, path, requestID string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: encode %s payload: %w", model.ErrNotification, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build %s request: %w", model.ErrNotification, path, err)
	}

	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+r.apiKey)
	req.Header.Set(constant.RequestHeaderRequestID, requestID)

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s: %w", model.ErrNotification, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: read %s response: %w", model.ErrNotification, path, err)
	}

	return resp.StatusCode, bytes.TrimSpace(body), nil
}

func success(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func newBookingData(record model.BookingRecord, calendarID string) bookingData {
	services := make([]serviceLine, len(record.Services))
	for i, svc := range record.Services {
		services[i] = serviceLine{
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		}
	}

	return bookingData{
		Name:          record.Name,
		Email:         record.Email,
		Phone:         record.Phone,
		Date:          record.Date,
		Time:          record.Time,
		Services:      services,
		Notes:         record.Notes,
		TotalDuration: record.TotalDurationMinutes,
		TotalPrice:    record.TotalPrice,
		CalendarID:    calendarID,
	}
}
