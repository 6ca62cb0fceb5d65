package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slotbook/infras/otel/mocks"
	bookingMocks "slotbook/internal/domains/booking/mocks"
	"slotbook/internal/domains/booking/model"
	"slotbook/internal/domains/booking/model/dto"
	"slotbook/internal/handlers/booking"
	"slotbook/shared/failure"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const validBooking = `{
	"name": "Anna Schmidt",
	"email": "anna@example.com",
	"phone": "+49 30 1234567",
	"date": "2030-05-01",
	"time": "10:00",
	"services": ["Massage"],
	"agreedToTerms": true
}`

func newRouter(t *testing.T) (*bookingMocks.MockBooking, http.Handler) {
	t.Helper()

	svc := bookingMocks.NewMockBooking(gomock.NewController(t))
	handler := booking.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func do(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAvailability(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Availability(gomock.Any(), dto.AvailabilityRequest{Date: "2030-05-01", DurationMinutes: 30}).
		Return(dto.AvailabilityResponse{
			Success:        true,
			AvailableSlots: []dto.SlotResponse{{StartTime: "09:00", EndTime: "09:30"}},
		}, nil)

	rec := do(router, "/availability", `{"date":"2030-05-01","durationMinutes":30}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"availableSlots":[{"startTime":"09:00","endTime":"09:30"}]}`, rec.Body.String())
}

func TestAvailabilityRejectsBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"date":`},
		{name: "missing date", body: `{"durationMinutes":30}`},
		{name: "duration too long", body: `{"date":"2030-05-01","durationMinutes":600}`},
		{name: "duration just over the cap", body: `{"date":"2030-05-01","durationMinutes":481}`},
		{name: "negative duration", body: `{"date":"2030-05-01","durationMinutes":-15}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := newRouter(t)

			rec := do(router, "/availability", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestBook(t *testing.T) {
	svc, router := newRouter(t)

	svc.EXPECT().Book(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req dto.BookingRequest) (dto.BookingResponse, error) {
			assert.Equal(t, []string{"Massage"}, req.Services)
			assert.True(t, req.AgreedToTerms)

			return dto.BookingResponse{
				Success:   true,
				Message:   "Booking created successfully",
				BookingID: "BK-ANNASC-123456",
			}, nil
		})

	rec := do(router, "/book", validBooking)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Booking created successfully","bookingId":"BK-ANNASC-123456"}`, rec.Body.String())
}

func TestBookTermsNotAccepted(t *testing.T) {
	_, router := newRouter(t)

	rec := do(router, "/book", strings.Replace(validBooking, `"agreedToTerms": true`, `"agreedToTerms": false`, 1))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"agreedToTerms must be true"}`, rec.Body.String())
}

func TestBookMapsFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "conflict", err: failure.New(http.StatusConflict, model.ErrSlotConflict, "taken"), code: http.StatusConflict},
		{name: "past date", err: failure.New(http.StatusBadRequest, model.ErrPastDate, "past"), code: http.StatusBadRequest},
		{name: "server", err: failure.New(http.StatusInternalServerError, model.ErrCalendar, "failed"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := newRouter(t)

			svc.EXPECT().Book(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, tt.err)

			rec := do(router, "/book", validBooking)

			assert.Equal(t, tt.code, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestServices(t *testing.T) {
	svc, router := newRouter(t)
	svc.EXPECT().Services().Return(model.DefaultServices())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/services", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body dto.ServicesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.Len(t, body.Services, 3)
	assert.Equal(t, "Massage", body.Services[0].Name)
	assert.Equal(t, 60, body.Services[0].DurationMinutes)
	assert.InDelta(t, 80.0, body.Services[0].Price, 0.001)
}
