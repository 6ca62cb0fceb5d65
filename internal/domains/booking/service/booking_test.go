package service_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"slotbook/config"
	"slotbook/infras/otel/mocks"
	"slotbook/internal/domains/booking/gateway"
	bookingMocks "slotbook/internal/domains/booking/mocks"
	"slotbook/internal/domains/booking/model"
	"slotbook/internal/domains/booking/model/dto"
	"slotbook/internal/domains/booking/service"
	"slotbook/shared/constant"
	"slotbook/shared/failure"
	"slotbook/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var bookingIDPattern = regexp.MustCompile(`^BK-[A-Z0-9]{1,6}-\d{1,6}$`)

type fixture struct {
	calendar *bookingMocks.MockCalendar
	notifier *bookingMocks.MockNotifier
	mailer   *bookingMocks.MockMailer
	svc      service.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		calendar: bookingMocks.NewMockCalendar(ctrl),
		notifier: bookingMocks.NewMockNotifier(ctrl),
		mailer:   bookingMocks.NewMockMailer(ctrl),
	}

	cfg := &config.Config{}
	cfg.External.Timeout.SideEffectSeconds = 2

	f.svc = service.New(
		cfg,
		model.ParseCatalog(""),
		service.NewAvailability(f.calendar, mocks.NewOtel()),
		f.calendar,
		f.notifier,
		f.mailer,
		mocks.NewOtel(),
	)

	return f
}

func (f *fixture) expectNotify(eventType gateway.EventType) *gomock.Call {
	return f.notifier.EXPECT().
		Notify(gomock.Any(), eventType, gomock.Any()).
		Return(gateway.NotifyResult{Accepted: true}, nil)
}

func validRequest() dto.BookingRequest {
	return dto.BookingRequest{
		Name:          "Anna Schmidt",
		Email:         "anna@example.com",
		Phone:         "+49 30 1234567",
		Date:          futureDay().Format(constant.DateLayout),
		Time:          "10:00",
		Services:      []string{"Massage"},
		AgreedToTerms: true,
	}
}

func assertFailure(t *testing.T, err error, code int, target error) {
	t.Helper()

	require.Error(t, err)
	assert.Equal(t, code, failure.GetCode(err))
	assert.ErrorIs(t, err, target)
}

func TestBook_RejectsInvalidInputWithoutCalls(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *dto.BookingRequest)
		target error
		msg    string
	}{
		{
			name:   "terms not accepted",
			mutate: func(req *dto.BookingRequest) { req.AgreedToTerms = false },
			target: model.ErrInvalidInput,
			msg:    "agreedToTerms must be true",
		},
		{
			name:   "missing services",
			mutate: func(req *dto.BookingRequest) { req.Services = nil },
			target: model.ErrInvalidInput,
			msg:    "services must contain at least 1 item(s)",
		},
		{
			name:   "malformed email",
			mutate: func(req *dto.BookingRequest) { req.Email = "anna" },
			target: model.ErrInvalidInput,
			msg:    "email must be a valid email address",
		},
		{
			name:   "malformed time",
			mutate: func(req *dto.BookingRequest) { req.Time = "25:00" },
			target: model.ErrInvalidInput,
			msg:    "time must be in HH:MM format",
		},
		{
			name:   "unknown service",
			mutate: func(req *dto.BookingRequest) { req.Services = []string{"Massage", "Sauna"} },
			target: model.ErrUnknownService,
		},
		{
			name:   "past date",
			mutate: func(req *dto.BookingRequest) { req.Date = timezone.Today().AddDate(0, 0, -1).Format(constant.DateLayout) },
			target: model.ErrPastDate,
			msg:    "Cannot book appointments in the past",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := validRequest()
			tt.mutate(&req)

			res, err := f.svc.Book(context.Background(), req)
			f.svc.Wait()

			assertFailure(t, err, http.StatusBadRequest, tt.target)
			assert.False(t, res.Success)

			if tt.msg != "" {
				assert.Equal(t, tt.msg, err.Error())
			}
		})
	}
}

func TestBook_SlotConflict(t *testing.T) {
	f := newFixture(t)
	day := futureDay()

	f.calendar.EXPECT().IsReady().Return(true).AnyTimes()
	f.calendar.EXPECT().ListBusyIntervals(gomock.Any(), startsOn(day)).
		Return([]model.TimeInterval{busy(t, day, "10:30", 30)}, nil)
	f.expectNotify(gateway.EventSlotConflict)

	res, err := f.svc.Book(context.Background(), validRequest())
	f.svc.Wait()

	assertFailure(t, err, http.StatusConflict, model.ErrSlotConflict)
	assert.False(t, res.Success)
}

func TestBook_CalendarErrorBlocksBooking(t *testing.T) {
	f := newFixture(t)
	day := futureDay()

	f.calendar.EXPECT().IsReady().Return(true).AnyTimes()
	f.calendar.EXPECT().ListBusyIntervals(gomock.Any(), startsOn(day)).Return(nil, errors.New("quota exceeded"))
	f.expectNotify(gateway.EventBookingError)

	_, err := f.svc.Book(context.Background(), validRequest())
	f.svc.Wait()

	assertFailure(t, err, http.StatusInternalServerError, model.ErrCalendar)
	assert.Equal(t, "Failed to create booking. Please try again later.", err.Error())
}

func TestBook_LateSlotConflictsWithNextDay(t *testing.T) {
	f := newFixture(t)
	day := futureDay()

	req := validRequest()
	req.Time = "23:30"

	f.calendar.EXPECT().IsReady().Return(true).AnyTimes()
	f.calendar.EXPECT().ListBusyIntervals(gomock.Any(), startsOn(day)).
		DoAndReturn(func(_ context.Context, window model.TimeInterval) ([]model.TimeInterval, error) {
			assert.True(t, window.End.Equal(busy(t, day.AddDate(0, 0, 1), "00:00", 30).End))

			return []model.TimeInterval{busy(t, day.AddDate(0, 0, 1), "00:00", 30)}, nil
		})
	f.expectNotify(gateway.EventSlotConflict)

	res, err := f.svc.Book(context.Background(), req)
	f.svc.Wait()

	assertFailure(t, err, http.StatusConflict, model.ErrSlotConflict)
	assert.False(t, res.Success)
}

func TestBook_PanicReportsBookingError(t *testing.T) {
	f := newFixture(t)
	day := futureDay()

	f.calendar.EXPECT().IsReady().Return(true).AnyTimes()
	f.calendar.EXPECT().ListBusyIntervals(gomock.Any(), startsOn(day)).Return(nil, nil)
	f.notifier.EXPECT().IsReady().Return(true).AnyTimes()
	f.notifier.EXPECT().SubmitBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, model.BookingRecord) (gateway.SubmitResult, error) {
			panic("nil map write")
		})
	f.notifier.EXPECT().Notify(gomock.Any(), gateway.EventBookingError, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gateway.EventType, payload any) (gateway.NotifyResult, error) {
			event, ok := payload.(service.ErrorEvent)
			if assert.True(t, ok) && assert.NotNil(t, event.BookingData) {
				assert.Contains(t, event.Error, "nil map write")
				assert.Equal(t, "Anna Schmidt", event.BookingData.Name)
			}

			return gateway.NotifyResult{Accepted: true}, nil
		})

	res, err := f.svc.Book(context.Background(), validRequest())
	f.svc.Wait()

	assertFailure(t, err, http.StatusInternalServerError, model.ErrUnexpected)
	assert.Equal(t, "Failed to create booking. Please try again later.", err.Error())
	assert.False(t, res.Success)
}

func TestBook_RemoteProcessingAccepted(t *testing.T) {
	f := newFixture(t)
	day := futureDay()

	f.calendar.EXPECT().IsReady().Return(true).AnyTimes()
	f.calendar.EXPECT().ListBusyIntervals(gomock.Any(), startsOn(day)).Return(nil, nil)
	f.calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Times(0)
	f.notifier.EXPECT().IsReady().Return(true).AnyTimes()
	f.notifier.EXPECT().SubmitBooking(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record model.BookingRecord) (gateway.SubmitResult, error) {
			assert.Equal(t, 60, record.TotalDurationMinutes)
			assert.Empty(t, record.BookingID)

			return gateway.SubmitResult{Accepted: true, EventID: "remote-1", EmailSent: true}, nil
		})

	res, err := f.svc.Book(context.Background(), validRequest())
	f.svc.Wait()

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Booking created successfully", res.Message)
	assert.Equal(t, "remote-1", res.EventID)
	assert.Regexp(t, bookingIDPattern, res.BookingID)
	assert.Contains(t, res.BookingID, "BK-ANNASC-")
}

func TestBook_RemoteFailureFallsBackToDirect(t *testing.T) {
	tests := []struct {
		name   string
		result gateway.SubmitResult
		err    error
	}{
		{name: "transport error", err: errors.New("connection refused")},
		{name: "rejected", result: gateway.SubmitResult{Accepted: false, Message: "calendar offline"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			day := futureDay()

			f.calendar.EXPECT().IsReady().Return(true).AnyTimes()
			f.calendar.EXPECT().ListBusyIntervals(gomock.Any(), startsOn(day)).Return(nil, nil)
			f.notifier.EXPECT().IsReady().Return(true).AnyTimes()
			f.notifier.EXPECT().SubmitBooking(gomock.Any(), gomock.Any()).Return(tt.result, tt.err)
			f.calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).
				Return(gateway.CalendarEvent{EventID: "evt-1", EventLink: "https://calendar/evt-1"}, nil)
			f.expectNotify(gateway.EventCalendarEventCreated)
			f.expectNotify(gateway.EventBookingCreated)
			f.mailer.EXPECT().IsReady().Return(true)
			f.mailer.EXPECT().SendConfirmation(gomock.Any(), gomock.Any(), "https://calendar/evt-1").Return("msg-1", nil)

			res, err := f.svc.Book(context.Background(), validRequest())
			f.svc.Wait()

			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, "evt-1", res.EventID)
			assert.Regexp(t, bookingIDPattern, res.BookingID)
		})
	}
}

func TestBook_CalendarWriteFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	day := futureDay()

	f.calendar.EXPECT().IsReady().Return(true).AnyTimes()
	f.calendar.EXPECT().ListBusyIntervals(gomock.Any(), startsOn(day)).Return(nil, nil)
	f.notifier.EXPECT().IsReady().Return(false).AnyTimes()
	f.calendar.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(gateway.CalendarEvent{}, errors.New("insert failed"))
	f.expectNotify(gateway.EventBookingError)
	f.notifier.EXPECT().Notify(gomock.Any(), gateway.EventBookingCreated, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gateway.EventType, payload any) (gateway.NotifyResult, error) {
			event, ok := payload.(*service.BookingEvent)
			require.True(t, ok)
			assert.Empty(t, event.EventID)
			assert.Equal(t, []string{"Massage"}, event.Services)
			assert.InDelta(t, 80.0, event.TotalPrice, 0.001)

			return gateway.NotifyResult{Accepted: false}, nil
		})
	f.mailer.EXPECT().IsReady().Return(false)

	res, err := f.svc.Book(context.Background(), validRequest())
	f.svc.Wait()

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.EventID)
	assert.Regexp(t, bookingIDPattern, res.BookingID)
}

func TestBook_WithoutCalendarSkipsGate(t *testing.T) {
	f := newFixture(t)

	f.calendar.EXPECT().IsReady().Return(false).AnyTimes()
	f.notifier.EXPECT().IsReady().Return(false).AnyTimes()
	f.expectNotify(gateway.EventBookingCreated)
	f.mailer.EXPECT().IsReady().Return(true)
	f.mailer.EXPECT().SendConfirmation(gomock.Any(), gomock.Any(), "").Return("", errors.New("smtp down"))
	f.expectNotify(gateway.EventBookingError)

	req := validRequest()
	req.Services = []string{"Massage", "Maniküre"}

	res, err := f.svc.Book(context.Background(), req)
	f.svc.Wait()

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.EventID)
}

func TestBook_NotificationFailureDoesNotBlockEmail(t *testing.T) {
	f := newFixture(t)

	f.calendar.EXPECT().IsReady().Return(false).AnyTimes()
	f.notifier.EXPECT().IsReady().Return(false).AnyTimes()
	f.notifier.EXPECT().Notify(gomock.Any(), gateway.EventBookingCreated, gomock.Any()).
		Return(gateway.NotifyResult{}, errors.New("relay down"))
	f.mailer.EXPECT().IsReady().Return(true)
	f.mailer.EXPECT().SendConfirmation(gomock.Any(), gomock.Any(), "").Return("msg-1", nil)

	res, err := f.svc.Book(context.Background(), validRequest())
	f.svc.Wait()

	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestBook_SideEffectsOutliveRequestContext(t *testing.T) {
	f := newFixture(t)

	f.calendar.EXPECT().IsReady().Return(false).AnyTimes()
	f.notifier.EXPECT().IsReady().Return(false).AnyTimes()
	f.notifier.EXPECT().Notify(gomock.Any(), gateway.EventBookingCreated, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ gateway.EventType, _ any) (gateway.NotifyResult, error) {
			assert.NoError(t, ctx.Err())

			return gateway.NotifyResult{Accepted: true}, nil
		})
	f.mailer.EXPECT().IsReady().Return(false)

	ctx, cancel := context.WithCancel(context.Background())

	_, err := f.svc.Book(ctx, validRequest())
	cancel()
	f.svc.Wait()

	require.NoError(t, err)
}

func TestAvailability(t *testing.T) {
	t.Run("past date makes no calls", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Availability(context.Background(), dto.AvailabilityRequest{
			Date: timezone.Today().AddDate(0, 0, -1).Format(constant.DateLayout),
		})
		f.svc.Wait()

		assertFailure(t, err, http.StatusBadRequest, model.ErrPastDate)
		assert.Equal(t, "Cannot check availability for past dates", err.Error())
	})

	t.Run("invalid date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Availability(context.Background(), dto.AvailabilityRequest{Date: "01.05.2030"})
		f.svc.Wait()

		assertFailure(t, err, http.StatusBadRequest, model.ErrInvalidInput)
	})

	t.Run("default duration without calendar", func(t *testing.T) {
		f := newFixture(t)

		f.calendar.EXPECT().IsReady().Return(false).AnyTimes()
		f.notifier.EXPECT().Notify(gomock.Any(), gateway.EventAvailabilityCheck, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gateway.EventType, payload any) (gateway.NotifyResult, error) {
				event, ok := payload.(service.AvailabilityEvent)
				require.True(t, ok)
				assert.Equal(t, 60, event.DurationMinutes)
				assert.Equal(t, "203.0.113.9", event.IP)

				return gateway.NotifyResult{Accepted: true}, nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyClientIP, "203.0.113.9")

		res, err := f.svc.Availability(ctx, dto.AvailabilityRequest{Date: futureDay().Format(constant.DateLayout)})
		f.svc.Wait()

		require.NoError(t, err)
		assert.True(t, res.Success)
		require.Len(t, res.AvailableSlots, 8)
		assert.Equal(t, dto.SlotResponse{StartTime: "09:00", EndTime: "10:00"}, res.AvailableSlots[0])
		assert.Equal(t, dto.SlotResponse{StartTime: "16:00", EndTime: "17:00"}, res.AvailableSlots[7])
	})

	t.Run("calendar error", func(t *testing.T) {
		f := newFixture(t)
		day := futureDay()

		f.calendar.EXPECT().IsReady().Return(true).AnyTimes()
		f.calendar.EXPECT().ListBusyIntervals(gomock.Any(), startsOn(day)).Return(nil, errors.New("timeout"))
		f.expectNotify(gateway.EventAvailabilityCheck)

		_, err := f.svc.Availability(context.Background(), dto.AvailabilityRequest{
			Date:            day.Format(constant.DateLayout),
			DurationMinutes: 30,
		})
		f.svc.Wait()

		assertFailure(t, err, http.StatusInternalServerError, model.ErrCalendar)
		assert.Equal(t, "Failed to check availability", err.Error())
	})
}

func TestServices(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, model.DefaultServices(), f.svc.Services())
}

// startsOn matches a busy-time window that begins on day.
func startsOn(day time.Time) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		window, ok := x.(model.TimeInterval)

		return ok && model.DayInterval(day).Contains(window.Start)
	})
}
