package service

//go:generate go run go.uber.org/mock/mockgen -source=./booking.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slotbook/config"
	"slotbook/infras/otel"
	"slotbook/internal/domains/booking/gateway"
	"slotbook/internal/domains/booking/model"
	"slotbook/internal/domains/booking/model/dto"
	"slotbook/shared/constant"
	"slotbook/shared/failure"
	"slotbook/shared/timezone"
	"slotbook/shared/validator"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	msgPastBooking       = "Cannot book appointments in the past"
	msgPastAvailability  = "Cannot check availability for past dates"
	msgSlotConflict      = "The selected time slot is not available. Please choose another time."
	msgBookingFailed     = "Failed to create booking. Please try again later."
	msgAvailabilityError = "Failed to check availability"
)

type Booking interface {
	Availability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Book(ctx context.Context, req dto.BookingRequest) (dto.BookingResponse, error)
	Services() []model.Service
	// Wait blocks until detached notifications and emails have finished.
	Wait()
}

type serviceImpl struct {
	catalog      *model.Catalog
	availability Availability
	calendar     gateway.Calendar
	notifier     gateway.Notifier
	mailer       gateway.Mailer
	otel         otel.Otel
	effects      *effects
}

func New(
	cfg *config.Config,
	catalog *model.Catalog,
	availability Availability,
	calendar gateway.Calendar,
	notifier gateway.Notifier,
	mailer gateway.Mailer,
	otel otel.Otel,
) Booking {
	timeout := cfg.External.Timeout.SideEffectSeconds
	if timeout <= 0 {
		timeout = constant.DefaultSideEffectTimeoutSeconds
	}

	return &serviceImpl{
		catalog:      catalog,
		availability: availability,
		calendar:     calendar,
		notifier:     notifier,
		mailer:       mailer,
		otel:         otel,
		effects:      newEffects(time.Duration(timeout) * time.Second),
	}
}

func (s *serviceImpl) Services() []model.Service {
	return s.catalog.Services()
}

func (s *serviceImpl) Wait() {
	s.effects.Wait()
}

func (s *serviceImpl) Availability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, invalidInput(err)
	}

	day, err := model.ParseDay(req.Date)
	if err != nil {
		return res, invalidInput(err)
	}

	if timezone.IsPastDay(day) {
		return res, failure.New(http.StatusBadRequest, model.ErrPastDate, msgPastAvailability)
	}

	duration := req.Duration()
	scope.SetAttributes(map[string]any{"date": req.Date, "duration": duration})

	s.notify(ctx, gateway.EventAvailabilityCheck, AvailabilityEvent{
		Date:            req.Date,
		DurationMinutes: duration,
		IP:              clientIP(ctx),
		Timestamp:       now(),
	})

	slots, err := s.availability.ListFreeSlots(ctx, day, duration)
	if err != nil {
		log.Error().Err(err).Str("date", req.Date).Msg("failed to list free slots")

		return res, failure.New(http.StatusInternalServerError, err, msgAvailabilityError)
	}

	res.FromModels(slots)

	return res, nil
}

func (s *serviceImpl) Book(ctx context.Context, req dto.BookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Book")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var record model.BookingRecord

	defer func() {
		if r := recover(); r != nil {
			res, err = dto.BookingResponse{}, s.recoverBooking(ctx, r, record)
		}
	}()

	record, err = s.prepare(req)
	if err != nil {
		return res, err
	}

	scope.SetAttributes(map[string]any{
		"date":     record.Date,
		"time":     record.Time,
		"duration": record.TotalDurationMinutes,
	})

	if err = s.checkAvailability(ctx, record); err != nil {
		return res, err
	}

	if delegated, ok := s.delegate(ctx, record); ok {
		res.FromModel(delegated)

		return res, nil
	}

	res.FromModel(s.fulfil(ctx, record))

	return res, nil
}

// prepare validates the request, resolves its services and rejects past dates.
// Nothing outside the process is touched before it returns.
func (s *serviceImpl) prepare(req dto.BookingRequest) (model.BookingRecord, error) {
	if err := validator.ValidateStruct(&req); err != nil {
		return model.BookingRecord{}, invalidInput(err)
	}

	day, err := model.ParseDay(req.Date)
	if err != nil {
		return model.BookingRecord{}, invalidInput(err)
	}

	startMinute, err := model.ParseClock(req.Time)
	if err != nil {
		return model.BookingRecord{}, invalidInput(err)
	}

	services, err := s.catalog.Resolve(req.Services)
	if err != nil {
		return model.BookingRecord{}, failure.New(http.StatusBadRequest, err, err.Error())
	}

	if timezone.IsPastDay(day) {
		return model.BookingRecord{}, failure.New(http.StatusBadRequest, model.ErrPastDate, msgPastBooking)
	}

	record, err := model.NewBookingRecord(req.ToModel(), day, startMinute, services)
	if err != nil {
		return model.BookingRecord{}, invalidInput(err)
	}

	return record, nil
}

// checkAvailability is the hard gate: a calendar that cannot answer blocks the booking.
// Without a calendar the booking goes through unchecked.
func (s *serviceImpl) checkAvailability(ctx context.Context, record model.BookingRecord) error {
	if !s.calendar.IsReady() {
		log.Warn().Str("date", record.Date).Str("time", record.Time).Msg("calendar not configured, skipping availability check")

		return nil
	}

	free, err := s.availability.IsSlotFree(ctx, record.Day, record.Time, record.TotalDurationMinutes)
	if err != nil {
		log.Error().Err(err).Str("date", record.Date).Str("time", record.Time).Msg("failed to check slot availability")
		s.notify(ctx, gateway.EventBookingError, newErrorEvent(ctx, err, &record))

		return failure.New(http.StatusInternalServerError, err, msgBookingFailed)
	}

	if !free {
		log.Info().Str("date", record.Date).Str("time", record.Time).Msg("requested slot is taken")
		s.notify(ctx, gateway.EventSlotConflict, newErrorEvent(ctx, model.ErrSlotConflict, &record))

		return failure.New(http.StatusConflict, model.ErrSlotConflict, msgSlotConflict)
	}

	return nil
}

// delegate hands the whole booking to the remote processor. Any failure falls through to
// local fulfilment and is not retried.
func (s *serviceImpl) delegate(ctx context.Context, record model.BookingRecord) (model.BookingRecord, bool) {
	if !s.notifier.IsReady() {
		return record, false
	}

	result, err := s.notifier.SubmitBooking(ctx, record)
	if err != nil {
		log.Warn().Err(err).Msg("remote booking processing failed, falling back to direct processing")

		return record, false
	}

	if !result.Accepted {
		log.Warn().Str("message", result.Message).Msg("remote booking processing rejected, falling back to direct processing")

		return record, false
	}

	record.BookingID = model.NewBookingID(record.Name, timezone.Now())
	record.EventID = result.EventID

	log.Info().
		Str("bookingId", record.BookingID).
		Str("eventId", record.EventID).
		Bool("emailSent", result.EmailSent).
		Msg("booking processed remotely")

	return record, true
}

// fulfil books locally. A failed calendar write is logged and reported but the booking
// still succeeds; notification and email run detached and independently of each other.
func (s *serviceImpl) fulfil(ctx context.Context, record model.BookingRecord) model.BookingRecord {
	record.BookingID = model.NewBookingID(record.Name, timezone.Now())

	if s.calendar.IsReady() {
		event, err := s.calendar.CreateEvent(ctx, record)
		if err != nil {
			log.Error().Err(err).Str("bookingId", record.BookingID).Msg("failed to create calendar event")
			s.notify(ctx, gateway.EventBookingError, newErrorEvent(ctx, err, &record))
		} else {
			record.EventID = event.EventID
			record.EventLink = event.EventLink

			s.notify(ctx, gateway.EventCalendarEventCreated, CalendarEventCreated{
				EventID:    record.EventID,
				Date:       record.Date,
				Time:       record.Time,
				ClientName: record.Name,
				Services:   strings.Join(record.ServiceNames, ", "),
			})
		}
	} else {
		log.Warn().Str("bookingId", record.BookingID).Msg("calendar not configured, skipping event creation")
	}

	s.notify(ctx, gateway.EventBookingCreated, newBookingEvent(ctx, record))

	if s.mailer.IsReady() {
		s.sendConfirmation(ctx, record)
	} else {
		log.Warn().Str("bookingId", record.BookingID).Msg("email not configured, skipping confirmation")
	}

	log.Info().Str("bookingId", record.BookingID).Str("eventId", record.EventID).Msg("booking processed directly")

	return record
}

func (s *serviceImpl) sendConfirmation(ctx context.Context, record model.BookingRecord) {
	failed := newErrorEvent(ctx, model.ErrEmail, &record)

	s.effects.Go(ctx, "send confirmation", func(ctx context.Context) error {
		messageID, err := s.mailer.SendConfirmation(ctx, record, record.EventLink)
		if err != nil {
			failed.Error = err.Error()
			if _, notifyErr := s.notifier.Notify(ctx, gateway.EventBookingError, failed); notifyErr != nil {
				log.Warn().Err(notifyErr).Msg("failed to report email failure")
			}

			return fmt.Errorf("%w: %w", model.ErrEmail, err)
		}

		log.Info().Str("bookingId", record.BookingID).Str("messageId", messageID).Msg("confirmation sent")

		return nil
	})
}

func (s *serviceImpl) notify(ctx context.Context, eventType gateway.EventType, payload any) {
	s.effects.Go(ctx, "notify "+string(eventType), func(ctx context.Context) error {
		result, err := s.notifier.Notify(ctx, eventType, payload)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", model.ErrNotification, eventType, err)
		}

		if !result.Accepted {
			log.Debug().Str("eventType", string(eventType)).Msg("notification not accepted")
		}

		return nil
	})
}

// recoverBooking turns a panic during Book into a reported booking_error and a generic 500.
// record is empty when the panic happened before the request was prepared.
func (s *serviceImpl) recoverBooking(ctx context.Context, recovered any, record model.BookingRecord) error {
	err := fmt.Errorf("%w: %v", model.ErrUnexpected, recovered)

	log.Error().Err(err).Str("date", record.Date).Str("time", record.Time).Msg("booking panicked")

	var prepared *model.BookingRecord
	if record.Name != "" {
		prepared = &record
	}

	s.notify(ctx, gateway.EventBookingError, newErrorEvent(ctx, err, prepared))

	return failure.New(http.StatusInternalServerError, err, msgBookingFailed)
}

func invalidInput(err error) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return failure.New(http.StatusBadRequest, model.ErrInvalidInput, fail.Message)
	}

	return failure.New(http.StatusBadRequest, errors.Join(model.ErrInvalidInput, err), err.Error())
}
