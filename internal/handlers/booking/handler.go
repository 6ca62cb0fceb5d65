package booking

import (
	"net/http"
	"slotbook/infras/otel"
	"slotbook/internal/domains/booking/model/dto"
	"slotbook/internal/domains/booking/service"
	"slotbook/shared/constant"
	"slotbook/shared/validator"
	"slotbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/availability", handler.Availability)
	router.Post("/book", handler.Book)
	router.Get("/services", handler.Services)
}

// Services lists the bookable services.
// @Summary List services
// @Description The service catalog names accepted by /api/book, with duration and price.
// @Tags Booking
// @Produce json
// @Success 200 {object} dto.ServicesResponse
// @Failure 429 {object} response.Error
// @Router /api/services [get]
func (handler *Handler) Services(writer http.ResponseWriter, _ *http.Request) {
	res := dto.ServicesResponse{}
	res.FromModels(handler.service.Services())

	response.WithJSON(writer, http.StatusOK, res)
}

// Availability lists the free slots of a day.
// @Summary List free slots
// @Description Business-hours slots of the requested length that do not overlap any calendar event. Without a configured calendar every slot is returned. durationMinutes defaults to 60 and may not exceed 480; larger values are rejected with 400.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.AvailabilityRequest true "Availability Request"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 400 {object} response.Error
// @Failure 429 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/availability [post]
func (handler *Handler) Availability(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Availability")
	defer scope.End()

	req := dto.AvailabilityRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, maxBodyBytes), &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid availability request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Availability(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("date", req.Date).Msg("failed to list availability")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Book books an appointment.
// @Summary Book an appointment
// @Description Checks the slot against the calendar, then hands the booking to the remote processor or creates the calendar event directly. Notifications and the confirmation email are sent in the background.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.BookingRequest true "Booking Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error "Slot already taken"
// @Failure 429 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/book [post]
func (handler *Handler) Book(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Book")
	defer scope.End()

	req := dto.BookingRequest{}

	if err := validator.Validate(http.MaxBytesReader(writer, request.Body, maxBodyBytes), &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("invalid booking request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Book(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("date", req.Date).Str("time", req.Time).Msg("failed to book")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created " + res.BookingID)

	response.WithJSON(writer, http.StatusOK, res)
}
