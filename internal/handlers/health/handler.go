package health

import (
	"net/http"
	"slotbook/config"
	"slotbook/infras/kafka"
	"slotbook/infras/s3"
	"slotbook/internal/domains/booking/gateway"
	"slotbook/shared"
	"slotbook/shared/constant"
	"slotbook/shared/lifecycle"
	"slotbook/shared/timezone"
	"slotbook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const (
	statusOK       = "ok"
	defaultVersion = "dev"
)

// Services reports which integrations are configured, not whether they are reachable.
type Services struct {
	Relay          bool `json:"relay"`
	GoogleCalendar bool `json:"googleCalendar"`
	Email          bool `json:"email"`
	EventBus       bool `json:"eventBus"`
	Invites        bool `json:"invites"`
}

type Response struct {
	Status      string   `example:"ok"                   json:"status"`
	Timestamp   string   `example:"2030-05-01T09:00:00Z" json:"timestamp"`
	Environment string   `example:"production"           json:"environment"`
	Version     string   `example:"1.0.0"                json:"version"`
	Services    Services `json:"services"`
}

type Handler struct {
	config   *config.Config
	state    *lifecycle.State
	calendar gateway.Calendar
	notifier gateway.Notifier
	mailer   gateway.Mailer
	bus      kafka.Client
	storage  s3.S3
}

func New(
	cfg *config.Config,
	state *lifecycle.State,
	calendar gateway.Calendar,
	notifier gateway.Notifier,
	mailer gateway.Mailer,
	bus kafka.Client,
	storage s3.S3,
) Handler {
	return Handler{
		config:   cfg,
		state:    state,
		calendar: calendar,
		notifier: notifier,
		mailer:   mailer,
		bus:      bus,
		storage:  storage,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health-check", handler.Check)
}

// Check reports the service status.
// @Summary Health check
// @Description Reports which integrations are configured. Answers 503 before the server is ready and once shutdown has begun.
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} response.Error
// @Router /health-check [get]
func (handler *Handler) Check(writer http.ResponseWriter, _ *http.Request) {
	if handler.state.ShuttingDown() {
		response.WithPreparingShutdown(writer)

		return
	}

	if handler.state.Get() == lifecycle.ServerStateStarting {
		response.WithUnhealthy(writer)

		return
	}

	response.WithJSON(writer, http.StatusOK, Response{
		Status:      statusOK,
		Timestamp:   timezone.Now().Format(constant.DateFormat),
		Environment: handler.environment(),
		Version:     shared.FirstNonEmpty(handler.config.App.Version, defaultVersion),
		Services: Services{
			Relay:          handler.notifier.IsReady(),
			GoogleCalendar: handler.calendar.IsReady(),
			Email:          handler.mailer.IsReady(),
			EventBus:       handler.bus != nil && handler.bus.Ready() && handler.config.External.Kafka.Topic != "",
			Invites:        handler.storage != nil && handler.storage.Ready(),
		},
	})
}

func (handler *Handler) environment() string {
	if handler.config.Server.Env == constant.ServerEnvProduction {
		return constant.ServerEnvProduction
	}

	return constant.ServerEnvDevelopment
}
