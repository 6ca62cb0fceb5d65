//go:build wireinject
// +build wireinject

package di

import (
	"slotbook/config"
	"slotbook/infras/kafka"
	"slotbook/infras/otel"
	"slotbook/infras/redis"
	"slotbook/infras/s3"
	"slotbook/internal/domains/booking/service"
	"slotbook/internal/integrations/calendar"
	"slotbook/internal/integrations/mailer"
	"slotbook/shared/cache"
	"slotbook/shared/lifecycle"
	"slotbook/transport/http"
	"slotbook/transport/http/middleware"
	"slotbook/transport/http/router"

	"github.com/google/wire"

	bookingHandler "slotbook/internal/handlers/booking"
	healthHandler "slotbook/internal/handlers/health"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lifecycle.New,
)

var integrations = wire.NewSet(
	calendar.New,
	provideNotifier,
	mailer.New,
)

var bookingDomain = wire.NewSet(
	provideCatalog,
	service.NewAvailability,
	service.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		integrations,
		bookingDomain,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeAvailability() service.Availability {
	wire.Build(
		configurations,
		otel.New,
		redis.New,
		cache.NewRedisCache,
		calendar.New,
		service.NewAvailability,
	)

	return nil
}
