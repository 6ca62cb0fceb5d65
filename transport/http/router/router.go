package router

import (
	"net/http"
	_ "slotbook/docs" // registers the OpenAPI document served under /api-docs
	"slotbook/internal/handlers/booking"
	"slotbook/internal/handlers/health"
	"slotbook/shared/failure"
	"slotbook/transport/http/middleware"
	"slotbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Booking booking.Handler
	Health  health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.Middleware.Tracing)
	router.Use(r.Middleware.ClientIP)

	router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.WithError(w, failure.NotFound("route "+req.URL.Path+" not found"))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.WithError(w, failure.MethodNotAllowed(req.Method))
	})

	r.DomainHandlers.Health.Router(router)

	router.Get("/api-docs/*", httpSwagger.WrapHandler)

	router.Route("/api", func(routerGroup chi.Router) {
		routerGroup.Use(r.Middleware.CORS())
		routerGroup.Use(r.Middleware.RateLimit())

		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     appMiddleware,
	}
}
