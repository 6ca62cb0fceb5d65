package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slotbook/config"
	"slotbook/infras/kafka"
	"slotbook/internal/domains/booking/service"
	"slotbook/shared/constant"
	"slotbook/shared/lifecycle"
	"slotbook/transport/http/router"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	defaultPort       = "8080"
)

type HTTP struct {
	Config  *config.Config
	Router  router.Router
	State   *lifecycle.State
	booking service.Booking
	bus     kafka.Client
	handler http.Handler
	server  *http.Server
	once    sync.Once
}

func New(cfg *config.Config, r router.Router, state *lifecycle.State, booking service.Booking, bus kafka.Client) *HTTP {
	return &HTTP{
		Config:  cfg,
		Router:  r,
		State:   state,
		booking: booking,
		bus:     bus,
	}
}

// Serve blocks until the server stops. A termination signal walks the server through the
// grace and cleanup periods before in-flight requests and side effects are drained.
func (h *HTTP) Serve() {
	h.setup()

	port := h.Config.Server.Port
	if port == "" {
		port = defaultPort
	}

	h.server = &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, port),
		Handler:           h.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	done := make(chan struct{})
	go h.respondToSigterm(done)

	log.Info().Str("port", port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-done
}

// ServeHTTP lets the application run behind a serverless entrypoint without its own listener.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.setup()

	h.handler.ServeHTTP(w, r)
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.State.Set(lifecycle.ServerStateReady)
	})
}

func (h *HTTP) setupRoutes() {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.RequestID)
	mux.Use(requestIDHeader)
	mux.Use(chiMiddleware.Recoverer)

	h.Router.SetupRoutes(mux)

	h.handler = mux
}

func requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chiMiddleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(constant.RequestHeaderRequestID, id)
		}

		next.ServeHTTP(w, r)
	})
}

func (h *HTTP) respondToSigterm(done chan struct{}) {
	defer close(done)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	<-signals

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
		h.shutdown(0)

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.State.Set(lifecycle.ServerStateInGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.State.Set(lifecycle.ServerStateInCleanupPeriod)

	h.shutdown(time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) shutdown(timeout time.Duration) {
	ctx := context.Background()

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not shut down cleanly")
	}

	h.booking.Wait()

	if h.bus != nil {
		if err := h.bus.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka client")
		}
	}
}
