package handler

import (
	"net/http"
	"slotbook/config"
	"slotbook/di"
	"slotbook/shared/logger"
	"sync"

	httpTransport "slotbook/transport/http"
)

var (
	app  *httpTransport.HTTP
	once sync.Once
)

// Handler is the serverless entrypoint. The application is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)
		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	app.ServeHTTP(w, r)
}
