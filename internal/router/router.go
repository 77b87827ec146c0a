package router

import (
	"net/http"

	"github.com/BerylCAtieno/ask-relay/internal/handlers"
	"github.com/BerylCAtieno/ask-relay/internal/middleware"
	"github.com/BerylCAtieno/ask-relay/internal/services"
	"github.com/BerylCAtieno/ask-relay/internal/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(askService services.AskService, staticDir string, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	askHandler := handlers.NewAskHandler(askService, logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// OPTIONS is matched so the CORS middleware can answer preflights.
	r.HandleFunc("/api/ask", askHandler.Ask).Methods(http.MethodPost, http.MethodOptions)

	// Static site
	r.PathPrefix("/").Handler(handlers.NewStaticHandler(staticDir)).Methods(http.MethodGet, http.MethodHead)

	return r
}
