package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/levenlabs/go-lflag"
	"github.com/tierwatt/tierwatt/pkg/log"
	"github.com/tierwatt/tierwatt/pkg/storage"
	"github.com/tierwatt/tierwatt/pkg/tariff"
	"github.com/tierwatt/tierwatt/pkg/types"
)

// Server handles the HTTP API for bill and solar payback estimates.
// Every request is an independent calculation against the tariff map.
type Server struct {
	tariffs  *tariff.Map
	storage  storage.Database
	defaults types.Defaults

	listenAddr       string
	httpServer       *http.Server
	serverName       string
	webCacheDuration time.Duration
}

// Configured initializes the Server with dependencies.
// It uses lflag to register command-line flags for configuration.
func Configured(tariffs *tariff.Map, db storage.Database) *Server {
	srv := &Server{
		tariffs:    tariffs,
		storage:    db,
		defaults:   types.DefaultDefaults(),
		serverName: "tierwatt",
	}
	revision := os.Getenv("K_REVISION")
	if revision != "" {
		srv.serverName = revision
	}

	// get the port from PORT when running in cloud run
	port := os.Getenv("PORT")
	if port == "" {
		// otherwise default to 8080
		port = "8080"
	}

	d := types.DefaultDefaults()
	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	webCacheDuration := lflag.Duration("web-cache-duration", 0, "Duration to cache tariff and preset responses (e.g. 1h, 5m). 0 means no cache.")
	panelCurrency := lflag.String("panel-currency", d.PanelCurrency, "Currency panel prices are quoted in")
	lflag.JSON(&d.GenerationPerPanelKWH, "panel-generation-kwh", d.GenerationPerPanelKWH, "Default yearly generation of a single panel in kWh")
	lflag.JSON(&d.CostPerPanel, "panel-cost", d.CostPerPanel, "Default price of a single panel in the panel currency")
	lflag.JSON(&d.ExchangeRate, "exchange-rate", d.ExchangeRate, "Default billing currency units per panel currency unit")
	lflag.JSON(&d.Limits.MaxPanels, "max-panels", d.Limits.MaxPanels, "Largest panel count accepted and searched")
	lflag.JSON(&d.Limits.MaxConsumptionKWH, "max-consumption-kwh", d.Limits.MaxConsumptionKWH, "Largest monthly consumption accepted; larger values are clamped")
	lflag.JSON(&d.Limits.MaxGenerationPerPanelKWH, "max-panel-generation-kwh", d.Limits.MaxGenerationPerPanelKWH, "Largest yearly generation per panel accepted. 0 means no limit.")
	lflag.JSON(&d.Limits.MaxCostPerPanel, "max-panel-cost", d.Limits.MaxCostPerPanel, "Largest panel price accepted. 0 means no limit.")
	lflag.JSON(&d.Limits.MaxExchangeRate, "max-exchange-rate", d.Limits.MaxExchangeRate, "Largest exchange rate accepted. 0 means no limit.")
	lflag.JSON(&d.ProjectionYears, "projection-years", d.ProjectionYears, "JSON list of horizons in years to project net savings for")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		srv.webCacheDuration = *webCacheDuration
		d.PanelCurrency = *panelCurrency

		// the defaults have to be valid inputs themselves
		if _, err := d.Input(d.ConsumptionKWH, d.PanelCount).Normalize(d.Limits); err != nil {
			log.Ctx(context.Background()).Error("invalid scenario defaults", slog.Any("error", err))
			os.Exit(1)
		}
		if d.Limits.MaxPanels < 1 {
			log.Ctx(context.Background()).Error("max-panels must be at least 1")
			os.Exit(1)
		}
		srv.defaults = d
	})

	return srv
}

func (s *Server) setupHandler() http.Handler {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/tariffs", s.handleListTariffs)
	apiMux.HandleFunc("GET /api/tariffs/{id}", s.handleGetTariff)
	apiMux.HandleFunc("GET /api/cost", s.handleCost)
	apiMux.HandleFunc("POST /api/scenario", s.handleScenario)
	apiMux.HandleFunc("POST /api/optimal", s.handleOptimal)
	apiMux.HandleFunc("GET /api/curve", s.handleCurve)
	apiMux.HandleFunc("GET /api/presets", s.handlePresets)

	mux := http.NewServeMux()
	mux.Handle("/api/", s.requestIDMiddleware(apiMux))
	mux.HandleFunc("/healthz", s.handleHealthz)
	return s.revisionMiddleware(gziphandler.GzipHandler(s.securityHeadersMiddleware(mux)))
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// use a channel to capturing server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		// Context canceled, shut down gracefully
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Ctx(r.Context()).ErrorContext(r.Context(), "failed to encode response", slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
}

// writeInputError maps a boundary error onto a status code.
func writeInputError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tariff.ErrUnknownTariff), errors.Is(err, storage.ErrTariffNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, types.ErrNonFinite), errors.Is(err, types.ErrOutOfDomain), errors.Is(err, errBadRequest):
		log.Ctx(r.Context()).DebugContext(r.Context(), "rejected request", slog.Any("error", err))
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Ctx(r.Context()).ErrorContext(r.Context(), "failed to handle request", slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) setCacheControl(w http.ResponseWriter) {
	if s.webCacheDuration > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.webCacheDuration.Seconds())))
	}
}
