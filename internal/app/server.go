package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/viewparams/internal/navigator"
)

// shutdownTimeout bounds the graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// locationRequest is the body of POST /location.
type locationRequest struct {
	Location string `json:"location"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP API: /health and GET/POST /location.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /location", a.getLocationHandler)
	mux.HandleFunc("POST /location", a.postLocationHandler)
	return mux
}

// healthHandler reports that the process is up.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) getLocationHandler(w http.ResponseWriter, r *http.Request) {
	st, err := a.Current()
	if err != nil {
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	a.writeJSON(w, http.StatusOK, st)
}

func (a *App) postLocationHandler(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	a.logger.Debug("Location requested over HTTP.", "location", req.Location, "remote_addr", r.RemoteAddr)

	st, err := a.Navigate(req.Location)
	switch {
	case err == nil:
		a.writeJSON(w, http.StatusOK, st)
	case errors.Is(err, navigator.ErrUnknownView), errors.Is(err, navigator.ErrNoView):
		a.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		a.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("Failed to write response.", "error", err)
	}
}

// startServer runs the HTTP API on port in the background.
func (a *App) startServer(port int) {
	addr := fmt.Sprintf(":%d", port)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.logger.Info("HTTP server starting", "address", fmt.Sprintf("http://localhost%s/location", addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeServer() error {
	if a.httpServer == nil {
		a.logger.Debug("HTTP server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down HTTP server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("HTTP server shut down gracefully.")
	return nil
}
