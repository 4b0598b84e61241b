// Package api serves a project store over HTTP so a browser front end or
// another rowcount on a different machine can share it.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tableflip.dev/rowcount/pkg/store"
)

// NewRouter creates the router for kv. A non-empty token protects the
// storage routes; /health stays open.
func NewRouter(kv store.KV, token string, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	h := &StorageHandler{kv: kv, log: logger}

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))
		r.Route("/api/storage", func(r chi.Router) {
			r.Get("/list", h.List)
			r.Get("/get", h.Get)
			r.Post("/set", h.Set)
			r.Post("/delete", h.Delete)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
