// Package fakeapi is an in-memory twin of the Simple Books API. It reproduces the responses,
// including the exact error messages and lenient parameter parsing, that the contract tests
// expect from the real service, so that the suite can be run offline and tested end to end.
package fakeapi

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
)

// Handler serves the API routes over one Store.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{store: store, logger: logger}
}

// NewRouter returns a router with the API routes and the request logging middleware mounted.
func NewRouter(store *Store, logger *slog.Logger) *chi.Mux {
	h := NewHandler(store, logger)
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(h.requestLog)
	h.Routes(r)
	return r
}

// Routes mounts the Simple Books routes. Unknown paths and unsupported methods both answer 404,
// as the real service does.
func (h *Handler) Routes(r chi.Router) {
	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.notFound)

	r.Get("/status", h.GetStatus)
	r.Get("/books", h.ListBooks)
	r.Get("/books/{bookID}", h.GetBook)
	r.Post("/api-clients", h.RegisterClient)
	r.Post("/api-clients/", h.RegisterClient)

	r.Group(func(r chi.Router) {
		r.Use(h.requireToken)
		r.Get("/orders", h.ListOrders)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders/{orderID}", h.GetOrder)
		r.Patch("/orders/{orderID}", h.UpdateOrder)
		r.Delete("/orders/{orderID}", h.DeleteOrder)
	})
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found.")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
