package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP routes. overlayWS, when non-nil, serves the
// WebSocket endpoint the browser overlay subscribes to for live marker
// operations.
func NewRouter(h *Handler, overlayWS http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/palworld/players", h.Players)
		r.Get("/palworld/info", h.Info)
		r.Get("/map/objects", h.MapObjects)

		if overlayWS != nil {
			r.Get("/map/ws", overlayWS.ServeHTTP)
		}
	})

	return r
}
