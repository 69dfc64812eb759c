// Package api exposes the map page's HTTP endpoints: thin read-through
// proxies to the dedicated server's REST API and the cached map-object file.
package api

import (
	"context"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/palworld-go/palmap/pkg/core"
)

// PlayerSource provides live data from the dedicated server.
type PlayerSource interface {
	Players(ctx context.Context) ([]core.Player, error)
	Info(ctx context.Context) (core.ServerInfo, error)
}

// ObjectSource provides the static world-object metadata.
type ObjectSource interface {
	Visible() ([]core.MapObject, error)
}

// Handler contains dependencies for the API handlers.
type Handler struct {
	upstream PlayerSource
	objects  ObjectSource
	logger   *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(upstream PlayerSource, objects ObjectSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{upstream: upstream, objects: objects, logger: logger}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{StatusCode: status, StatusMessage: message})
}

// Players proxies GET /api/palworld/players. Upstream failures surface as 502
// with the upstream's message; the map page degrades to zero players.
func (h *Handler) Players(w http.ResponseWriter, r *http.Request) {
	players, err := h.upstream.Players(r.Context())
	if err != nil {
		h.logger.Warn("Upstream players request failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if players == nil {
		players = []core.Player{}
	}
	writeJSON(w, http.StatusOK, players)
}

// Info proxies GET /api/palworld/info.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.upstream.Info(r.Context())
	if err != nil {
		h.logger.Warn("Upstream info request failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// MapObjects serves GET /api/map/objects from the cached data file. File
// problems are local faults, not upstream ones: 500 with a generic message.
func (h *Handler) MapObjects(w http.ResponseWriter, r *http.Request) {
	objects, err := h.objects.Visible()
	if err != nil {
		h.logger.Error("Failed to load map objects", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load map objects")
		return
	}
	if objects == nil {
		objects = []core.MapObject{}
	}
	writeJSON(w, http.StatusOK, objects)
}
