package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"interntech/internal/apiserver/apiutil"
)

const healthTimeout = 2 * time.Second

// Health GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("[server.health] store ping failed: %v", err)
		apiutil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OpenAPI GET /api/openapi.json
func (h *Handler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(h.spec)
}
