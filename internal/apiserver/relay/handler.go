package relay

import (
	"errors"
	"net/http"

	"interntech/internal/apiserver/apiutil"
	"interntech/internal/shared/model"
)

// Handler 内容生成 HTTP 处理器
type Handler struct {
	relay *Relay
}

func NewHandler(relay *Relay) *Handler {
	return &Handler{relay: relay}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/ai/{kind}", h.Generate)
}

// Generate POST /api/admin/ai/{kind}
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := apiutil.DecodeJSON(w, r, &in); err != nil {
		apiutil.WriteStoreError(w, "relay.generate", "generation", err)
		return
	}

	out, err := h.relay.Generate(r.Context(), Kind(r.PathValue("kind")), in)
	if err != nil {
		if ve, ok := model.AsValidationError(err); ok {
			apiutil.WriteValidationError(w, ve)
			return
		}
		switch {
		case errors.Is(err, ErrUnknownKind):
			apiutil.WriteError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotConfigured):
			apiutil.WriteError(w, http.StatusServiceUnavailable, ErrNotConfigured.Error())
		default:
			// 详细原因已由 GenerationLog 记录
			apiutil.WriteError(w, http.StatusBadGateway, "generation failed")
		}
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, out)
}
