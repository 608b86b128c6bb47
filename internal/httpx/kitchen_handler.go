package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/puestomx/go-kitchen-sync/internal/syncer"
)

// KitchenHandler exposes the open/closed toggle the kitchen board flips
// at the start and end of service.
type KitchenHandler struct {
	Sync *syncer.Synchronizer
}

func (h *KitchenHandler) Register(r *chi.Mux) {
	r.Get("/kitchen", h.get)
	r.Put("/kitchen", h.set)
}

func (h *KitchenHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	open, err := h.Sync.KitchenOpen(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"open": open})
}

func (h *KitchenHandler) set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Open bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Sync.SetKitchenOpen(ctx, req.Open); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"open": req.Open})
}
