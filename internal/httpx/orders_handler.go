package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/puestomx/go-kitchen-sync/internal/health"
	"github.com/puestomx/go-kitchen-sync/internal/orders"
	"github.com/puestomx/go-kitchen-sync/internal/syncer"
	"github.com/puestomx/go-kitchen-sync/internal/tenant"
)

type OrdersHandler struct {
	Sync   *syncer.Synchronizer
	Health *health.Checker
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/health", h.healthStatus)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/paid/count", h.paidCount)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders", h.createOrder)
	r.Put("/orders/{id}/status", h.setStatus)
	r.Delete("/orders/{id}", h.deleteOrder)
}

func (h *OrdersHandler) healthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Health.Snapshot())
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := tenant.FromQuery(r.URL.Query())
	list, fromCache, err := h.Sync.ListOrders(ctx, key)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": list,
		"source": source(fromCache),
	})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := tenant.FromQuery(r.URL.Query())
	o, fromCache, err := h.Sync.GetOrder(ctx, key, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if o == nil {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order":  o,
		"source": source(fromCache),
	})
}

func (h *OrdersHandler) paidCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := tenant.FromQuery(r.URL.Query())
	n, err := h.Sync.CountPaid(ctx, key)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

type setStatusReq struct {
	Status           string `json:"status"`
	ConfirmationCode string `json:"confirmation_code,omitempty"`
	Force            bool   `json:"force,omitempty"`
}

func (h *OrdersHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	next, ok := orders.ParseStatus(req.Status)
	if !ok {
		writeErr(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := tenant.FromQuery(r.URL.Query())
	err := h.Sync.SetStatus(ctx, key, chi.URLParam(r, "id"), next, syncer.SetStatusOpts{
		ConfirmationCode: req.ConfirmationCode,
		Force:            req.Force,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": string(next)})
	case errors.Is(err, syncer.ErrBadConfirmationCode),
		errors.Is(err, syncer.ErrInvalidTransition):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		// cache already holds the mutation; the caller decides whether
		// to keep showing optimistic state
		writeErr(w, http.StatusBadGateway, err.Error())
	}
}

type createOrderReq struct {
	Items    []orders.LineItem   `json:"items"`
	Customer orders.Customer     `json:"customer"`
	Coupon   *orders.Coupon      `json:"coupon,omitempty"`
	Delivery orders.DeliveryMeta `json:"delivery"`
	Note     string              `json:"note,omitempty"`
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Items) == 0 {
		writeErr(w, http.StatusBadRequest, "missing items")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	key := tenant.FromQuery(r.URL.Query())
	subtotal := orders.Subtotal(req.Items)
	draft := orders.Order{
		Items:       req.Items,
		Subtotal:    subtotal,
		Total:       orders.Total(subtotal, req.Coupon, orders.DefaultDeliveryFee),
		DeliveryFee: orders.DefaultDeliveryFee,
		Coupon:      req.Coupon,
		Delivery:    req.Delivery,
		Customer:    req.Customer,
		Note:        req.Note,
	}
	created, err := h.Sync.CreateOrder(ctx, key, draft)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := tenant.FromQuery(r.URL.Query())
	if err := h.Sync.DeleteOrder(ctx, key, chi.URLParam(r, "id")); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func source(fromCache bool) string {
	if fromCache {
		return "cache"
	}
	return "remote"
}
