package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/catalog"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders"
)

type OrdersHandler struct {
	orders  *orders.Service
	catalog catalog.Repository
	timeout time.Duration
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewOrdersHandler(svc *orders.Service, repo catalog.Repository, timeout time.Duration, log logrus.FieldLogger) *OrdersHandler {
	return &OrdersHandler{orders: svc, catalog: repo, timeout: timeout, log: log, now: time.Now}
}

type UpdateStatusRequestDTO struct {
	Status domain.OrderStatus `json:"status"`
}

// Dashboard lists a restaurant's orders. Query parameters: search, status,
// deliveryType, period, sort.
func (h *OrdersHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	filter := orders.Filter{
		Search:       q.Get("search"),
		Status:       domain.OrderStatus(q.Get("status")),
		DeliveryType: domain.DeliveryType(q.Get("deliveryType")),
		Period:       orders.Period(q.Get("period")),
		Sort:         orders.SortOrder(q.Get("sort")),
	}
	if err := filter.Validate(); err != nil {
		respondErrorDetails(w, http.StatusBadRequest, "invalid_filter", "invalid filter", err.Error())
		return
	}

	res, err := h.catalog.GetRestaurant(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	dash, err := h.orders.Dashboard(ctx, res.ID, filter)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseOrderID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid UUID")
		return
	}
	order, err := h.orders.Get(ctx, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, orders.NewOrderCard(order, h.now()))
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseOrderID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a valid UUID")
		return
	}
	var req UpdateStatusRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown status "+string(req.Status))
		return
	}

	order, err := h.orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, orders.NewOrderCard(order, h.now()))
}
