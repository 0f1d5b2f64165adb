package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/cart"
	"github.com/Rogerio-17/cardapio-digital-web/internal/catalog"
	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
)

// TableParam is the query parameter a table QR code carries.
const TableParam = "mesa"

type CheckoutHandler struct {
	carts     *cart.Service
	catalog   catalog.Repository
	submitter checkout.Submitter
	policy    checkout.ChangePolicy
	timeout   time.Duration
	log       logrus.FieldLogger

	finalizing sessionLocks
}

// sessionLocks serializes work per session. An entry lives only while some
// request of that session holds or waits for it.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func (l *sessionLocks) lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sessionLock)
	}
	sl, ok := l.locks[sessionID]
	if !ok {
		sl = &sessionLock{}
		l.locks[sessionID] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}

func NewCheckoutHandler(
	carts *cart.Service,
	repo catalog.Repository,
	submitter checkout.Submitter,
	policy checkout.ChangePolicy,
	timeout time.Duration,
	log logrus.FieldLogger,
) *CheckoutHandler {
	return &CheckoutHandler{
		carts:     carts,
		catalog:   repo,
		submitter: submitter,
		policy:    policy,
		timeout:   timeout,
		log:       log,
	}
}

type CheckoutRequestDTO struct {
	Step     int                 `json:"step,omitempty"`
	Customer domain.CustomerInfo `json:"customerInfo"`
	Delivery json.RawMessage     `json:"deliveryInfo,omitempty"`
	Payment  json.RawMessage     `json:"paymentInfo,omitempty"`
	Notes    string              `json:"notes,omitempty"`
}

type checkoutForm struct {
	customer domain.CustomerInfo
	delivery domain.DeliveryInfo
	payment  domain.PaymentInfo
	notes    string
}

func (req CheckoutRequestDTO) form() (checkoutForm, error) {
	f := checkoutForm{customer: req.Customer, notes: req.Notes}
	var err error
	if len(req.Delivery) > 0 && string(req.Delivery) != "null" {
		if f.delivery, err = domain.DecodeDeliveryInfo(req.Delivery); err != nil {
			return f, err
		}
	}
	if len(req.Payment) > 0 && string(req.Payment) != "null" {
		if f.payment, err = domain.DecodePaymentInfo(req.Payment); err != nil {
			return f, err
		}
	}
	return f, nil
}

type validateResponse struct {
	Step          string `json:"step"`
	Valid         bool   `json:"valid"`
	EstimatedTime int    `json:"estimatedTime"`
}

type finalizeResponse struct {
	checkout.Receipt
	EstimatedTime int `json:"estimatedTime"`
}

// Validate checks one step's gate against the session's order total, which
// includes the restaurant's delivery fee for delivery orders.
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.catalog.GetRestaurant(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req CheckoutRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	step := checkout.Step(req.Step)
	if !step.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_step", "step must be between 1 and 4")
		return
	}
	form, err := req.form()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	engine := h.carts.Engine(ctx, getSessionID(r.Context()))
	state := checkout.State{
		Customer: form.customer,
		Delivery: form.delivery,
		Payment:  form.payment,
		Notes:    form.notes,
		Total:    checkout.OrderTotal(engine.TotalPrice(), res.DeliveryFee, form.delivery),
	}
	if err := h.policy.CanProceed(step, state); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	eta := checkout.DefaultEstimatedTime
	if form.delivery != nil {
		eta = checkout.EstimatedTime(form.delivery.Type())
	}
	respondJSON(w, http.StatusOK, validateResponse{Step: step.String(), Valid: true, EstimatedTime: eta})
}

// Finalize runs the whole wizard for the session's cart and submits the order.
// Calls for one session run one at a time, so a repeated submit finds the
// cart already emptied instead of placing a second order.
func (h *CheckoutHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.catalog.GetRestaurant(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req CheckoutRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	form, err := req.form()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	sessionID := getSessionID(r.Context())
	unlock := h.finalizing.lock(sessionID)
	defer unlock()

	log := logger.FromContext(ctx, h.log)
	flow := checkout.NewFlow(res.ID, h.carts.Engine(ctx, sessionID), h.submitter,
		checkout.WithTable(r.URL.Query().Get(TableParam)),
		checkout.WithDeliveryFee(res.DeliveryFee),
		checkout.WithChangePolicy(h.policy),
		checkout.WithLogger(log),
	)

	flow.SetCustomer(form.customer)
	switch d := form.delivery.(type) {
	case nil:
	case domain.DineIn:
		if d.TableNumber == "" {
			err = flow.SelectDeliveryType(domain.DeliveryTypeDineIn)
		} else {
			flow.SetDelivery(d)
		}
	default:
		flow.SetDelivery(d)
	}
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if form.payment != nil {
		flow.SetPayment(form.payment)
	}
	flow.SetNotes(form.notes)

	if err := flow.GoTo(checkout.StepSummary); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	receipt, err := flow.Finalize(ctx)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.carts.Forget(sessionID)

	log.WithFields(logrus.Fields{
		"order_id":   receipt.OrderID,
		"session_id": sessionID,
	}).Info("order submitted")
	w.Header().Set("Location", "/api/v1/orders/"+receipt.OrderID.String())
	respondJSON(w, http.StatusCreated, finalizeResponse{Receipt: receipt, EstimatedTime: flow.EstimatedTime()})
}

func parseOrderID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	return id, err == nil
}
