package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/cart"
	"github.com/Rogerio-17/cardapio-digital-web/internal/catalog"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

const maxQuantity = 99

type CartHandler struct {
	carts   *cart.Service
	catalog catalog.Repository
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCartHandler(carts *cart.Service, repo catalog.Repository, timeout time.Duration, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{carts: carts, catalog: repo, timeout: timeout, log: log}
}

type AddItemRequestDTO struct {
	Restaurant    string   `json:"restaurant"`
	ProductID     string   `json:"productId"`
	Quantity      int      `json:"quantity"`
	SizeID        string   `json:"sizeId,omitempty"`
	AdditionalIDs []string `json:"additionalIds,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type addItemResponse struct {
	ItemID domain.LineItemID `json:"itemId"`
	Cart   cart.Snapshot     `json:"cart"`
}

func (h *CartHandler) engine(r *http.Request) *cart.Engine {
	return h.carts.Engine(r.Context(), getSessionID(r.Context()))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine(r).Snapshot())
}

// AddItem prices the line from the catalog; prices sent by the client are ignored.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Restaurant == "" || req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "restaurant and productId are required")
		return
	}
	if req.Quantity < 1 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := catalog.GetProduct(ctx, h.catalog, req.Restaurant, req.ProductID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	draft := domain.LineItemDraft{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Image:     product.Image,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
		Size:      product.DefaultSize(),
	}
	if req.SizeID != "" {
		size, ok := product.FindSize(req.SizeID)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid_size", "unknown size "+req.SizeID)
			return
		}
		draft.Size = size
	}
	for _, id := range req.AdditionalIDs {
		a, ok := product.FindAdditional(id)
		if !ok {
			respondError(w, http.StatusBadRequest, "invalid_additional", "unknown additional "+id)
			return
		}
		draft.Additionals = append(draft.Additionals, a)
	}

	id, snap := h.engine(r).AddItem(ctx, draft)
	respondJSON(w, http.StatusCreated, addItemResponse{ItemID: id, Cart: snap})
}

// UpdateItem sets a line's quantity. Zero or less removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}
	id := domain.LineItemID(chi.URLParam(r, "itemID"))
	respondJSON(w, http.StatusOK, h.engine(r).UpdateQuantity(ctx, id, req.Quantity))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := domain.LineItemID(chi.URLParam(r, "itemID"))
	respondJSON(w, http.StatusOK, h.engine(r).RemoveItem(ctx, id))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, h.engine(r).Clear(ctx))
}
