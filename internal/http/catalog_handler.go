package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/catalog"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

type CatalogHandler struct {
	repo    catalog.Repository
	timeout time.Duration
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewCatalogHandler(repo catalog.Repository, timeout time.Duration, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{repo: repo, timeout: timeout, log: log, now: time.Now}
}

type restaurantResponse struct {
	*domain.Restaurant
	Featured []domain.Product `json:"featured"`
}

type productResponse struct {
	RestaurantID string `json:"restaurantId"`
	domain.Product
	DefaultSize *domain.Size `json:"defaultSize,omitempty"`
}

type stepValidationResponse struct {
	Step   int      `json:"step"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (h *CatalogHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list, err := h.repo.ListRestaurants(ctx)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if list == nil {
		list = []*domain.Restaurant{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"restaurants": list})
}

func (h *CatalogHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.repo.GetRestaurant(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	featured := res.FeaturedProducts()
	if featured == nil {
		featured = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, restaurantResponse{Restaurant: res, Featured: featured})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	product, err := catalog.GetProduct(ctx, h.repo, slug, chi.URLParam(r, "productID"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, productResponse{
		RestaurantID: slug,
		Product:      *product,
		DefaultSize:  product.DefaultSize(),
	})
}

// Register creates a restaurant from the four-step registration form.
func (h *CatalogHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var form catalog.RegistrationForm
	if !decodeJSON(w, r, &form) {
		return
	}
	res, err := catalog.Register(ctx, h.repo, form, h.now())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *CatalogHandler) ValidateRegistrationStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil || step < 1 || step > catalog.RegistrationSteps {
		respondError(w, http.StatusBadRequest, "invalid_step", "step must be between 1 and 4")
		return
	}
	var form catalog.RegistrationForm
	if !decodeJSON(w, r, &form) {
		return
	}
	msgs := catalog.ValidateStep(step, form)
	if msgs == nil {
		msgs = []string{}
	}
	respondJSON(w, http.StatusOK, stepValidationResponse{Step: step, Valid: len(msgs) == 0, Errors: msgs})
}

func (h *CatalogHandler) SuggestSlug(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"slug": catalog.GenerateSlug(name)})
}
