package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrSlugTaken          = errors.New("restaurant slug already in use")
)

// Repository is the read/write surface the menu and registration flows need.
type Repository interface {
	GetRestaurant(ctx context.Context, slug string) (*domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error)
	SaveRestaurant(ctx context.Context, r *domain.Restaurant) error
}

// GetProduct resolves a product within a restaurant's menu.
func GetProduct(ctx context.Context, repo Repository, slug, productID string) (*domain.Product, error) {
	r, err := repo.GetRestaurant(ctx, slug)
	if err != nil {
		return nil, err
	}
	p, ok := r.FindProduct(productID)
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

type MemoryRepository struct {
	mu          sync.RWMutex
	restaurants map[string]*domain.Restaurant
}

func NewMemoryRepository(seed ...*domain.Restaurant) *MemoryRepository {
	m := &MemoryRepository{restaurants: make(map[string]*domain.Restaurant)}
	for _, r := range seed {
		m.restaurants[r.Slug] = r
	}
	return m
}

func (m *MemoryRepository) GetRestaurant(_ context.Context, slug string) (*domain.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.restaurants[slug]
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	c := *r
	return &c, nil
}

func (m *MemoryRepository) ListRestaurants(_ context.Context) ([]*domain.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Restaurant, 0, len(m.restaurants))
	for _, r := range m.restaurants {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *MemoryRepository) SaveRestaurant(_ context.Context, r *domain.Restaurant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.restaurants[r.Slug]; ok && existing.ID != r.ID {
		return ErrSlugTaken
	}
	c := *r
	m.restaurants[r.Slug] = &c
	return nil
}
