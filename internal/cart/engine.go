package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

// Engine owns the line items of one browsing session. Every mutation is
// persisted to the Store; persistence failures never undo the mutation.
type Engine struct {
	mu    sync.RWMutex
	key   string
	items []domain.LineItem
	store Store
	log   logrus.FieldLogger
	newID func(productID string) domain.LineItemID
}

// New hydrates the cart stored under key. A missing, unreadable or corrupt
// snapshot yields an empty cart.
func New(ctx context.Context, store Store, key string, log logrus.FieldLogger) *Engine {
	e := &Engine{
		key:   key,
		store: store,
		log:   log.WithField("cart", key),
		newID: newLineItemID,
	}
	e.items = e.hydrate(ctx)
	return e
}

func newLineItemID(productID string) domain.LineItemID {
	return domain.LineItemID(fmt.Sprintf("%s-%s", productID, uuid.NewString()))
}

func (e *Engine) hydrate(ctx context.Context) []domain.LineItem {
	data, err := e.store.Load(ctx, e.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		e.log.WithError(err).Warn("cart load failed, starting empty")
		return nil
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		e.log.WithError(fmt.Errorf("%w: %v", ErrStorageCorruption, err)).Warn("discarding stored cart")
		return nil
	}

	valid := items[:0]
	for _, item := range items {
		if item.ID == "" || item.Quantity < 1 {
			e.log.WithError(ErrStorageCorruption).WithField("line", item.ID).Warn("dropping malformed line item")
			continue
		}
		item.Recalculate()
		valid = append(valid, item)
	}
	return valid
}

// AddItem always appends a new line, even when an identical one exists.
func (e *Engine) AddItem(ctx context.Context, draft domain.LineItemDraft) (domain.LineItemID, Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item := domain.LineItem{
		ID:          e.newID(draft.ProductID),
		ProductID:   draft.ProductID,
		Name:        draft.Name,
		UnitPrice:   draft.UnitPrice,
		Image:       draft.Image,
		Quantity:    draft.Quantity,
		Additionals: draft.Additionals,
		Size:        draft.Size,
		Notes:       draft.Notes,
	}
	item = item.Clone()
	if item.Additionals == nil {
		item.Additionals = []domain.Additional{}
	}
	item.Recalculate()

	e.items = append(e.items, item)
	e.persist(ctx)
	return item.ID, e.snapshot()
}

// RemoveItem is a no-op for unknown ids.
func (e *Engine) RemoveItem(ctx context.Context, id domain.LineItemID) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.remove(id)
	e.persist(ctx)
	return e.snapshot()
}

// UpdateQuantity removes the line when quantity <= 0.
func (e *Engine) UpdateQuantity(ctx context.Context, id domain.LineItemID, quantity int) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		e.remove(id)
	} else {
		for i := range e.items {
			if e.items[i].ID == id {
				e.items[i].Quantity = quantity
				e.items[i].Recalculate()
				break
			}
		}
	}
	e.persist(ctx)
	return e.snapshot()
}

func (e *Engine) Clear(ctx context.Context) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	e.persist(ctx)
	return e.snapshot()
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot()
}

func (e *Engine) TotalItems() int {
	return e.Snapshot().TotalItems()
}

func (e *Engine) TotalPrice() decimal.Decimal {
	return e.Snapshot().TotalPrice()
}

func (e *Engine) remove(id domain.LineItemID) {
	for i := range e.items {
		if e.items[i].ID == id {
			e.items = append(e.items[:i:i], e.items[i+1:]...)
			return
		}
	}
}

func (e *Engine) snapshot() Snapshot {
	return newSnapshot(e.items)
}

// persist writes the whole cart; callers hold e.mu.
func (e *Engine) persist(ctx context.Context) {
	items := e.items
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		e.log.WithError(err).Error("cart marshal failed")
		return
	}
	if err := e.store.Save(ctx, e.key, data); err != nil {
		e.log.WithError(err).Warn("cart save failed, keeping in-memory state")
	}
}
