package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

// Snapshot is an immutable view of a cart at one point in time.
type Snapshot struct {
	items      []domain.LineItem
	totalItems int
	totalPrice decimal.Decimal
}

func newSnapshot(items []domain.LineItem) Snapshot {
	s := Snapshot{
		items:      make([]domain.LineItem, len(items)),
		totalPrice: decimal.Zero,
	}
	for i, item := range items {
		s.items[i] = item.Clone()
		s.totalItems += item.Quantity
		s.totalPrice = s.totalPrice.Add(item.TotalPrice)
	}
	return s
}

// Items returns a copy of the line items in insertion order.
func (s Snapshot) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}

func (s Snapshot) Len() int                    { return len(s.items) }
func (s Snapshot) IsEmpty() bool               { return len(s.items) == 0 }
func (s Snapshot) TotalItems() int             { return s.totalItems }
func (s Snapshot) TotalPrice() decimal.Decimal { return s.totalPrice }

func (s Snapshot) Find(id domain.LineItemID) (domain.LineItem, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item.Clone(), true
		}
	}
	return domain.LineItem{}, false
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items      []domain.LineItem `json:"items"`
		TotalItems int               `json:"totalItems"`
		TotalPrice decimal.Decimal   `json:"totalPrice"`
	}{s.items, s.totalItems, s.totalPrice})
}
