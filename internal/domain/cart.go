package domain

import "github.com/shopspring/decimal"

type LineItemID string

// LineItem is one add-to-cart action with its own price snapshot.
// Price components are fixed once added; only Quantity changes afterwards.
type LineItem struct {
	ID          LineItemID      `json:"id"`
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	Additionals []Additional    `json:"additionals"`
	Size        *Size           `json:"size,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type LineItemDraft struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	Additionals []Additional    `json:"additionals"`
	Size        *Size           `json:"size,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// LinePrice is (size price, or unit price when no size, plus additionals) times quantity.
func LinePrice(unit decimal.Decimal, size *Size, additionals []Additional, quantity int) decimal.Decimal {
	base := unit
	if size != nil {
		base = size.Price
	}
	for _, a := range additionals {
		base = base.Add(a.Price)
	}
	return base.Mul(decimal.NewFromInt(int64(quantity)))
}

func (d LineItemDraft) Price() decimal.Decimal {
	return LinePrice(d.UnitPrice, d.Size, d.Additionals, d.Quantity)
}

func (i *LineItem) Recalculate() {
	i.TotalPrice = LinePrice(i.UnitPrice, i.Size, i.Additionals, i.Quantity)
}

// Clone deep-copies the slices and the size so snapshots never share memory with the engine.
func (i LineItem) Clone() LineItem {
	c := i
	if i.Additionals != nil {
		c.Additionals = make([]Additional, len(i.Additionals))
		copy(c.Additionals, i.Additionals)
	}
	if i.Size != nil {
		s := *i.Size
		c.Size = &s
	}
	return c
}
