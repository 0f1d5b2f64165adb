package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Additional struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
}

type Size struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Product struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Featured    bool            `json:"featured"`
	Sizes       []Size          `json:"sizes,omitempty"`
	Additionals []Additional    `json:"additionals,omitempty"`
}

// DefaultSize is the size pre-selected on the product page: the first one listed.
func (p *Product) DefaultSize() *Size {
	if len(p.Sizes) == 0 {
		return nil
	}
	s := p.Sizes[0]
	return &s
}

func (p *Product) FindSize(id string) (*Size, bool) {
	for i := range p.Sizes {
		if p.Sizes[i].ID == id {
			s := p.Sizes[i]
			return &s, true
		}
	}
	return nil, false
}

func (p *Product) FindAdditional(id string) (Additional, bool) {
	for _, a := range p.Additionals {
		if a.ID == id {
			return a, true
		}
	}
	return Additional{}, false
}

type Category struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type OpeningHours struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Restaurant struct {
	ID                  string          `json:"id"`
	Slug                string          `json:"slug"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Banner              string          `json:"banner"`
	Logo                string          `json:"logo"`
	Cuisine             string          `json:"cuisine"`
	Contact             Contact         `json:"contact"`
	Address             Address         `json:"address"`
	Hours               []OpeningHours  `json:"hours"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	MinimumOrder        decimal.Decimal `json:"minimum_order"`
	EstimatedMinMinutes int             `json:"estimated_min_minutes"`
	EstimatedMaxMinutes int             `json:"estimated_max_minutes"`
	PaymentMethods      []PaymentMethod `json:"payment_methods"`
	IsActive            bool            `json:"is_active"`
	Categories          []Category      `json:"categories"`
	CreatedAt           time.Time       `json:"created_at"`
}

// FeaturedProducts collects featured products across categories, in category order.
func (r *Restaurant) FeaturedProducts() []Product {
	var featured []Product
	for _, c := range r.Categories {
		for _, p := range c.Products {
			if p.Featured {
				featured = append(featured, p)
			}
		}
	}
	return featured
}

func (r *Restaurant) FindProduct(id string) (*Product, bool) {
	for _, c := range r.Categories {
		for i := range c.Products {
			if c.Products[i].ID == id {
				p := c.Products[i]
				return &p, true
			}
		}
	}
	return nil, false
}
