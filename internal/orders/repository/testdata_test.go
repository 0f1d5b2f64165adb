package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

func newTestOrder(restaurantID string, createdAt time.Time) *domain.Order {
	o := &domain.Order{
		ID:            uuid.New(),
		RestaurantID:  restaurantID,
		Status:        domain.OrderStatusReceived,
		Customer:      domain.CustomerInfo{Name: "Maria Silva", Phone: "(11) 99999-1234"},
		DeliveryType:  domain.DeliveryTypeDelivery,
		PaymentMethod: domain.PaymentMethodCash,
		ChangeFor:     decimal.NewFromInt(100),
		DeliveryAddress: &domain.Address{
			Street: "Rua das Flores", Number: "123", Neighborhood: "Centro",
			City: "São Paulo", State: "SP", ZipCode: "01234567",
		},
		Items: []domain.OrderItem{{
			ID:         "10-a",
			ProductID:  "10",
			Name:       "Hambúrguer Artesanal",
			Price:      decimal.RequireFromString("38.9"),
			Quantity:   2,
			TotalPrice: decimal.RequireFromString("77.8"),
		}},
		DeliveryFee: decimal.NewFromInt(6),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	o.Recalculate()
	return o
}
