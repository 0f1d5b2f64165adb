package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image,omitempty"`
	Additionals []Additional    `json:"additionals"`
	Size        *Size           `json:"size,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

func OrderItemFromLine(l LineItem) OrderItem {
	l = l.Clone()
	return OrderItem{
		ID:          string(l.ID),
		ProductID:   l.ProductID,
		Name:        l.Name,
		Price:       l.UnitPrice,
		Quantity:    l.Quantity,
		Image:       l.Image,
		Additionals: l.Additionals,
		Size:        l.Size,
		Notes:       l.Notes,
		TotalPrice:  l.TotalPrice,
	}
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     int             `json:"orderNumber"`
	RestaurantID    string          `json:"restaurantId"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	Customer        CustomerInfo    `json:"customer"`
	DeliveryType    DeliveryType    `json:"deliveryType"`
	DeliveryAddress *Address        `json:"deliveryAddress,omitempty"`
	TableNumber     string          `json:"tableNumber,omitempty"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ChangeFor       decimal.Decimal `json:"changeFor"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes,omitempty"`

	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
	ConfirmedAt           *time.Time `json:"confirmedAt,omitempty"`
	DeliveredAt           *time.Time `json:"deliveredAt,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime,omitempty"`
}

// Recalculate restores subtotal == sum(items) and total == subtotal + fee.
func (o *Order) Recalculate() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.DeliveryFee)
}

func (o *Order) NextStatuses() []OrderStatus {
	return NextStatuses(o.Status, o.DeliveryType)
}

// TransitionTo moves the order along the status table, stamping confirmation and delivery times.
func (o *Order) TransitionTo(to OrderStatus, now time.Time) error {
	if !CanTransition(o.Status, to, o.DeliveryType) {
		return &InvalidTransitionError{From: o.Status, To: to, DeliveryType: o.DeliveryType}
	}
	o.Status = to
	o.UpdatedAt = now
	switch to {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	}
	return nil
}
