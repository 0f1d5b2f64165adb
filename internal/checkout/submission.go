package checkout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

// Submission is the order payload handed to a Submitter when checkout finalizes.
type Submission struct {
	ID           uuid.UUID
	RestaurantID string
	Customer     domain.CustomerInfo
	Delivery     domain.DeliveryInfo
	Payment      domain.PaymentInfo
	Items        []domain.LineItem
	TotalPrice   decimal.Decimal
	// DeliveryFee is the restaurant's fee; it applies to delivery orders only.
	DeliveryFee   decimal.Decimal
	EstimatedTime int
	Notes         string
	SubmittedAt   time.Time
}

type submissionWire struct {
	ID            uuid.UUID           `json:"id"`
	RestaurantID  string              `json:"restaurantId"`
	Customer      domain.CustomerInfo `json:"customerInfo"`
	Delivery      json.RawMessage     `json:"deliveryInfo"`
	Payment       json.RawMessage     `json:"paymentInfo"`
	Items         []domain.LineItem   `json:"items"`
	TotalPrice    decimal.Decimal     `json:"totalPrice"`
	DeliveryFee   decimal.Decimal     `json:"deliveryFee"`
	EstimatedTime int                 `json:"estimatedTime"`
	Notes         string              `json:"notes,omitempty"`
	SubmittedAt   time.Time           `json:"submittedAt"`
}

func (s Submission) MarshalJSON() ([]byte, error) {
	delivery, err := json.Marshal(s.Delivery)
	if err != nil {
		return nil, err
	}
	payment, err := json.Marshal(s.Payment)
	if err != nil {
		return nil, err
	}
	items := s.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(submissionWire{
		ID:            s.ID,
		RestaurantID:  s.RestaurantID,
		Customer:      s.Customer,
		Delivery:      delivery,
		Payment:       payment,
		Items:         items,
		TotalPrice:    s.TotalPrice,
		DeliveryFee:   s.DeliveryFee,
		EstimatedTime: s.EstimatedTime,
		Notes:         s.Notes,
		SubmittedAt:   s.SubmittedAt,
	})
}

func (s *Submission) UnmarshalJSON(data []byte) error {
	var w submissionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	delivery, err := domain.DecodeDeliveryInfo(w.Delivery)
	if err != nil {
		return err
	}
	payment, err := domain.DecodePaymentInfo(w.Payment)
	if err != nil {
		return err
	}
	*s = Submission{
		ID:            w.ID,
		RestaurantID:  w.RestaurantID,
		Customer:      w.Customer,
		Delivery:      delivery,
		Payment:       payment,
		Items:         w.Items,
		TotalPrice:    w.TotalPrice,
		DeliveryFee:   w.DeliveryFee,
		EstimatedTime: w.EstimatedTime,
		Notes:         w.Notes,
		SubmittedAt:   w.SubmittedAt,
	}
	return nil
}

// Receipt identifies the accepted order. OrderNumber is zero when the
// order is created asynchronously.
type Receipt struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber int       `json:"orderNumber,omitempty"`
}

// Submitter delivers a finalized checkout to the order system.
type Submitter interface {
	Submit(ctx context.Context, s Submission) (Receipt, error)
}

type SubmitterFunc func(ctx context.Context, s Submission) (Receipt, error)

func (f SubmitterFunc) Submit(ctx context.Context, s Submission) (Receipt, error) {
	return f(ctx, s)
}
