package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnknownVariant = errors.New("unknown variant")

type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	ZipCode      string `json:"zipCode"`
	State        string `json:"state"`
	Complement   string `json:"complement,omitempty"`
}

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDineIn   DeliveryType = "dine-in"
)

func (t DeliveryType) Valid() bool {
	switch t {
	case DeliveryTypeDelivery, DeliveryTypePickup, DeliveryTypeDineIn:
		return true
	}
	return false
}

func (t DeliveryType) Label() string {
	switch t {
	case DeliveryTypeDelivery:
		return "Entrega"
	case DeliveryTypePickup:
		return "Retirada"
	case DeliveryTypeDineIn:
		return "Consumir no local"
	}
	return string(t)
}

// DeliveryInfo is one of Delivery, Pickup or DineIn.
type DeliveryInfo interface {
	Type() DeliveryType
	isDeliveryInfo()
}

type Delivery struct {
	Address Address
}

type Pickup struct{}

type DineIn struct {
	TableNumber string
}

func (Delivery) Type() DeliveryType { return DeliveryTypeDelivery }
func (Pickup) Type() DeliveryType   { return DeliveryTypePickup }
func (DineIn) Type() DeliveryType   { return DeliveryTypeDineIn }

func (Delivery) isDeliveryInfo() {}
func (Pickup) isDeliveryInfo()   {}
func (DineIn) isDeliveryInfo()   {}

type deliveryWire struct {
	Type        DeliveryType `json:"type"`
	Address     *Address     `json:"address,omitempty"`
	TableNumber string       `json:"tableNumber,omitempty"`
}

func (d Delivery) MarshalJSON() ([]byte, error) {
	a := d.Address
	return json.Marshal(deliveryWire{Type: DeliveryTypeDelivery, Address: &a})
}

func (p Pickup) MarshalJSON() ([]byte, error) {
	return json.Marshal(deliveryWire{Type: DeliveryTypePickup})
}

func (d DineIn) MarshalJSON() ([]byte, error) {
	return json.Marshal(deliveryWire{Type: DeliveryTypeDineIn, TableNumber: d.TableNumber})
}

func DecodeDeliveryInfo(data []byte) (DeliveryInfo, error) {
	var w deliveryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode delivery info: %w", err)
	}
	switch w.Type {
	case DeliveryTypeDelivery:
		d := Delivery{}
		if w.Address != nil {
			d.Address = *w.Address
		}
		return d, nil
	case DeliveryTypePickup:
		return Pickup{}, nil
	case DeliveryTypeDineIn:
		return DineIn{TableNumber: w.TableNumber}, nil
	}
	return nil, fmt.Errorf("delivery type %q: %w", w.Type, ErrUnknownVariant)
}

type PaymentMethod string

const (
	PaymentMethodPix  PaymentMethod = "pix"
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodPix:
		return "PIX"
	case PaymentMethodCash:
		return "Dinheiro"
	case PaymentMethodCard:
		return "Cartão"
	}
	return string(m)
}

// PaymentInfo is one of Pix, Card or Cash.
type PaymentInfo interface {
	Method() PaymentMethod
	isPaymentInfo()
}

type Pix struct{}

type Card struct{}

type Cash struct {
	NeedsChange bool
	// ChangeFor is only meaningful when NeedsChange is set.
	ChangeFor decimal.Decimal
}

func (Pix) Method() PaymentMethod  { return PaymentMethodPix }
func (Card) Method() PaymentMethod { return PaymentMethodCard }
func (Cash) Method() PaymentMethod { return PaymentMethodCash }

func (Pix) isPaymentInfo()  {}
func (Card) isPaymentInfo() {}
func (Cash) isPaymentInfo() {}

type paymentWire struct {
	Method      PaymentMethod    `json:"method"`
	NeedsChange *bool            `json:"needsChange,omitempty"`
	ChangeFor   *decimal.Decimal `json:"changeFor,omitempty"`
}

func (Pix) MarshalJSON() ([]byte, error) {
	return json.Marshal(paymentWire{Method: PaymentMethodPix})
}

func (Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(paymentWire{Method: PaymentMethodCard})
}

func (c Cash) MarshalJSON() ([]byte, error) {
	w := paymentWire{Method: PaymentMethodCash, NeedsChange: &c.NeedsChange}
	if c.NeedsChange {
		w.ChangeFor = &c.ChangeFor
	}
	return json.Marshal(w)
}

func DecodePaymentInfo(data []byte) (PaymentInfo, error) {
	var w paymentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode payment info: %w", err)
	}
	switch w.Method {
	case PaymentMethodPix:
		return Pix{}, nil
	case PaymentMethodCard:
		return Card{}, nil
	case PaymentMethodCash:
		c := Cash{}
		if w.NeedsChange != nil {
			c.NeedsChange = *w.NeedsChange
		}
		if c.NeedsChange && w.ChangeFor != nil {
			c.ChangeFor = *w.ChangeFor
		}
		return c, nil
	}
	return nil, fmt.Errorf("payment method %q: %w", w.Method, ErrUnknownVariant)
}
