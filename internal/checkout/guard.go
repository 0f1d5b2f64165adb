package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

type Step int

const (
	StepCustomerInfo Step = iota + 1
	StepDeliveryType
	StepPayment
	StepSummary
)

func (s Step) String() string {
	switch s {
	case StepCustomerInfo:
		return "customer-info"
	case StepDeliveryType:
		return "delivery-type"
	case StepPayment:
		return "payment"
	case StepSummary:
		return "summary"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s Step) Valid() bool {
	return s >= StepCustomerInfo && s <= StepSummary
}

var (
	ErrValidation  = errors.New("checkout validation failed")
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidStep = errors.New("invalid checkout step")
)

// ValidationError names the fields that keep a step from advancing.
type ValidationError struct {
	Step   Step
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout %s: invalid %s", e.Step, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// State is everything the wizard has collected so far. Total is the order
// total (see OrderTotal) the change amount is compared against.
type State struct {
	Customer domain.CustomerInfo
	Delivery domain.DeliveryInfo
	Payment  domain.PaymentInfo
	Notes    string
	Total    decimal.Decimal
}

// OrderTotal is what the customer pays: the cart subtotal plus the delivery
// fee when the order is delivered.
func OrderTotal(subtotal, deliveryFee decimal.Decimal, d domain.DeliveryInfo) decimal.Decimal {
	if _, ok := d.(domain.Delivery); ok {
		return subtotal.Add(deliveryFee)
	}
	return subtotal
}

// ChangePolicy controls whether a cash change amount must exceed the total.
type ChangePolicy struct {
	Enforce bool
}

var DefaultChangePolicy = ChangePolicy{Enforce: true}

// CanProceed reports whether step may advance, using DefaultChangePolicy.
func CanProceed(step Step, s State) error {
	return DefaultChangePolicy.CanProceed(step, s)
}

func (p ChangePolicy) CanProceed(step Step, s State) error {
	var fields []string
	switch step {
	case StepCustomerInfo:
		if strings.TrimSpace(s.Customer.Name) == "" {
			fields = append(fields, "customer.name")
		}
		if strings.TrimSpace(s.Customer.Phone) == "" {
			fields = append(fields, "customer.phone")
		}
	case StepDeliveryType:
		switch d := s.Delivery.(type) {
		case nil:
			fields = append(fields, "delivery.type")
		case domain.Delivery:
			if strings.TrimSpace(d.Address.Street) == "" {
				fields = append(fields, "delivery.address.street")
			}
			if strings.TrimSpace(d.Address.Number) == "" {
				fields = append(fields, "delivery.address.number")
			}
		}
	case StepPayment:
		switch pay := s.Payment.(type) {
		case nil:
			fields = append(fields, "payment.method")
		case domain.Cash:
			if p.Enforce && pay.NeedsChange && !pay.ChangeFor.GreaterThan(s.Total) {
				fields = append(fields, "payment.changeFor")
			}
		}
	case StepSummary:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}

	if len(fields) > 0 {
		return &ValidationError{Step: step, Fields: fields}
	}
	return nil
}

const DefaultEstimatedTime = 30

// EstimatedTime is the advisory preparation time in minutes for a delivery type.
func EstimatedTime(t domain.DeliveryType) int {
	switch t {
	case domain.DeliveryTypePickup:
		return 15
	case domain.DeliveryTypeDelivery:
		return 45
	case domain.DeliveryTypeDineIn:
		return 20
	}
	return DefaultEstimatedTime
}
