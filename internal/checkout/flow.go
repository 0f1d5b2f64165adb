package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/cart"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

var ErrNotAtSummary = errors.New("checkout is not at the summary step")

// Flow is one customer's pass through the four checkout steps.
type Flow struct {
	mu sync.Mutex

	restaurantID string
	cart         *cart.Engine
	submitter    Submitter
	deliveryFee  decimal.Decimal
	policy       ChangePolicy
	log          logrus.FieldLogger
	now          func() time.Time

	step          Step
	state         State
	tableNumber   string
	estimatedTime int
}

type Option func(*Flow)

func WithChangePolicy(p ChangePolicy) Option {
	return func(f *Flow) { f.policy = p }
}

// WithTable starts the flow as dine-in at the table from the QR code.
func WithTable(table string) Option {
	return func(f *Flow) {
		if table == "" {
			return
		}
		f.tableNumber = table
		f.state.Delivery = domain.DineIn{TableNumber: table}
	}
}

func WithDeliveryFee(fee decimal.Decimal) Option {
	return func(f *Flow) { f.deliveryFee = fee }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(f *Flow) { f.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// NewFlow starts at the customer step with pickup and PIX preselected.
func NewFlow(restaurantID string, engine *cart.Engine, submitter Submitter, opts ...Option) *Flow {
	f := &Flow{
		restaurantID:  restaurantID,
		cart:          engine,
		submitter:     submitter,
		policy:        DefaultChangePolicy,
		log:           logrus.StandardLogger(),
		now:           time.Now,
		step:          StepCustomerInfo,
		estimatedTime: DefaultEstimatedTime,
		state: State{
			Delivery: domain.Pickup{},
			Payment:  domain.Pix{},
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentState()
}

func (f *Flow) EstimatedTime() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.estimatedTime
}

func (f *Flow) currentState() State {
	s := f.state
	s.Total = OrderTotal(f.cart.TotalPrice(), f.deliveryFee, s.Delivery)
	return s
}

func (f *Flow) SetCustomer(c domain.CustomerInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Customer = c
}

// SelectDeliveryType switches the delivery variant. A delivery address
// already entered is kept; dine-in takes the table from the session.
func (f *Flow) SelectDeliveryType(t domain.DeliveryType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch t {
	case domain.DeliveryTypeDelivery:
		if _, ok := f.state.Delivery.(domain.Delivery); !ok {
			f.state.Delivery = domain.Delivery{}
		}
	case domain.DeliveryTypePickup:
		f.state.Delivery = domain.Pickup{}
	case domain.DeliveryTypeDineIn:
		table := f.tableNumber
		if d, ok := f.state.Delivery.(domain.DineIn); ok && d.TableNumber != "" {
			table = d.TableNumber
		}
		f.state.Delivery = domain.DineIn{TableNumber: table}
	default:
		return fmt.Errorf("delivery type %q: %w", t, domain.ErrUnknownVariant)
	}
	f.estimatedTime = EstimatedTime(t)
	return nil
}

// SetDelivery replaces the delivery info and its estimated time.
func (f *Flow) SetDelivery(d domain.DeliveryInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Delivery = d
	if d != nil {
		f.estimatedTime = EstimatedTime(d.Type())
	}
}

func (f *Flow) SetPayment(p domain.PaymentInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Payment = p
}

func (f *Flow) SetNotes(notes string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Notes = notes
}

// CanProceed checks the gate of the current step.
func (f *Flow) CanProceed() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.policy.CanProceed(f.step, f.currentState())
}

// Next advances one step when the current gate passes. The summary step
// does not advance; use Finalize.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.policy.CanProceed(f.step, f.currentState()); err != nil {
		return err
	}
	if f.step < StepSummary {
		f.step++
	}
	return nil
}

func (f *Flow) Back() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > StepCustomerInfo {
		f.step--
	}
	return f.step
}

// GoTo jumps to step. Going back is always allowed; going forward requires
// every gate before the target to pass.
func (f *Flow) GoTo(step Step) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !step.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}
	if step > f.step {
		if err := f.validateUpTo(step); err != nil {
			return err
		}
	}
	f.step = step
	return nil
}

func (f *Flow) validateUpTo(step Step) error {
	s := f.currentState()
	for gate := StepCustomerInfo; gate < step; gate++ {
		if err := f.policy.CanProceed(gate, s); err != nil {
			return err
		}
	}
	return nil
}

// Finalize submits the order from the summary step and clears the cart.
// The cart is left untouched when submission fails.
func (f *Flow) Finalize(ctx context.Context) (Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepSummary {
		return Receipt{}, ErrNotAtSummary
	}
	snap := f.cart.Snapshot()
	if snap.IsEmpty() {
		return Receipt{}, ErrEmptyCart
	}
	if err := f.validateUpTo(StepSummary + 1); err != nil {
		return Receipt{}, err
	}

	sub := Submission{
		ID:            uuid.New(),
		RestaurantID:  f.restaurantID,
		Customer:      f.state.Customer,
		Delivery:      f.state.Delivery,
		Payment:       f.state.Payment,
		Items:         snap.Items(),
		TotalPrice:    snap.TotalPrice(),
		DeliveryFee:   f.deliveryFee,
		EstimatedTime: f.estimatedTime,
		Notes:         f.state.Notes,
		SubmittedAt:   f.now(),
	}

	receipt, err := f.submitter.Submit(ctx, sub)
	if err != nil {
		return Receipt{}, fmt.Errorf("submit order: %w", err)
	}

	f.cart.Clear(ctx)
	f.log.WithFields(logrus.Fields{
		"order_id":      receipt.OrderID,
		"restaurant_id": f.restaurantID,
		"total":         sub.TotalPrice.StringFixed(2),
	}).Info("checkout finalized")
	return receipt, nil
}
