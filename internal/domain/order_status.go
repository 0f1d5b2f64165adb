package domain

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	OrderStatusReceived       OrderStatus = "RECEIVED"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

type InvalidTransitionError struct {
	From         OrderStatus
	To           OrderStatus
	DeliveryType DeliveryType
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s (%s)", e.From, e.To, e.DeliveryType)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// AllOrderStatuses lists statuses in lifecycle order.
var AllOrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range AllOrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// IsPending reports whether the kitchen still has work to do on the order.
func (s OrderStatus) IsPending() bool {
	return s == OrderStatusReceived || s == OrderStatusConfirmed || s == OrderStatusPreparing
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusReceived:
		return "Recebido"
	case OrderStatusConfirmed:
		return "Confirmado"
	case OrderStatusPreparing:
		return "Preparando"
	case OrderStatusReady:
		return "Pronto"
	case OrderStatusOutForDelivery:
		return "Saiu para entrega"
	case OrderStatusDelivered:
		return "Entregue"
	case OrderStatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

// Color is the badge color used by the dashboard.
func (s OrderStatus) Color() string {
	switch s {
	case OrderStatusReceived:
		return "blue"
	case OrderStatusConfirmed:
		return "yellow"
	case OrderStatusPreparing:
		return "orange"
	case OrderStatusReady:
		return "purple"
	case OrderStatusOutForDelivery:
		return "indigo"
	case OrderStatusDelivered:
		return "green"
	case OrderStatusCancelled:
		return "red"
	}
	return "gray"
}

// NextStatuses returns the statuses an operator may move an order to.
// READY branches on the delivery type: only delivery orders go out for delivery.
func NextStatuses(current OrderStatus, deliveryType DeliveryType) []OrderStatus {
	switch current {
	case OrderStatusReceived:
		return []OrderStatus{OrderStatusConfirmed, OrderStatusCancelled}
	case OrderStatusConfirmed:
		return []OrderStatus{OrderStatusPreparing, OrderStatusCancelled}
	case OrderStatusPreparing:
		return []OrderStatus{OrderStatusReady}
	case OrderStatusReady:
		if deliveryType == DeliveryTypeDelivery {
			return []OrderStatus{OrderStatusOutForDelivery}
		}
		return []OrderStatus{OrderStatusDelivered}
	case OrderStatusOutForDelivery:
		return []OrderStatus{OrderStatusDelivered}
	}
	return nil
}

func CanTransition(from, to OrderStatus, deliveryType DeliveryType) bool {
	for _, next := range NextStatuses(from, deliveryType) {
		if next == to {
			return true
		}
	}
	return false
}
