package orders

import (
	"fmt"
	"time"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

type Action struct {
	Status      domain.OrderStatus `json:"status"`
	Label       string             `json:"label"`
	Destructive bool               `json:"destructive"`
}

// OrderCard is an order as shown on the dashboard.
type OrderCard struct {
	*domain.Order
	StatusLabel  string   `json:"statusLabel"`
	StatusColor  string   `json:"statusColor"`
	NextActions  []Action `json:"nextActions"`
	TimeAgo      string   `json:"timeAgo"`
	DeliveryName string   `json:"deliveryTypeLabel"`
	PaymentName  string   `json:"paymentMethodLabel"`
}

func NewOrderCard(o *domain.Order, now time.Time) OrderCard {
	next := o.NextStatuses()
	actions := make([]Action, 0, len(next))
	for _, s := range next {
		actions = append(actions, Action{
			Status:      s,
			Label:       s.Label(),
			Destructive: s == domain.OrderStatusCancelled,
		})
	}
	return OrderCard{
		Order:        o,
		StatusLabel:  o.Status.Label(),
		StatusColor:  o.Status.Color(),
		NextActions:  actions,
		TimeAgo:      TimeAgo(o.CreatedAt, now),
		DeliveryName: o.DeliveryType.Label(),
		PaymentName:  o.PaymentMethod.Label(),
	}
}

// TimeAgo renders the age of t in whole minutes, hours or days.
func TimeAgo(t, now time.Time) string {
	minutes := int(now.Sub(t).Minutes())
	switch {
	case minutes < 1:
		return "Agora"
	case minutes < 60:
		return fmt.Sprintf("%dmin atrás", minutes)
	case minutes < 60*24:
		return fmt.Sprintf("%dh atrás", minutes/60)
	}
	return fmt.Sprintf("%dd atrás", minutes/(60*24))
}
