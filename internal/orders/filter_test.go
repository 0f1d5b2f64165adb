package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

func order(number int, name, phone string, status domain.OrderStatus, dt domain.DeliveryType, total string, created time.Time) *domain.Order {
	return &domain.Order{
		ID:           uuid.New(),
		OrderNumber:  number,
		Status:       status,
		Customer:     domain.CustomerInfo{Name: name, Phone: phone},
		DeliveryType: dt,
		Total:        decimal.RequireFromString(total),
		CreatedAt:    created,
	}
}

func fixtures(now time.Time) []*domain.Order {
	return []*domain.Order{
		order(1001, "Maria Silva", "(11) 99999-1234", domain.OrderStatusReceived, domain.DeliveryTypeDelivery, "95.7", now.Add(-5*time.Minute)),
		order(1002, "João Santos", "(11) 88888-5678", domain.OrderStatusPreparing, domain.DeliveryTypePickup, "42.9", now.Add(-25*time.Hour)),
		order(1003, "Ana Costa", "(11) 77777-9012", domain.OrderStatusReady, domain.DeliveryTypeDineIn, "130", now.Add(-3*24*time.Hour)),
		order(1004, "Pedro Lima", "(11) 66666-3456", domain.OrderStatusDelivered, domain.DeliveryTypeDelivery, "60", now.Add(-20*24*time.Hour)),
		order(1005, "Carla Souza", "(11) 55555-7890", domain.OrderStatusCancelled, domain.DeliveryTypePickup, "10", now.Add(-60*24*time.Hour)),
	}
}

func numbers(orders []*domain.Order) []int {
	out := make([]int, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.OrderNumber)
	}
	return out
}

func TestApply_Search(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	all := fixtures(now)

	assert.Equal(t, []int{1001}, numbers(Apply(all, Filter{Search: "maria"}, now)))
	assert.Equal(t, []int{1003}, numbers(Apply(all, Filter{Search: "1003"}, now)))
	assert.Equal(t, []int{1002}, numbers(Apply(all, Filter{Search: "88888"}, now)))
	assert.Empty(t, Apply(all, Filter{Search: "zzz"}, now))
}

func TestApply_StatusAndDeliveryType(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	all := fixtures(now)

	assert.Equal(t, []int{1003}, numbers(Apply(all, Filter{Status: domain.OrderStatusReady}, now)))
	assert.Equal(t, []int{1002, 1005}, numbers(Apply(all, Filter{DeliveryType: domain.DeliveryTypePickup}, now)))
}

func TestApply_Periods(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	all := fixtures(now)

	assert.Equal(t, []int{1001}, numbers(Apply(all, Filter{Period: PeriodToday}, now)))
	assert.Equal(t, []int{1002}, numbers(Apply(all, Filter{Period: PeriodYesterday}, now)))
	assert.Equal(t, []int{1001, 1002, 1003}, numbers(Apply(all, Filter{Period: PeriodWeek}, now)))
	assert.Equal(t, []int{1001, 1002, 1003, 1004}, numbers(Apply(all, Filter{Period: PeriodMonth}, now)))
}

func TestApply_Sort(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	all := fixtures(now)

	assert.Equal(t, []int{1001, 1002, 1003, 1004, 1005}, numbers(Apply(all, Filter{}, now)))
	assert.Equal(t, []int{1005, 1004, 1003, 1002, 1001}, numbers(Apply(all, Filter{Sort: SortOldest}, now)))
	assert.Equal(t, []int{1003, 1001, 1004, 1002, 1005}, numbers(Apply(all, Filter{Sort: SortValue}, now)))
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{Period: PeriodWeek, Sort: SortValue}.Validate())
	assert.Error(t, Filter{Period: "decade"}.Validate())
	assert.Error(t, Filter{Sort: "random"}.Validate())
	assert.Error(t, Filter{Status: "LOST"}.Validate())
	assert.Error(t, Filter{DeliveryType: "drone"}.Validate())
}

func TestComputeStats(t *testing.T) {
	now := time.Now()
	st := ComputeStats(fixtures(now))
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 1, st.Ready)
	assert.True(t, st.TotalValue.Equal(decimal.RequireFromString("338.6")))
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "Agora"},
		{5 * time.Minute, "5min atrás"},
		{59 * time.Minute, "59min atrás"},
		{2 * time.Hour, "2h atrás"},
		{23*time.Hour + 59*time.Minute, "23h atrás"},
		{50 * time.Hour, "2d atrás"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeAgo(now.Add(-tt.ago), now))
		})
	}
}

func TestNewOrderCard(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	o := order(1001, "Maria", "1", domain.OrderStatusReceived, domain.DeliveryTypeDelivery, "10", now.Add(-2*time.Hour))

	card := NewOrderCard(o, now)
	assert.Equal(t, "2h atrás", card.TimeAgo)
	assert.Equal(t, o.Status.Label(), card.StatusLabel)
	assert.Equal(t, []Action{
		{Status: domain.OrderStatusConfirmed, Label: domain.OrderStatusConfirmed.Label()},
		{Status: domain.OrderStatusCancelled, Label: domain.OrderStatusCancelled.Label(), Destructive: true},
	}, card.NextActions)

	ready := order(1002, "João", "2", domain.OrderStatusReady, domain.DeliveryTypePickup, "10", now)
	assert.Equal(t, domain.OrderStatusDelivered, NewOrderCard(ready, now).NextActions[0].Status)
}
