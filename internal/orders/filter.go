package orders

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

type Period string

const (
	PeriodAll       Period = ""
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodWeek      Period = "week"
	PeriodMonth     Period = "month"
)

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortValue  SortOrder = "value"
)

// Filter narrows the dashboard list. Zero values match everything; an empty
// Sort means newest first.
type Filter struct {
	Search       string
	Status       domain.OrderStatus
	DeliveryType domain.DeliveryType
	Period       Period
	Sort         SortOrder
}

func (f Filter) Validate() error {
	switch f.Period {
	case PeriodAll, PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth:
	default:
		return fmt.Errorf("unknown period %q", f.Period)
	}
	switch f.Sort {
	case "", SortNewest, SortOldest, SortValue:
	default:
		return fmt.Errorf("unknown sort %q", f.Sort)
	}
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("unknown status %q", f.Status)
	}
	if f.DeliveryType != "" && !f.DeliveryType.Valid() {
		return fmt.Errorf("unknown delivery type %q", f.DeliveryType)
	}
	return nil
}

// Matches reports whether o passes every filter at time now.
func (f Filter) Matches(o *domain.Order, now time.Time) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(o.Customer.Name), term) &&
			!strings.Contains(strconv.Itoa(o.OrderNumber), term) &&
			!strings.Contains(o.Customer.Phone, f.Search) {
			return false
		}
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.DeliveryType != "" && o.DeliveryType != f.DeliveryType {
		return false
	}
	return f.Period.contains(o.CreatedAt, now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (p Period) contains(t, now time.Time) bool {
	t = t.In(now.Location())
	switch p {
	case PeriodToday:
		return sameDay(t, now)
	case PeriodYesterday:
		return sameDay(t, now.AddDate(0, 0, -1))
	case PeriodWeek:
		return !t.Before(now.AddDate(0, 0, -7))
	case PeriodMonth:
		return !t.Before(now.AddDate(0, -1, 0))
	}
	return true
}

// Apply filters and sorts orders without modifying the input slice.
func Apply(orders []*domain.Order, f Filter, now time.Time) []*domain.Order {
	out := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if f.Matches(o, now) {
			out = append(out, o)
		}
	}

	switch f.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortValue:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

type Stats struct {
	Total      int             `json:"total"`
	Pending    int             `json:"pending"`
	Ready      int             `json:"ready"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

func ComputeStats(orders []*domain.Order) Stats {
	st := Stats{Total: len(orders), TotalValue: decimal.Zero}
	for _, o := range orders {
		if o.Status.IsPending() {
			st.Pending++
		}
		if o.Status == domain.OrderStatusReady {
			st.Ready++
		}
		st.TotalValue = st.TotalValue.Add(o.Total)
	}
	return st
}
