package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders"
)

func placeOrder(t *testing.T, s *testServer) uuid.UUID {
	t.Helper()
	addBurger(t, s, 1)
	rec := s.do(t, http.MethodPost, "/api/v1/restaurants/bistro-gourmet/checkout", deliveryRequest(t))
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp finalizeResponse
	decodeBody(t, rec, &resp)
	return resp.OrderID
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t, nil)
	placeOrder(t, s)
	placeOrder(t, s)

	rec := s.do(t, http.MethodGet, "/api/v1/restaurants/bistro-gourmet/orders?status=RECEIVED&sort=oldest", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash orders.Dashboard
	decodeBody(t, rec, &dash)
	assert.Equal(t, 2, dash.Total)
	assert.Equal(t, 2, dash.Matching)
	assert.Equal(t, 2, dash.Stats.Pending)
	require.Len(t, dash.Orders, 2)
	numbers := []int{dash.Orders[0].OrderNumber, dash.Orders[1].OrderNumber}
	assert.ElementsMatch(t, []int{1001, 1002}, numbers)
	assert.NotEmpty(t, dash.Orders[0].NextActions)
}

func TestDashboard_InvalidFilter(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/api/v1/restaurants/bistro-gourmet/orders?period=decade", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_filter", decodeError(t, rec).Code)
}

func TestGetOrder(t *testing.T) {
	s := newTestServer(t, nil)
	id := placeOrder(t, s)

	rec := s.do(t, http.MethodGet, "/api/v1/orders/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var card struct {
		ID          uuid.UUID `json:"id"`
		StatusLabel string    `json:"statusLabel"`
	}
	decodeBody(t, rec, &card)
	assert.Equal(t, id, card.ID)
	assert.Equal(t, domain.OrderStatusReceived.Label(), card.StatusLabel)
}

func TestGetOrder_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	s := newTestServer(t, nil)
	id := placeOrder(t, s)
	path := "/api/v1/orders/" + id.String() + "/status"

	rec := s.do(t, http.MethodPatch, path, UpdateStatusRequestDTO{Status: domain.OrderStatusConfirmed})
	require.Equal(t, http.StatusOK, rec.Code)

	order, err := s.orders.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	assert.NotNil(t, order.ConfirmedAt)

	rec = s.do(t, http.MethodPatch, path, UpdateStatusRequestDTO{Status: domain.OrderStatusDelivered})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_transition", decodeError(t, rec).Code)

	rec = s.do(t, http.MethodPatch, path, UpdateStatusRequestDTO{Status: "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
