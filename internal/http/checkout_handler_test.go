package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders"
)

const validatePath = "/api/v1/restaurants/bistro-gourmet/checkout/validate"

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func deliveryRequest(t *testing.T) CheckoutRequestDTO {
	return CheckoutRequestDTO{
		Customer: domain.CustomerInfo{Name: "Maria", Phone: "(11) 98888-7777"},
		Delivery: mustJSON(t, domain.Delivery{Address: domain.Address{
			Street: "Rua das Flores", Number: "42", Neighborhood: "Centro",
			City: "São Paulo", State: "SP", ZipCode: "01001000",
		}}),
		Payment: mustJSON(t, domain.Pix{}),
		Notes:   "sem cebola",
	}
}

func TestValidate_Steps(t *testing.T) {
	s := newTestServer(t, nil)
	addBurger(t, s, 2)

	req := CheckoutRequestDTO{Step: 1}
	rec := s.do(t, http.MethodPost, validatePath, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation_failed", resp.Code)
	assert.Equal(t, "customer.name,customer.phone", resp.Details)

	req = deliveryRequest(t)
	req.Step = 2
	rec = s.do(t, http.MethodPost, validatePath, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var ok validateResponse
	decodeBody(t, rec, &ok)
	assert.True(t, ok.Valid)
	assert.Equal(t, 45, ok.EstimatedTime)
}

func TestValidate_ChangeMustExceedOrderTotal(t *testing.T) {
	s := newTestServer(t, nil)
	addBurger(t, s, 2) // 87.80, plus 6.00 delivery fee

	req := deliveryRequest(t)
	req.Step = 3
	req.Payment = mustJSON(t, domain.Cash{NeedsChange: true, ChangeFor: decimal.NewFromInt(50)})
	rec := s.do(t, http.MethodPost, validatePath, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "payment.changeFor", decodeError(t, rec).Details)

	req.Payment = mustJSON(t, domain.Cash{NeedsChange: true, ChangeFor: decimal.NewFromInt(100)})
	rec = s.do(t, http.MethodPost, validatePath, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidate_ChangeForCountsDeliveryFee(t *testing.T) {
	s := newTestServer(t, nil)
	addBurger(t, s, 2) // 87.80, 93.80 delivered

	req := deliveryRequest(t)
	req.Step = 3
	req.Payment = mustJSON(t, domain.Cash{NeedsChange: true, ChangeFor: decimal.NewFromInt(90)})
	rec := s.do(t, http.MethodPost, validatePath, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "payment.changeFor", decodeError(t, rec).Details)

	req.Delivery = mustJSON(t, domain.Pickup{})
	rec = s.do(t, http.MethodPost, validatePath, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Finalize applies the same total.
	req = deliveryRequest(t)
	req.Payment = mustJSON(t, domain.Cash{NeedsChange: true, ChangeFor: decimal.NewFromInt(90)})
	rec = s.do(t, http.MethodPost, "/api/v1/restaurants/bistro-gourmet/checkout", req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, getCart(t, s).Items, 1)
}

func TestValidate_UnknownRestaurant(t *testing.T) {
	s := newTestServer(t, nil)
	req := deliveryRequest(t)
	req.Step = 1
	rec := s.do(t, http.MethodPost, "/api/v1/restaurants/nope/checkout/validate", req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidate_UnknownVariant(t *testing.T) {
	s := newTestServer(t, nil)
	req := CheckoutRequestDTO{Step: 2, Delivery: json.RawMessage(`{"type":"drone"}`)}
	rec := s.do(t, http.MethodPost, validatePath, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinalize_Delivery(t *testing.T) {
	s := newTestServer(t, nil)
	addBurger(t, s, 2)

	rec := s.do(t, http.MethodPost, "/api/v1/restaurants/bistro-gourmet/checkout", deliveryRequest(t))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp finalizeResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 1001, resp.OrderNumber)
	assert.Equal(t, 45, resp.EstimatedTime)
	assert.Equal(t, "/api/v1/orders/"+resp.OrderID.String(), rec.Header().Get("Location"))

	order, err := s.orders.Get(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusReceived, order.Status)
	assert.Equal(t, "87.8", order.Subtotal.String())
	assert.Equal(t, "6", order.DeliveryFee.String())
	assert.Equal(t, "93.8", order.Total.String())
	require.NotNil(t, order.DeliveryAddress)
	assert.Equal(t, "Rua das Flores", order.DeliveryAddress.Street)

	assert.Empty(t, getCart(t, s).Items)
}

func TestFinalize_TableFromQRCode(t *testing.T) {
	s := newTestServer(t, nil)
	addBurger(t, s, 1)

	req := CheckoutRequestDTO{
		Customer: domain.CustomerInfo{Name: "João", Phone: "11977776666"},
		Delivery: mustJSON(t, domain.DineIn{}),
		Payment:  mustJSON(t, domain.Card{}),
	}
	rec := s.do(t, http.MethodPost, "/api/v1/restaurants/bistro-gourmet/checkout?mesa=7", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp finalizeResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 20, resp.EstimatedTime)

	order, err := s.orders.Get(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryTypeDineIn, order.DeliveryType)
	assert.Equal(t, "7", order.TableNumber)
	assert.True(t, order.DeliveryFee.IsZero())
}

func TestFinalize_EmptyCart(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPost, "/api/v1/restaurants/bistro-gourmet/checkout", deliveryRequest(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_cart", decodeError(t, rec).Code)
}

func TestFinalize_InvalidCustomerKeepsCart(t *testing.T) {
	s := newTestServer(t, nil)
	addBurger(t, s, 1)

	req := deliveryRequest(t)
	req.Customer.Phone = ""
	rec := s.do(t, http.MethodPost, "/api/v1/restaurants/bistro-gourmet/checkout", req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "customer.phone", decodeError(t, rec).Details)
	assert.Len(t, getCart(t, s).Items, 1)
}

func TestFinalize_UnknownRestaurant(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPost, "/api/v1/restaurants/nope/checkout", deliveryRequest(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFinalize_ConcurrentSubmitsPlaceOneOrder(t *testing.T) {
	s := newTestServer(t, nil)
	addBurger(t, s, 2)

	const attempts = 8
	req := deliveryRequest(t)
	recs := make([]*httptest.ResponseRecorder, attempts)
	var wg sync.WaitGroup
	for i := range recs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recs[i] = s.do(t, http.MethodPost, "/api/v1/restaurants/bistro-gourmet/checkout", req)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, rec := range recs {
		switch rec.Code {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			assert.Equal(t, "empty_cart", decodeError(t, rec).Code)
		default:
			t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
		}
	}
	assert.Equal(t, 1, created)

	list, err := s.orders.List(context.Background(), "bistro-gourmet", orders.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFinalize_DropsSessionEngine(t *testing.T) {
	s := newTestServer(t, nil)
	addBurger(t, s, 1)
	require.Equal(t, 1, s.carts.Len())

	rec := s.do(t, http.MethodPost, "/api/v1/restaurants/bistro-gourmet/checkout", deliveryRequest(t))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 0, s.carts.Len())

	assert.Empty(t, getCart(t, s).Items)
}
