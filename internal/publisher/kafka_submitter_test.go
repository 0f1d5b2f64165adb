package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
)

type MockWriter struct {
	mu       sync.RWMutex
	messages []kafka.Message
	failures int
	calls    int
}

func (m *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("leader not available")
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *MockWriter) Close() error { return nil }

func (m *MockWriter) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func newTestSubmitter(w MessageWriter) *KafkaSubmitter {
	s := NewKafkaSubmitter(w, logger.Discard())
	s.backoff = time.Millisecond
	return s
}

func testSubmission() checkout.Submission {
	return checkout.Submission{
		ID:           uuid.New(),
		RestaurantID: "bistro-gourmet",
		Customer:     domain.CustomerInfo{Name: "Ana", Phone: "1"},
		Delivery:     domain.Pickup{},
		Payment:      domain.Pix{},
		TotalPrice:   decimal.RequireFromString("75.8"),
	}
}

func TestSubmit_PublishesKeyedMessage(t *testing.T) {
	w := &MockWriter{}
	s := newTestSubmitter(w)
	sub := testSubmission()

	receipt, err := s.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, receipt.OrderID)
	assert.Zero(t, receipt.OrderNumber)

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "bistro-gourmet", string(msg.Key))
	assert.Equal(t, EventOrderSubmitted, string(msg.Headers[0].Value))

	var decoded checkout.Submission
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, sub.ID, decoded.ID)
	assert.Equal(t, domain.Pickup{}, decoded.Delivery)
}

func TestSubmit_RetriesTransientFailures(t *testing.T) {
	w := &MockWriter{failures: 2}
	s := newTestSubmitter(w)

	_, err := s.Submit(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, 3, w.Calls())
}

func TestSubmit_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	w := &MockWriter{failures: 1000}
	s := newTestSubmitter(w)

	for i := 0; i < 3; i++ {
		_, err := s.Submit(context.Background(), testSubmission())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	calls := w.Calls()

	_, err := s.Submit(context.Background(), testSubmission())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, calls, w.Calls())
}

func TestSubmit_ContextCancelledStopsRetrying(t *testing.T) {
	w := &MockWriter{failures: 1000}
	s := NewKafkaSubmitter(w, logger.Discard())
	s.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Submit(ctx, testSubmission())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, w.Calls())
}
