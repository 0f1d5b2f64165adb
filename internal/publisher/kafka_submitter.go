package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
)

const (
	TopicOrderSubmitted = "order-submitted"
	EventOrderSubmitted = "OrderSubmitted"
)

var ErrUnavailable = errors.New("order broker unavailable")

// MessageWriter is the part of *kafka.Writer the submitter uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSubmitter publishes finalized checkouts for the orders consumer.
// Messages are keyed by restaurant so one restaurant's orders stay in order.
type KafkaSubmitter struct {
	writer   MessageWriter
	breaker  *gobreaker.CircuitBreaker[struct{}]
	log      logrus.FieldLogger
	attempts int
	backoff  time.Duration
}

func NewKafkaWriter(brokers ...string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicOrderSubmitted,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireAll,
	}
}

func NewKafkaSubmitter(writer MessageWriter, log logrus.FieldLogger) *KafkaSubmitter {
	s := &KafkaSubmitter{
		writer:   writer,
		log:      log.WithField("component", "kafka-submitter"),
		attempts: 3,
		backoff:  200 * time.Millisecond,
	}
	s.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "order-submitted",
		MaxRequests: 1,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
	})
	return s
}

func (s *KafkaSubmitter) Submit(ctx context.Context, sub checkout.Submission) (checkout.Receipt, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return checkout.Receipt{}, fmt.Errorf("marshal submission: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(sub.RestaurantID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderSubmitted)},
			{Key: "order_id", Value: []byte(sub.ID.String())},
		},
	}

	_, err = s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.writeWithRetry(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return checkout.Receipt{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return checkout.Receipt{}, fmt.Errorf("publish order %s: %w", sub.ID, err)
	}

	s.log.WithFields(logrus.Fields{"order_id": sub.ID, "restaurant_id": sub.RestaurantID}).Info("order submitted")
	return checkout.Receipt{OrderID: sub.ID}, nil
}

func (s *KafkaSubmitter) writeWithRetry(ctx context.Context, msg kafka.Message) error {
	var err error
	wait := s.backoff
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = s.writer.WriteMessages(ctx, msg); err == nil {
			return nil
		}
		s.log.WithError(err).WithField("attempt", attempt).Warn("kafka write failed")
		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}

func (s *KafkaSubmitter) Close() error {
	return s.writer.Close()
}
