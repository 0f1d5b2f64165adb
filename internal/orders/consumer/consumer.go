package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/publisher"
)

// OrderCreator is satisfied by *orders.Service.
type OrderCreator interface {
	Create(ctx context.Context, sub checkout.Submission) (*domain.Order, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	orders OrderCreator
	reader MessageReader
	log    logrus.FieldLogger
}

func NewConsumer(orders OrderCreator, log logrus.FieldLogger, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    publisher.TopicOrderSubmitted,
		GroupID:  "orders-service",
		MaxBytes: 10e6, // 10MB
	})
	return NewConsumerWithReader(orders, reader, log)
}

func NewConsumerWithReader(orders OrderCreator, reader MessageReader, log logrus.FieldLogger) *Consumer {
	return &Consumer{orders: orders, reader: reader, log: log.WithField("component", "orders-consumer")}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.WithError(err).Error("error closing kafka reader")
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		c.log.WithError(err).Error("error reading message")
		return
	}

	if err := c.handle(ctx, m); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"partition": m.Partition,
			"offset":    m.Offset,
		}).Error("failed to process order submission")
	}
}

func (c *Consumer) handle(ctx context.Context, m kafka.Message) error {
	for _, h := range m.Headers {
		if h.Key == "event_type" && string(h.Value) != publisher.EventOrderSubmitted {
			c.log.WithField("event_type", string(h.Value)).Debug("skipping unrelated event")
			return nil
		}
	}

	var sub checkout.Submission
	if err := json.Unmarshal(m.Value, &sub); err != nil {
		return fmt.Errorf("parse submission: %w", err)
	}

	order, err := c.orders.Create(ctx, sub)
	if err != nil {
		return fmt.Errorf("create order %s: %w", sub.ID, err)
	}

	c.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	}).Info("order created from submission")
	return nil
}
