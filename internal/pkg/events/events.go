// Package events publishes booking lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
	TypePaymentCreated       = "payment.created"
)

type BookingEvent struct {
	Type              string    `json:"type"`
	BookingCode       string    `json:"bookingId"`
	Status            string    `json:"status"`
	PreviousStatus    string    `json:"previousStatus,omitempty"`
	PaymentStatus     string    `json:"paymentStatus,omitempty"`
	TransactionStatus string    `json:"transactionStatus,omitempty"`
	OrderID           string    `json:"orderId,omitempty"`
	TotalAmount       int64     `json:"totalAmount,omitempty"`
	Source            string    `json:"source,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, event BookingEvent) error
	Close() error
}

// Nop discards events. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, BookingEvent) error { return nil }
func (Nop) Close() error                                        { return nil }

// messageWriter is the subset of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	log    *logrus.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logrus.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: w, log: log}
}

// Publish keys messages by booking code so one booking's events stay ordered on a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	p.log.WithFields(logrus.Fields{"type": event.Type, "key": key}).Debug("event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
