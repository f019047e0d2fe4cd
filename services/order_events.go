package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/vmotion/repairshop-api/models"
)

// EventType names an order lifecycle event
type EventType string

const (
	EventOrderCreated    EventType = "order.created"
	EventStatusChanged   EventType = "order.status_changed"
	EventNoteAdded       EventType = "order.note_added"
	EventEstimateUpdated EventType = "order.estimate_updated"
	EventPhotosAdded     EventType = "order.photos_added"
	EventClientMessage   EventType = "order.client_message"
	EventOrderRated      EventType = "order.rated"
)

// OrderEvent is published after an order document was written
type OrderEvent struct {
	Type       EventType          `json:"type"`
	OrderID    string             `json:"order_id"`
	ShopID     string             `json:"shop_id"`
	CustomerID string             `json:"customer_id"`
	Status     models.OrderStatus `json:"status"`
	Note       string             `json:"note,omitempty"`
	At         time.Time          `json:"at"`
}

// NewOrderEvent builds an event from the order's current state
func NewOrderEvent(eventType EventType, o *models.Order, note string, at time.Time) OrderEvent {
	return OrderEvent{
		Type:       eventType,
		OrderID:    o.ID,
		ShopID:     o.ShopID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Note:       note,
		At:         at,
	}
}

// EventPublisher delivers order events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, events ...OrderEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaEventPublisher writes order events to a Kafka topic keyed by order id
type KafkaEventPublisher struct {
	w     messageWriter
	topic string
}

// NewKafkaEventPublisher creates a publisher for the given brokers and topic
func NewKafkaEventPublisher(brokers []string, topic string) *KafkaEventPublisher {
	return newKafkaEventPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}, topic)
}

func newKafkaEventPublisherWithWriter(w messageWriter, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{w: w, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...OrderEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return errors.Wrap(err, "marshal order event")
		}
		msgs = append(msgs, kafka.Message{
			Topic: p.topic,
			Key:   []byte(e.OrderID),
			Value: value,
		})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	if c, ok := p.w.(interface{ Close() error }); ok {
		return errors.Wrap(c.Close(), "kafka close")
	}
	return nil
}

// NoopEventPublisher drops every event
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, events ...OrderEvent) error { return nil }
func (NoopEventPublisher) Close() error                                            { return nil }
