// Package events bridges successful order mutations onto Kafka so
// out-of-process consumers (stock worker, downstream reporting) see the
// same lifecycle the in-process bus announces.
package events

import (
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/puestomx/go-kitchen-sync/internal/kafka"
	"github.com/puestomx/go-kitchen-sync/internal/orders"
)

type KafkaSink struct {
	CreatedProducer *kafkax.Producer
	StatusProducer  *kafkax.Producer
	Service         string
}

func (s *KafkaSink) publish(p *kafkax.Producer, eventType, orderID string, payload any) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Service,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *KafkaSink) StatusChanged(p orders.OrderStatusChangedPayload) {
	s.publish(s.StatusProducer, orders.EventOrderStatusChanged, p.OrderID, p)
}

func (s *KafkaSink) Created(p orders.OrderCreatedPayload) {
	s.publish(s.CreatedProducer, orders.EventOrderCreated, p.OrderID, p)
}
