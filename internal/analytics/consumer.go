// Package analytics consumes order events from Kafka and keeps rolling
// counters in Redis for the operator dashboard.
package analytics

import (
	"context"
	"encoding/json"
	"log"

	"quickbite/internal/domain"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	RecordOrderCreated(ctx context.Context, event domain.OrderEvent) error
	RecordStatusChange(ctx context.Context, event domain.OrderEvent) error
}

type Consumer struct {
	Reader *kafka.Reader
	Store  StoreInterface
}

func NewConsumer(reader *kafka.Reader, store StoreInterface) *Consumer {
	return &Consumer{Reader: reader, Store: store}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting order analytics consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.Process(ctx, event)
	}
}

func (c *Consumer) Process(ctx context.Context, event domain.OrderEvent) {
	switch event.Type {
	case domain.EventOrderCreated:
		if err := c.Store.RecordOrderCreated(ctx, event); err != nil {
			log.Printf("Error recording order %d: %v", event.OrderID, err)
		}
	case domain.EventStatusChanged:
		if err := c.Store.RecordStatusChange(ctx, event); err != nil {
			log.Printf("Error recording status change for order %d: %v", event.OrderID, err)
		}
	}
}
