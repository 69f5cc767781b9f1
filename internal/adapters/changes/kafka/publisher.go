// Package kafka publica los eventos de cambio de registros en un tópico Kafka (segmentio/kafka-go).
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"livestock-records/internal/ports/changes"

	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter es el subconjunto de *kafka.Writer que usamos (inyectable en tests).
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Publisher struct {
	w     messageWriter
	topic string
}

var _ changes.Publisher = (*Publisher)(nil)

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: brokers required")
	}
	if topic == "" {
		return nil, errors.New("kafka: topic required")
	}
	return &Publisher{
		w: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{},
			AllowAutoTopicCreation: true,
			// una mutación = un mensaje; no esperamos a llenar lotes
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
			RequiredAcks: kafkago.RequireOne,
		},
		topic: topic,
	}, nil
}

// Publish escribe el evento con key "<collection>:<id>" para que los cambios de un mismo documento
// caigan en la misma partición (orden por documento).
func (p *Publisher) Publish(ctx context.Context, ev changes.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}
	msg := kafkago.Message{
		Key:   []byte(ev.Collection + ":" + ev.ID),
		Value: value,
		Time:  ev.At,
		Headers: []kafkago.Header{
			{Key: "op", Value: []byte(ev.Op)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
