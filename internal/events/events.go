// Package events publishes domain change notifications (ticket created,
// ticket updated, agent assigned, agent created) to Kafka. Publishing is
// best-effort: failures are logged and never surface to API callers.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event names.
const (
	TicketCreated  = "ticket.created"
	TicketUpdated  = "ticket.updated"
	TicketAssigned = "ticket.assigned"
	AgentCreated   = "agent.created"
)

// Event is the JSON envelope written to the topic.
type Event struct {
	Name       string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Publisher is implemented by anything that can emit events.
type Publisher interface {
	Publish(ctx context.Context, key string, ev Event)
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, Event) {}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes events to a single Kafka topic.
type Producer struct {
	w     messageWriter
	topic string
}

// NewProducer builds an asynchronous kafka-go writer for topic. It returns
// nil when brokers or topic are empty; callers should fall back to Nop.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil
	}
	return &Producer{
		topic: topic,
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			Async:                  true,
			AllowAutoTopicCreation: true,
		},
	}
}

// Topic reports the destination topic.
func (p *Producer) Topic() string { return p.topic }

// Publish implements Publisher. Messages with the same key land on the same
// partition, so per-entity ordering is preserved.
func (p *Producer) Publish(ctx context.Context, key string, ev Event) {
	l := zerolog.Ctx(ctx)
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		l.Error().Err(err).Str("event", ev.Name).Msg("kafka: marshal event")
		return
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(ev.Name)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		l.Warn().Err(err).Str("event", ev.Name).Str("key", key).Msg("kafka: write event")
		return
	}
	l.Debug().Str("event", ev.Name).Str("key", key).Msg("event published")
}

// Close flushes pending messages and releases the writer.
func (p *Producer) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

// ParseBrokers splits "host1:9092, host2:9092" into its non-empty parts.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
