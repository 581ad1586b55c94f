package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aeobro.backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// VerificationEvent is emitted after a proof has been committed
type VerificationEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Method     string    `json:"method"`
	Target     string    `json:"target"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers verification events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, event VerificationEvent) error
}

// Noop drops events. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, VerificationEvent) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by user id so one user's events stay ordered
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
}

// NewKafkaPublisher creates a synchronous producer for brokers. timeout bounds each
// Publish call including retries; zero leaves only the caller's deadline.
func NewKafkaPublisher(brokers []string, topic string, timeout time.Duration) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	if timeout > 0 {
		w.WriteTimeout = timeout
		w.ReadTimeout = timeout
	}
	return &KafkaPublisher{writer: w, topic: topic, timeout: timeout}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event VerificationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode verification event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.UserID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("verification." + event.Method)},
		},
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	logger.Debug(ctx, "Produced verification event",
		zap.String("topic", p.topic),
		zap.String("method", event.Method),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
