package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const defaultAckTimeout = 10 * time.Second

// messageWriter is the producer surface the publisher depends on.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher wraps a message-bus producer behind a fire-and-forget contract:
// Publish converts every failure into a log entry so call sites can discard
// the returned error without consequence. Persistence correctness never
// depends on the bus being reachable.
type Publisher struct {
	brokers    []string
	enabled    bool
	ackTimeout time.Duration
	logger     *zap.Logger

	mu        sync.Mutex
	writer    messageWriter
	newWriter func() messageWriter
}

// NewPublisher creates a publisher for the given brokers. When enabled is
// false all publish calls are dropped before reaching the producer.
func NewPublisher(brokers []string, enabled bool, ackTimeout time.Duration, logger *zap.Logger) *Publisher {
	if ackTimeout <= 0 {
		ackTimeout = defaultAckTimeout
	}

	p := &Publisher{
		brokers:    brokers,
		enabled:    enabled,
		ackTimeout: ackTimeout,
		logger:     logger,
	}
	p.newWriter = func() messageWriter {
		return &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           ackTimeout,
			AllowAutoTopicCreation: true,
		}
	}
	return p
}

// Start constructs the underlying producer. Calling Start on a started or
// disabled publisher is a no-op. The broker is not dialed here: an
// unreachable bus degrades eventing without preventing startup.
func (p *Publisher) Start() error {
	if !p.enabled {
		p.logger.Info("event publishing is disabled, skipping producer start")
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer != nil {
		return nil
	}
	p.writer = p.newWriter()
	p.logger.Info("event producer started", zap.Strings("brokers", p.brokers))
	return nil
}

// Stop tears the producer down and resets state so a later Start can
// recreate it. Calling Stop on a stopped publisher is a no-op.
func (p *Publisher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}

	err := p.writer.Close()
	p.writer = nil
	if err != nil {
		p.logger.Error("failed to stop event producer", zap.Error(err))
		return errors.Wrap(err, "stop event producer")
	}
	p.logger.Info("event producer stopped")
	return nil
}

// Publish serializes payload to JSON and sends it to the topic, keyed for
// partitioning and waiting for broker acknowledgment bounded by the ack
// timeout. Every failure mode is caught and logged here; the returned error
// exists only so the call site can visibly discard it.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload any) error {
	if !p.enabled {
		return nil
	}

	p.mu.Lock()
	writer := p.writer
	p.mu.Unlock()

	if writer == nil {
		err := errors.New("event producer not started")
		p.logger.Error("dropping event", zap.String("topic", topic), zap.Error(err))
		return err
	}

	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to serialize event",
			zap.String("topic", topic), zap.Error(err))
		return errors.Wrap(err, "serialize event")
	}

	msg := kafka.Message{
		Topic: topic,
		Value: value,
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.ackTimeout)
	defer cancel()

	if err := writer.WriteMessages(writeCtx, msg); err != nil {
		p.logger.Error("failed to produce event",
			zap.String("topic", topic), zap.String("key", key), zap.Error(err))
		return errors.Wrap(err, "produce event")
	}

	p.logger.Info("produced event", zap.String("topic", topic), zap.String("key", key))
	return nil
}
