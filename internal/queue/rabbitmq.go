package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"misterhr/internal/config"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrNotConnected = errors.New("queue not connected")

const publishTimeout = 5 * time.Second

// BatchMessage is the wire format for queued batch jobs.
type BatchMessage struct {
	BatchID    uuid.UUID `json:"batch_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// RabbitMQ wraps one connection and channel with a durable queue
// declared on it. Used as both publisher and consumer.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
}

func Connect(cfg config.QueueConfig, logger *zap.Logger) (*RabbitMQ, error) {
	if cfg.URL == "" {
		return nil, ErrNotConnected
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", cfg.QueueName, err)
	}

	return &RabbitMQ{conn: conn, channel: ch, queue: cfg.QueueName, logger: logger}, nil
}

func (r *RabbitMQ) Close() error {
	if r == nil || r.conn == nil {
		return nil
	}
	if r.channel != nil {
		r.channel.Close()
	}
	return r.conn.Close()
}

func (r *RabbitMQ) Ping() error {
	if r == nil || r.conn == nil || r.conn.IsClosed() {
		return ErrNotConnected
	}
	return nil
}

// PublishBatch enqueues a batch for the worker.
func (r *RabbitMQ) PublishBatch(ctx context.Context, batchID uuid.UUID) error {
	if r == nil || r.channel == nil {
		return ErrNotConnected
	}

	body, err := json.Marshal(BatchMessage{BatchID: batchID, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return r.channel.PublishWithContext(ctx, "", r.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume delivers queued batches to the handler one at a time until
// the context is canceled. A handler error requeues the message once;
// malformed messages are dropped.
func (r *RabbitMQ) Consume(ctx context.Context, handler func(ctx context.Context, msg BatchMessage) error) error {
	if r == nil || r.channel == nil {
		return ErrNotConnected
	}

	if err := r.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := r.channel.Consume(r.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrNotConnected
			}
			r.handle(ctx, d, handler)
		}
	}
}

func (r *RabbitMQ) handle(ctx context.Context, d amqp.Delivery, handler func(ctx context.Context, msg BatchMessage) error) {
	var msg BatchMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil || msg.BatchID == uuid.Nil {
		if r.logger != nil {
			r.logger.Warn("dropping malformed queue message", zap.Error(err))
		}
		if err := d.Nack(false, false); err != nil && r.logger != nil {
			r.logger.Warn("nack failed", zap.Error(err))
		}
		return
	}

	if err := handler(ctx, msg); err != nil {
		if r.logger != nil {
			r.logger.Error("batch processing failed",
				zap.String("batch_id", msg.BatchID.String()), zap.Error(err))
		}
		// requeue on the first failure only
		if err := d.Nack(false, !d.Redelivered); err != nil && r.logger != nil {
			r.logger.Warn("nack failed", zap.Error(err))
		}
		return
	}

	if err := d.Ack(false); err != nil && r.logger != nil {
		r.logger.Warn("ack failed", zap.Error(err))
	}
}
