package mail

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Publisher puts a JSON document on the mail queue.
type Publisher interface {
	PublishJSON(ctx context.Context, v any) error
}

// QueueSender hands messages to the mail queue instead of delivering them
// inline. A QueueWorker on the other side performs the delivery.
type QueueSender struct {
	pub Publisher
}

func NewQueueSender(pub Publisher) *QueueSender {
	return &QueueSender{pub: pub}
}

func (s *QueueSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if err := s.pub.PublishJSON(ctx, msg); err != nil {
		return fmt.Errorf("enqueue mail to %s: %w", msg.To, err)
	}
	return nil
}

// QueueWorker delivers queued messages with the underlying transport.
type QueueWorker struct {
	sender Sender
	log    *zap.Logger
}

func NewQueueWorker(sender Sender, log *zap.Logger) *QueueWorker {
	return &QueueWorker{sender: sender, log: log}
}

// Handle decodes and delivers one queued message. A returned error makes the
// consumer drop the message.
func (w *QueueWorker) Handle(d amqp.Delivery) error {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return fmt.Errorf("decode queued mail: %w", err)
	}
	if err := w.sender.Send(context.Background(), msg); err != nil {
		w.log.Error("queued mail delivery failed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return err
	}
	w.log.Info("queued mail delivered", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
