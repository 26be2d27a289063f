package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/listing-service/internal/domain/repository"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type Publisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

var _ repository.EventPublisher = (*Publisher)(nil)

// NewPublisher подключается к NATS с обработчиками переподключения и ошибок
func NewPublisher(url, appName string, logger *zap.Logger) (*Publisher, error) {
	log := logger.Named("nats")

	opts := []nats.Option{
		nats.Name(fmt.Sprintf("%s publisher", appName)),
		nats.Timeout(10 * time.Second),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			log.Error("NATS error", zap.String("subject", subject), zap.Error(err))
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Info("NATS connected", zap.String("url", conn.ConnectedUrl()))

	return &Publisher{conn: conn, logger: log}, nil
}

// Publish сериализует payload в JSON и публикует в subject
func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data for subject %s: %w", subject, err)
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}

	p.logger.Debug("Event published", zap.String("subject", subject), zap.Int("size_bytes", len(payload)))
	return nil
}

// Close дожидается отправки буфера и закрывает соединение
func (p *Publisher) Close() {
	if p.conn == nil || p.conn.IsClosed() {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("Failed to drain NATS connection", zap.Error(err))
		p.conn.Close()
	}
}

// NoopPublisher используется, когда NATS не настроен
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
