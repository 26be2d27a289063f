package repository

import "context"

// EventPublisher публикует события жизненного цикла объявлений
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
