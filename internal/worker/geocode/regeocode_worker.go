package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/worker"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 20
	emptyQueueSleep  = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep       = time.Second
)

// Regeocoder - повторное геокодирование одного объявления (реализуется ListingUseCase)
type Regeocoder interface {
	Regeocode(ctx context.Context, event domain.GeocodeRetryEvent) error
}

// RegeocodeWorker обрабатывает задачи повторного геокодирования из stream:listing:geocode
type RegeocodeWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	regeocoder   Regeocoder
	consumerName string
	batchSize    int
	maxRetries   int
}

// NewRegeocodeWorker создает новый RegeocodeWorker
func NewRegeocodeWorker(
	streamRepo repository.StreamRepository,
	regeocoder Regeocoder,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	logger *zap.Logger,
) *RegeocodeWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &RegeocodeWorker{
		BaseWorker:   worker.NewBaseWorker("listing-regeocode", consumerGroup, logger),
		streamRepo:   streamRepo,
		regeocoder:   regeocoder,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}
}

// Start запускает воркер
func (w *RegeocodeWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RegeocodeWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamListingGeocode, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.Wait(ctx, errorSleep)
			continue
		}

		if processed == 0 {
			w.Wait(ctx, emptyQueueSleep)
		}
	}
}

// ProcessBatch читает и обрабатывает batch сообщений, возвращает количество прочитанных
func (w *RegeocodeWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamListingGeocode,
		w.ConsumerGroup(),
		w.consumerName,
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	failed := 0
	for _, msg := range messages {
		// сообщение подтверждается в любом случае: повтор идёт новой задачей в стриме
		ackIDs = append(ackIDs, msg.ID)

		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}

		if err := w.regeocoder.Regeocode(ctx, *event); err != nil {
			failed++
			w.retry(ctx, *event, err)
		}
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamListingGeocode, w.ConsumerGroup(), ackIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Info("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("failed", failed))

	return len(messages), nil
}

// retry ставит задачу повторно после ошибки хранилища, пока не исчерпаны попытки
func (w *RegeocodeWorker) retry(ctx context.Context, event domain.GeocodeRetryEvent, cause error) {
	logger := w.Logger().With(
		zap.String("listing_id", event.ListingID),
		zap.Int("attempt", event.Attempt),
		zap.Error(cause))

	if event.Attempt >= w.maxRetries {
		logger.Warn("Regeocode failed, giving up")
		return
	}

	event.Attempt++
	if err := w.streamRepo.PublishToStream(ctx, domain.StreamListingGeocode, event); err != nil {
		logger.Error("Regeocode failed and could not be re-enqueued", zap.NamedError("publish_error", err))
		return
	}
	logger.Warn("Regeocode failed, re-enqueued")
}

func parseMessage(msg domain.StreamMessage) (*domain.GeocodeRetryEvent, error) {
	var event domain.GeocodeRetryEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.ListingID == "" {
		return nil, fmt.Errorf("event has no listing_id")
	}
	return &event, nil
}
