package geocode_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/worker"
	"github.com/listing-service/internal/worker/geocode"
)

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockRegeocoder is a mock of Regeocoder
type MockRegeocoder struct {
	mock.Mock
}

func (m *MockRegeocoder) Regeocode(ctx context.Context, event domain.GeocodeRetryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func message(t *testing.T, id string, event domain.GeocodeRetryEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func TestRegeocodeWorker_Name(t *testing.T) {
	w := geocode.NewRegeocodeWorker(&MockStreamRepository{}, &MockRegeocoder{}, "group", 10, 3, zap.NewNop())

	assert.Equal(t, "listing-regeocode", w.Name())
	assert.Equal(t, "group", w.ConsumerGroup())
}

func TestRegeocodeWorker_ProcessBatch_Empty(t *testing.T) {
	streams := &MockStreamRepository{}
	regeocoder := &MockRegeocoder{}
	w := geocode.NewRegeocodeWorker(streams, regeocoder, "group", 10, 3, zap.NewNop())

	streams.On("ConsumeBatch", mock.Anything, domain.StreamListingGeocode, "group", mock.Anything, 10).
		Return([]domain.StreamMessage{}, nil)

	processed, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	streams.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	regeocoder.AssertNotCalled(t, "Regeocode", mock.Anything, mock.Anything)
}

func TestRegeocodeWorker_ProcessBatch_AcksAllMessages(t *testing.T) {
	streams := &MockStreamRepository{}
	regeocoder := &MockRegeocoder{}
	w := geocode.NewRegeocodeWorker(streams, regeocoder, "group", 10, 3, zap.NewNop())

	first := domain.GeocodeRetryEvent{ListingID: "l-1", Address: "Aspen, USA", Attempt: 1}
	second := domain.GeocodeRetryEvent{ListingID: "l-2", Address: "Lisbon, Portugal", Attempt: 2}
	messages := []domain.StreamMessage{
		message(t, "1-0", first),
		{ID: "2-0", Data: "not json"},
		message(t, "3-0", second),
	}

	streams.On("ConsumeBatch", mock.Anything, domain.StreamListingGeocode, "group", mock.Anything, 10).
		Return(messages, nil)
	regeocoder.On("Regeocode", mock.Anything, first).Return(nil)
	regeocoder.On("Regeocode", mock.Anything, second).Return(nil)
	streams.On("AckMessages", mock.Anything, domain.StreamListingGeocode, "group", []string{"1-0", "2-0", "3-0"}).
		Return(nil)

	processed, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	regeocoder.AssertNumberOfCalls(t, "Regeocode", 2)
	streams.AssertExpectations(t)
	streams.AssertNotCalled(t, "PublishToStream", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegeocodeWorker_ProcessBatch_RetriesOnError(t *testing.T) {
	streams := &MockStreamRepository{}
	regeocoder := &MockRegeocoder{}
	w := geocode.NewRegeocodeWorker(streams, regeocoder, "group", 10, 3, zap.NewNop())

	retryable := domain.GeocodeRetryEvent{ListingID: "l-1", Address: "Aspen, USA", Attempt: 1}
	exhausted := domain.GeocodeRetryEvent{ListingID: "l-2", Address: "Aspen, USA", Attempt: 3}

	streams.On("ConsumeBatch", mock.Anything, domain.StreamListingGeocode, "group", mock.Anything, 10).
		Return([]domain.StreamMessage{message(t, "1-0", retryable), message(t, "2-0", exhausted)}, nil)
	regeocoder.On("Regeocode", mock.Anything, mock.Anything).Return(stderrors.New("db down"))
	streams.On("PublishToStream", mock.Anything, domain.StreamListingGeocode, domain.GeocodeRetryEvent{
		ListingID: "l-1", Address: "Aspen, USA", Attempt: 2,
	}).Return(nil).Once()
	streams.On("AckMessages", mock.Anything, domain.StreamListingGeocode, "group", []string{"1-0", "2-0"}).
		Return(nil)

	processed, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	streams.AssertExpectations(t)
	streams.AssertNumberOfCalls(t, "PublishToStream", 1)
}

func TestRegeocodeWorker_ProcessBatch_ConsumeError(t *testing.T) {
	streams := &MockStreamRepository{}
	w := geocode.NewRegeocodeWorker(streams, &MockRegeocoder{}, "group", 10, 3, zap.NewNop())

	streams.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, stderrors.New("redis down"))

	_, err := w.ProcessBatch(context.Background())
	assert.Error(t, err)
}

func TestRegeocodeWorker_StartFailsWithoutGroup(t *testing.T) {
	streams := &MockStreamRepository{}
	w := geocode.NewRegeocodeWorker(streams, &MockRegeocoder{}, "group", 10, 3, zap.NewNop())

	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamListingGeocode, "group").
		Return(stderrors.New("redis down"))

	assert.Error(t, w.Start(context.Background()))
}

func TestWorkerManager_StartStop(t *testing.T) {
	streams := &MockStreamRepository{}
	w := geocode.NewRegeocodeWorker(streams, &MockRegeocoder{}, "group", 10, 3, zap.NewNop())

	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamListingGeocode, "group").Return(nil)
	streams.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.StreamMessage{}, nil)

	manager := worker.NewWorkerManager(zap.NewNop(), 5*time.Second)
	manager.Register(w)

	require.NoError(t, manager.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, manager.Stop())
	assert.True(t, w.IsStopped())
	// повторная остановка безопасна
	assert.NoError(t, w.Stop())
}

func TestWorkerManager_StartWithoutWorkers(t *testing.T) {
	manager := worker.NewWorkerManager(zap.NewNop(), 0)
	assert.Error(t, manager.Start(context.Background()))
}
