package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
)

// MockListingRepository is a mock of ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id string, populate domain.Populate) (*domain.Listing, error) {
	args := m.Called(ctx, id, populate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAll(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	args := m.Called(ctx, listing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockReviewRepository is a mock of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) DeleteByListing(ctx context.Context, listingID string) (int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(int64), args.Error(1)
}

// MockGeocodingProvider is a mock of GeocodingProvider
type MockGeocodingProvider struct {
	mock.Mock
}

func (m *MockGeocodingProvider) Lookup(ctx context.Context, query string) (*domain.Coordinates, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coordinates), args.Error(1)
}

func (m *MockGeocodingProvider) Name() string {
	return "mock"
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetGeocode(ctx context.Context, query string) (*domain.Coordinates, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coordinates), args.Error(1)
}

func (m *MockCacheRepository) SetGeocode(ctx context.Context, query string, coords domain.Coordinates, ttl time.Duration) error {
	args := m.Called(ctx, query, coords, ttl)
	return args.Error(0)
}

// MockImageStorage is a mock of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, upload repository.ImageUpload) (*domain.Image, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Image), args.Error(1)
}

func (m *MockImageStorage) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

// MockEventPublisher is a mock of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

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

func ptrFloat64(f float64) *float64 {
	return &f
}
