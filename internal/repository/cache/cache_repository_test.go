package cache

import (
	"context"
	"testing"
	"time"

	"github.com/listing-service/internal/config"
	"github.com/listing-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getTestRedis(t *testing.T) *Redis {
	r, err := NewRedis(context.Background(), &config.RedisConfig{
		Host:        "localhost",
		Port:        6379,
		DB:          1, // Use DB 1 for tests
		PoolSize:    2,
		DialTimeout: 2 * time.Second,
	}, zap.NewNop())
	if err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}
	return r
}

func TestNewRedis_Unreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), &config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		PoolSize:    1,
		DialTimeout: 200 * time.Millisecond,
	}, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestGeocodeKey(t *testing.T) {
	assert.Equal(t, "geocode:aspen, usa", GeocodeKey("  Aspen, USA "))
	assert.Equal(t, GeocodeKey("ASPEN, usa"), GeocodeKey("aspen, USA"))
}

func TestCacheRepository_Geocode(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	repo := NewCacheRepository(r)
	ctx := context.Background()
	query := "Test Town, Testland"
	defer r.Client().Del(ctx, GeocodeKey(query))

	// miss
	coords, err := repo.GetGeocode(ctx, query)
	require.NoError(t, err)
	assert.Nil(t, coords)

	require.NoError(t, repo.SetGeocode(ctx, query, domain.Coordinates{Lon: -106.8, Lat: 39.2}, time.Minute))

	coords, err = repo.GetGeocode(ctx, "test town, testland")
	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.Equal(t, -106.8, coords.Lon)
	assert.Equal(t, 39.2, coords.Lat)
}

func TestCacheRepository_GetSetDelete(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	repo := NewCacheRepository(r)
	ctx := context.Background()
	key := "test:cache:key"

	require.NoError(t, repo.Set(ctx, key, []byte("value"), time.Minute))

	val, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	require.NoError(t, repo.Delete(ctx, key))

	val, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val)
}
