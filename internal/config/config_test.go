package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]interface{}{
		"JWT_SECRET": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, GeocoderNominatim, cfg.Geocoding.Provider)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoding.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Geocoding.RequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Cache.GeocodeCacheTTL)
	assert.Equal(t, 3, cfg.Worker.MaxRetries)
	assert.False(t, cfg.Geocoding.SkipUnchanged)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password= dbname=wanderlust sslmode=disable",
		cfg.Database.DSN())
}

func TestFromViper_MapboxDefaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]interface{}{
		"JWT_SECRET":            "secret",
		"GEOCODER_PROVIDER":     "Mapbox",
		"GEOCODER_ACCESS_TOKEN": "pk.test",
	}))
	require.NoError(t, err)
	assert.Equal(t, GeocoderMapbox, cfg.Geocoding.Provider)
	assert.Equal(t, "https://api.mapbox.com", cfg.Geocoding.BaseURL)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
		errMsg string
	}{
		{
			name:   "missing jwt secret",
			values: map[string]interface{}{},
			errMsg: "JWT_SECRET",
		},
		{
			name:   "unknown storage driver",
			values: map[string]interface{}{"JWT_SECRET": "s", "STORAGE_DRIVER": "sqlite"},
			errMsg: "STORAGE_DRIVER",
		},
		{
			name:   "mapbox without token",
			values: map[string]interface{}{"JWT_SECRET": "s", "GEOCODER_PROVIDER": "mapbox"},
			errMsg: "GEOCODER_ACCESS_TOKEN",
		},
		{
			name:   "zero timeout",
			values: map[string]interface{}{"JWT_SECRET": "s", "GEOCODER_TIMEOUT_MS": 0},
			errMsg: "GEOCODER_TIMEOUT_MS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := fromViper(newTestViper(tt.values))
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
