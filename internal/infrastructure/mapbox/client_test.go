package mapbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/listing-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Lookup(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/geocoding/v5/mapbox.places/Aspen, USA.json", r.URL.Path)
			assert.Equal(t, "test_token", r.URL.Query().Get("access_token"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"type":"FeatureCollection","features":[{"place_name":"Aspen, Colorado, United States","center":[-106.8,39.2],"relevance":1}]}`))
		}))
		defer server.Close()

		cfg := &config.GeocodingConfig{
			AccessToken: "test_token",
			BaseURL:     server.URL,
		}

		client := NewMapboxClient(cfg, logger)
		assert.Equal(t, "mapbox", client.Name())

		result, err := client.Lookup(context.Background(), "Aspen, USA")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, -106.8, result.Lon)
		assert.Equal(t, 39.2, result.Lat)
	})

	t.Run("no features", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
		}))
		defer server.Close()

		client := NewMapboxClient(&config.GeocodingConfig{AccessToken: "t", BaseURL: server.URL}, logger)

		result, err := client.Lookup(context.Background(), "Nowhere")
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty query", func(t *testing.T) {
		client := NewMapboxClient(&config.GeocodingConfig{AccessToken: "t", BaseURL: "https://api.mapbox.com"}, logger)

		result, err := client.Lookup(context.Background(), "  ")
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("api error response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
		}))
		defer server.Close()

		client := NewMapboxClient(&config.GeocodingConfig{AccessToken: "bad", BaseURL: server.URL}, logger)

		result, err := client.Lookup(context.Background(), "Aspen, USA")
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("malformed center", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"features":[{"center":[1]}]}`))
		}))
		defer server.Close()

		client := NewMapboxClient(&config.GeocodingConfig{AccessToken: "t", BaseURL: server.URL}, logger)

		result, err := client.Lookup(context.Background(), "Aspen, USA")
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
