package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/listing-service/internal/config"
	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	logger      *zap.Logger
}

// placesResponse - ответ Mapbox Geocoding API (mapbox.places)
type placesResponse struct {
	Type     string `json:"type"`
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
		Relevance float64   `json:"relevance"`
	} `json:"features"`
	Message string `json:"message,omitempty"`
}

// NewMapboxClient создает клиент прямого геокодирования Mapbox
func NewMapboxClient(cfg *config.GeocodingConfig, logger *zap.Logger) repository.GeocodingProvider {
	return &client{
		httpClient:  &http.Client{},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		logger:      logger,
	}
}

func (c *client) Name() string {
	return config.GeocoderMapbox
}

// Lookup возвращает координаты лучшего совпадения. center у Mapbox уже в порядке [lon, lat].
func (c *client) Lookup(ctx context.Context, query string) (*domain.Coordinates, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Set("limit", "1")
	params.Set("access_token", c.accessToken)

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL,
		url.PathEscape(query),
		params.Encode(),
	)

	c.logger.Debug("Calling Mapbox Geocoding API", zap.String("query", query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("mapbox API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var places placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(places.Features) == 0 {
		return nil, nil
	}

	center := places.Features[0].Center
	if len(center) != 2 {
		return nil, fmt.Errorf("mapbox API returned malformed center: %v", center)
	}

	c.logger.Debug("Mapbox match",
		zap.String("query", query),
		zap.String("place_name", places.Features[0].PlaceName),
		zap.Float64("relevance", places.Features[0].Relevance))

	return &domain.Coordinates{Lon: center[0], Lat: center[1]}, nil
}
