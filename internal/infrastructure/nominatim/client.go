package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/listing-service/internal/config"
	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// searchResult - элемент ответа /search?format=json. Координаты приходят строками.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewClient создает клиент OpenStreetMap Nominatim.
// Таймаут запроса задаётся контекстом вызывающей стороны.
func NewClient(cfg *config.GeocodingConfig, logger *zap.Logger) repository.GeocodingProvider {
	return &client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
}

func (c *client) Name() string {
	return config.GeocoderNominatim
}

// Lookup ищет лучшее совпадение для адреса. (nil, nil) - совпадений нет.
func (c *client) Lookup(ctx context.Context, query string) (*domain.Coordinates, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	c.logger.Debug("Calling Nominatim search", zap.String("query", query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		// Nominatim usage policy requires an identifying User-Agent
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("nominatim API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}

	c.logger.Debug("Nominatim match",
		zap.String("query", query),
		zap.String("display_name", results[0].DisplayName),
		zap.Float64("lon", lon),
		zap.Float64("lat", lat))

	return &domain.Coordinates{Lon: lon, Lat: lat}, nil
}
