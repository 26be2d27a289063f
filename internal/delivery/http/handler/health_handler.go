package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthCheck - проверка доступности зависимости
type HealthCheck func(ctx context.Context) error

// HealthHandler - liveness и состояние подключённых зависимостей
type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthHandler - создание нового HealthHandler
func NewHealthHandler(checks map[string]HealthCheck, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// HealthResponse - ответ health check
type HealthResponse struct {
	Status       string            `json:"status"`
	Time         time.Time         `json:"time"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Health godoc
// @Summary Health check
// @Description Состояние сервиса и его зависимостей (storage, redis)
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status: "healthy",
		Time:   time.Now(),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		resp.Dependencies = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Dependencies[name] = "unavailable"
			resp.Status = "degraded"
			continue
		}
		resp.Dependencies[name] = "ok"
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
