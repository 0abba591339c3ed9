package handler

import (
	"context"
	"time"

	"misterhr/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const healthCheckTimeout = 2 * time.Second

type contextPinger interface {
	Ping(ctx context.Context) error
}

type pinger interface {
	Ping() error
}

type HealthHandler struct {
	db    contextPinger
	cache contextPinger
	queue pinger
}

// NewHealthHandler accepts nil dependencies; nil checks report "disabled".
func NewHealthHandler(db, cache contextPinger, queue pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, queue: queue}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{
		"database": checkContextPinger(ctx, h.db),
		"cache":    checkContextPinger(ctx, h.cache),
		"queue":    checkPinger(h.queue),
	}

	status := "ok"
	code := fiber.StatusOK
	for _, state := range checks {
		if state != "ok" && state != "disabled" {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			break
		}
	}

	data := map[string]any{
		"status": status,
		"checks": checks,
	}
	return response.Success(c, code, status, data)
}

func checkContextPinger(ctx context.Context, p contextPinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

func checkPinger(p pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(); err != nil {
		return err.Error()
	}
	return "ok"
}
