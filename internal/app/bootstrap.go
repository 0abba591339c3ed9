package app

import (
	"context"
	"fmt"
	"strings"

	"misterhr/internal/config"
	"misterhr/internal/delivery/http/handler"
	"misterhr/internal/delivery/http/middleware"
	"misterhr/internal/delivery/http/routes"
	"misterhr/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, the fiber app and every route. The
// returned cleanup closes all connections.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: 12 << 20,
	})

	registerGlobalMiddleware(f, container)
	registerRoutes(f, container)

	go container.Hub.Run()

	app := &App{Fiber: f, Container: container}
	return app, container.Close, nil
}

func registerGlobalMiddleware(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
}

func registerRoutes(f *fiber.App, c *Container) {
	if f == nil {
		return
	}

	health := handler.NewHealthHandler(c.DB, c.Cache, nil)
	if c.Queue != nil {
		health = handler.NewHealthHandler(c.DB, c.Cache, c.Queue)
	}

	registry := routes.NewRegistry(
		health,
		handler.NewAuthHandler(c.AuthUC),
		handler.NewResumeHandler(c.ResumeUC),
		handler.NewJobHandler(c.JobUC),
		handler.NewMatchHandler(c.MatchingUC),
		handler.NewApplicationHandler(c.ApplicationUC),
		handler.NewBatchHandler(c.BatchUC),
		handler.NewAgentHandler(c.Orchestrator),
		ws.NewHandler(c.Hub, c.JWT, c.Logger),
		middleware.NewAuthMiddleware(c.JWT),
	)
	registry.Register(f)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
