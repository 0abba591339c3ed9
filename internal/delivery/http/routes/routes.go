package routes

import (
	"misterhr/internal/delivery/http/handler"
	"misterhr/internal/delivery/http/middleware"
	"misterhr/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health       *handler.HealthHandler
	auth         *handler.AuthHandler
	resumes      *handler.ResumeHandler
	jobs         *handler.JobHandler
	match        *handler.MatchHandler
	applications *handler.ApplicationHandler
	batches      *handler.BatchHandler
	agents       *handler.AgentHandler
	progress     *ws.Handler
	authMw       *middleware.AuthMiddleware
}

func NewRegistry(
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	resumes *handler.ResumeHandler,
	jobs *handler.JobHandler,
	match *handler.MatchHandler,
	applications *handler.ApplicationHandler,
	batches *handler.BatchHandler,
	agents *handler.AgentHandler,
	progress *ws.Handler,
	authMw *middleware.AuthMiddleware,
) *Registry {
	return &Registry{
		health:       health,
		auth:         auth,
		resumes:      resumes,
		jobs:         jobs,
		match:        match,
		applications: applications,
		batches:      batches,
		agents:       agents,
		progress:     progress,
		authMw:       authMw,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.progress == nil {
		return
	}
	app.Get("/ws", r.progress.HandleProgressWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	authGroup := v1.Group("/auth")
	r.auth.RegisterRoutes(authGroup)

	protected := v1.Group("", r.authMw.Middleware())

	resumesGroup := protected.Group("/resumes")
	r.resumes.RegisterRoutes(resumesGroup)

	jobsGroup := protected.Group("/jobs")
	r.jobs.RegisterRoutes(jobsGroup)
	r.match.RegisterRoutes(jobsGroup)

	applicationsGroup := protected.Group("/applications")
	r.applications.RegisterRoutes(applicationsGroup)

	batchesGroup := protected.Group("/batches")
	r.batches.RegisterRoutes(batchesGroup)

	agentsGroup := protected.Group("/agents")
	r.agents.RegisterRoutes(agentsGroup)
}
