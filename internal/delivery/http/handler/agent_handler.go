package handler

import (
	"misterhr/internal/agent"
	"misterhr/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// agentReporter exposes per-agent status. Satisfied by
// agent.Orchestrator.
type agentReporter interface {
	AgentHealth() map[string]agent.Health
	AgentMetrics() map[string]agent.MetricsSnapshot
}

type AgentHandler struct {
	reporter agentReporter
}

func NewAgentHandler(reporter agentReporter) *AgentHandler {
	return &AgentHandler{reporter: reporter}
}

func (h *AgentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
	r.Get("/metrics", h.Metrics)
}

func (h *AgentHandler) Health(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.reporter.AgentHealth())
}

func (h *AgentHandler) Metrics(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.reporter.AgentMetrics())
}
