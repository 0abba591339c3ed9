package handler

import (
	"errors"

	"misterhr/internal/delivery/http/middleware"
	"misterhr/internal/pkg/response"
	"misterhr/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

type applyRequest struct {
	ResumeID uuid.UUID `json:"resume_id"`
	JobID    uuid.UUID `json:"job_id"`
	Tone     string    `json:"tone"`
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Apply)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.ResumeID == uuid.Nil || req.JobID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "resume_id and job_id are required", nil, nil)
	}

	app, err := h.uc.Apply(c.Context(), usecase.ApplyInput{
		UserID:   userID,
		ResumeID: req.ResumeID,
		JobID:    req.JobID,
		Tone:     req.Tone,
	})
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "application created", app)
}

func (h *ApplicationHandler) List(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	apps, err := h.uc.List(c.Context(), userID, limit, offset)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, apps)
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	app, err := h.uc.Get(c.Context(), id, userID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, app)
}

func mapApplicationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvalidTone):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid tone", nil, err)
	case errors.Is(err, usecase.ErrUnreadableUpload):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Resume text is empty", nil, err)
	case errors.Is(err, usecase.ErrDescriptionTooShort):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Job description too short to analyze", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
