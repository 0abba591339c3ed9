package handler

import (
	"errors"

	"misterhr/internal/delivery/http/middleware"
	"misterhr/internal/pkg/response"
	"misterhr/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type BatchHandler struct {
	uc usecase.BatchUsecase
}

type createBatchRequest struct {
	JobID     uuid.UUID   `json:"job_id"`
	ResumeIDs []uuid.UUID `json:"resume_ids"`
}

func NewBatchHandler(uc usecase.BatchUsecase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

func (h *BatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
}

// Create queues a batch and returns 202. Scoring happens on the worker,
// progress is streamed over the websocket.
func (h *BatchHandler) Create(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}

	var req createBatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.JobID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "job_id is required", nil, nil)
	}

	batch, err := h.uc.Create(c.Context(), usecase.CreateBatchInput{
		OwnerID:   userID,
		JobID:     req.JobID,
		ResumeIDs: req.ResumeIDs,
	})
	if err != nil {
		return mapBatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, batch)
}

func (h *BatchHandler) List(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	batches, err := h.uc.List(c.Context(), userID, limit, offset)
	if err != nil {
		return mapBatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, batches)
}

func (h *BatchHandler) Get(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	batch, items, err := h.uc.Get(c.Context(), id, userID)
	if err != nil {
		return mapBatchUsecaseError(err)
	}

	data := map[string]any{
		"batch": batch,
		"items": items,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func mapBatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrBatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Batch not found", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrEmptyBatch):
		return middleware.NewAppError(fiber.StatusBadRequest, "At least one resume is required", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
