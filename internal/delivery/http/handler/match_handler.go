package handler

import (
	"errors"

	"misterhr/internal/delivery/http/middleware"
	"misterhr/internal/pkg/response"
	"misterhr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

// RegisterRoutes attaches the match route to the jobs group.
func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:job_id/match/:resume_id", h.Run)
}

func (h *MatchHandler) Run(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "job_id")
	if err != nil {
		return err
	}
	resumeID, err := uuidParam(c, "resume_id")
	if err != nil {
		return err
	}

	result, err := h.uc.Run(c.Context(), usecase.MatchInput{
		UserID:   userID,
		ResumeID: resumeID,
		JobID:    jobID,
	})
	if err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, result)
}

func mapMatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrResumeNotParsed):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Resume has not been parsed yet", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
