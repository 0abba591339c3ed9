package handler

import (
	"errors"
	"io"

	"misterhr/internal/delivery/http/middleware"
	"misterhr/internal/pkg/response"
	"misterhr/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// maxUploadSize caps resume uploads at 10 MiB.
const maxUploadSize = 10 << 20

type ResumeHandler struct {
	uc usecase.ResumeUsecase
}

func NewResumeHandler(uc usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/:id/enrich", h.Enrich)
	r.Delete("/:id", h.Delete)
}

// Upload accepts either a multipart "file" field or a JSON body with a
// raw "text" field.
func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}

	filename, data, err := uploadPayload(c)
	if err != nil {
		return err
	}

	resume, enrichment, err := h.uc.Upload(c.Context(), usecase.UploadResumeInput{
		UserID:   userID,
		Filename: filename,
		Data:     data,
	})
	if err != nil {
		return mapResumeUsecaseError(err)
	}

	payload := map[string]any{"resume": resume}
	if enrichment != nil {
		payload["enrichment"] = enrichment
	}
	return response.Success(c, fiber.StatusCreated, "resume uploaded", payload)
}

func uploadPayload(c fiber.Ctx) (filename string, data []byte, err error) {
	fileHeader, err := c.FormFile("file")
	if err == nil {
		if fileHeader.Size > maxUploadSize {
			return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "File too large", nil, nil)
		}
		file, err := fileHeader.Open()
		if err != nil {
			return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
		if err != nil {
			return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
		}
		return fileHeader.Filename, data, nil
	}

	var req struct {
		Filename string `json:"filename"`
		Text     string `json:"text"`
	}
	if err := c.Bind().Body(&req); err != nil || req.Text == "" {
		return "", nil, middleware.NewAppError(fiber.StatusBadRequest, "Missing file or text", nil, err)
	}
	if req.Filename == "" {
		req.Filename = "resume.txt"
	}
	return req.Filename, []byte(req.Text), nil
}

func (h *ResumeHandler) Enrich(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	resume, enrichment, err := h.uc.Enrich(c.Context(), id, userID)
	if err != nil {
		return mapResumeUsecaseError(err)
	}

	data := map[string]any{
		"resume":     resume,
		"enrichment": enrichment,
	}
	return response.Success(c, fiber.StatusOK, "resume enriched", data)
}

func (h *ResumeHandler) List(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	resumes, err := h.uc.List(c.Context(), userID, limit, offset)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, resumes)
}

func (h *ResumeHandler) Get(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	resume, err := h.uc.Get(c.Context(), id, userID)
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, resume)
}

func (h *ResumeHandler) Delete(c fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), id, userID); err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func mapResumeUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnsupportedUpload):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unsupported file format", nil, err)
	case errors.Is(err, usecase.ErrUnreadableUpload):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Could not extract text from file", nil, err)
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrResumeNotParsed):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Resume has not been parsed yet", nil, err)
	case errors.Is(err, usecase.ErrNothingToEnrich):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "No online presence to enrich from", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
