package handler

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/logger"
)

// DraftService defines the single draft slot.
type DraftService interface {
	SaveDraft(ctx context.Context, data json.RawMessage) error
	GetDraft(ctx context.Context) (json.RawMessage, error)
	ClearDraft(ctx context.Context) error
}

// DraftResponse wraps the saved form data; Draft is null when nothing is saved.
type DraftResponse struct {
	Draft json.RawMessage `json:"draft"`
}

type Draft struct {
	service DraftService
	logger  *logger.Logger
}

func NewDraft(service DraftService, logger *logger.Logger) *Draft {
	return &Draft{service: service, logger: logger}
}

func (h *Draft) Get(c *fiber.Ctx) error {
	data, err := h.service.GetDraft(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(DraftResponse{Draft: data})
}

// Save stores the request body verbatim; any JSON value is accepted.
func (h *Draft) Save(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return apierror.NewErrValidation("Invalid draft", "draft must be valid JSON")
	}

	// fasthttp reuses the request buffer after the handler returns.
	data := json.RawMessage(append([]byte(nil), body...))
	if err := h.service.SaveDraft(c.UserContext(), data); err != nil {
		return err
	}
	return c.JSON(DraftResponse{Draft: data})
}

func (h *Draft) Clear(c *fiber.Ctx) error {
	if err := h.service.ClearDraft(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
