package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// InviteService defines invite operations exposed over HTTP.
type InviteService interface {
	CreateInvite(ctx context.Context, req model.CreateInviteRequest) (model.Invite, error)
	GetInvite(ctx context.Context, id string) (model.Invite, error)
	GetInvites(ctx context.Context, page, limit int) (model.InvitePage, error)
	UpdateInvite(ctx context.Context, id string, req model.UpdateInviteRequest) (model.Invite, error)
	DeleteInvite(ctx context.Context, id string) error
	PublishInvite(ctx context.Context, id string) (model.Invite, error)
	GetCover(ctx context.Context, id string) (model.MediaFile, error)
}

// Invite handles /invites endpoints.
type Invite struct {
	service InviteService
	logger  *logger.Logger
}

func NewInvite(service InviteService, logger *logger.Logger) *Invite {
	return &Invite{service: service, logger: logger}
}

// Create accepts either multipart (data + cover_image) or a JSON body.
func (h *Invite) Create(c *fiber.Ctx) error {
	var req model.CreateInviteRequest
	media, release, err := decodeInvitePayload(c, &req)
	defer release()
	if err != nil {
		return err
	}
	req.CoverImageMedia = media

	h.logger.Debug("Invite handler: processing create request", "name", req.Name, "has_media", media != nil)

	invite, err := h.service.CreateInvite(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(invite)
}

// List returns a page of invites. Missing or malformed page and limit fall
// back to the service defaults.
func (h *Invite) List(c *fiber.Ctx) error {
	page, err := h.service.GetInvites(c.UserContext(), c.QueryInt("page"), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *Invite) Get(c *fiber.Ctx) error {
	invite, err := h.service.GetInvite(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(invite)
}

func (h *Invite) Update(c *fiber.Ctx) error {
	var req model.UpdateInviteRequest
	media, release, err := decodeInvitePayload(c, &req)
	defer release()
	if err != nil {
		return err
	}
	req.CoverImageMedia = media

	invite, err := h.service.UpdateInvite(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(invite)
}

func (h *Invite) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteInvite(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Invite) Publish(c *fiber.Ctx) error {
	invite, err := h.service.PublishInvite(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(invite)
}

// Cover streams the decoded cover image. Unknown sizes are sent chunked.
func (h *Invite) Cover(c *fiber.Ctx) error {
	file, err := h.service.GetCover(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.SendStream(file.Reader, int(file.Size))
}
