package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// AuthService defines session operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResult, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (model.User, error)
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.User, error)
}

// LogoutResponse confirms a finished session.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Auth handles /auth endpoints.
type Auth struct {
	service        AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuth(service AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{service: service, contextManager: contextManager, logger: logger}
}

func (h *Auth) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apierror.NewErrValidation("Invalid request body", "request body must be a JSON object")
	}

	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *Auth) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apierror.NewErrValidation("Invalid request body", "request body must be a JSON object")
	}

	result, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *Auth) Logout(c *fiber.Ctx) error {
	if err := h.requireToken(c); err != nil {
		return err
	}

	if err := h.service.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(LogoutResponse{Success: true, Message: "Logged out successfully"})
}

func (h *Auth) GetProfile(c *fiber.Ctx) error {
	if err := h.requireToken(c); err != nil {
		return err
	}

	user, err := h.service.GetProfile(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *Auth) UpdateProfile(c *fiber.Ctx) error {
	if err := h.requireToken(c); err != nil {
		return err
	}

	var update model.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return apierror.NewErrValidation("Invalid request body", "request body must be a JSON object")
	}

	user, err := h.service.UpdateProfile(c.UserContext(), update)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// requireToken fails when the route was mounted without the authenticate
// middleware.
func (h *Auth) requireToken(c *fiber.Ctx) error {
	if _, ok := h.contextManager.GetTokenFromContext(c.UserContext()); !ok {
		h.logger.Warn("Auth handler: no token in context", "path", c.Path())
		return apierror.NewErrMissingAuthorizationToken()
	}
	return nil
}
