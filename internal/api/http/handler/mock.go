package handler

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/invitekeeper/internal/apierror"
	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
	"github.com/dtroode/invitekeeper/internal/service"
)

// mockCoverImage is returned instead of the uploaded cover.
const mockCoverImage = "/placeholder.svg?height=800&width=600"

// Mock serves canned and echoed responses for front-end development. Nothing
// it receives is persisted.
type Mock struct {
	tokens model.TokenManager
	logger *logger.Logger
	now    func() time.Time
}

// NewMock creates a Mock handler. tokens issues and checks the mock bearer
// tokens; it should produce the mock_token_ format.
func NewMock(tokens model.TokenManager, logger *logger.Logger) *Mock {
	return &Mock{tokens: tokens, logger: logger, now: time.Now}
}

// MockInfo describes the mock invite API.
type MockInfo struct {
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Endpoints map[string]string `json:"endpoints"`
}

func (h *Mock) Info(c *fiber.Ctx) error {
	return c.JSON(MockInfo{
		Message:   "Mock API is working",
		Timestamp: model.FormatTime(h.now()),
		Endpoints: map[string]string{
			"POST": "/api/mock/invites - Create invite",
			"GET":  "/api/mock/invites/[id] - Get invite by ID",
		},
	})
}

// CreateInvite echoes the multipart data field back as a created invite.
func (h *Mock) CreateInvite(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apierror.NewErrValidation("Missing data field", "")
	}
	data := form.Value[dataField]
	if len(data) == 0 || data[0] == "" {
		return apierror.NewErrValidation("Missing data field", "")
	}

	var req model.CreateInviteRequest
	if err := json.Unmarshal([]byte(data[0]), &req); err != nil {
		return apierror.NewErrValidation("Invalid data field", "data field must be a JSON object")
	}

	id := uuid.NewString()
	now := h.now()
	ts := model.FormatTime(now)
	cover := mockCoverImage

	config := req.Config
	if config.InviteID == "" {
		config.InviteID = id
	}

	h.logger.Debug("Mock handler: invite echoed", "id", id, "name", req.Name, "files", len(form.File[coverImageField]))

	return c.JSON(model.Invite{
		HostID:          model.DefaultUserID,
		Name:            req.Name,
		CoverImageMedia: &cover,
		StartDatetime:   req.StartDatetime,
		Nights:          req.Nights,
		LocationName:    req.LocationName,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		PlaceID:         req.PlaceID,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		Tags:            orEmpty(req.Tags),
		ID:              id,
		CreatedAt:       ts,
		UpdatedAt:       ts,
		Host:            service.DefaultUser(now),
		Config:          config,
		Category:        model.Category{Name: model.DefaultCategoryName, ID: req.CategoryID},
		CustomLinks:     orEmpty(req.CustomLinks),
	})
}

// GetInvite returns the same sample invite for any id.
func (h *Mock) GetInvite(c *fiber.Ctx) error {
	return c.JSON(sampleInvite(c.Params("id")))
}

func (h *Mock) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return apierror.NewErrValidation("Missing credentials", "Email and password are required")
	}
	if len(req.Password) < model.MinPasswordLength {
		return apierror.NewErrAuthenticationFailed()
	}

	return h.issue(c, service.NameFromEmail(req.Email), req.Email)
}

func (h *Mock) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apierror.NewErrValidation("Missing required fields", "Name, email, and password are required")
	}
	if err := service.ValidateRegistration(req); err != nil {
		return err
	}

	return h.issue(c, req.Name, req.Email)
}

func (h *Mock) Logout(c *fiber.Ctx) error {
	if _, ok := mockBearer(c); !ok {
		return apierror.NewErrMissingAuthorizationToken()
	}
	return c.JSON(LogoutResponse{Success: true, Message: "Logged out successfully"})
}

// GetProfile accepts any token of the mock format.
func (h *Mock) GetProfile(c *fiber.Ctx) error {
	token, ok := mockBearer(c)
	if !ok {
		return apierror.NewErrMissingAuthorizationToken()
	}
	if err := h.tokens.Validate(token); err != nil {
		return apierror.NewErrInvalidAuthorizationToken()
	}

	return c.JSON(h.user("Demo User", "user@example.com"))
}

// UpdateProfile echoes name and email without checking the token format.
func (h *Mock) UpdateProfile(c *fiber.Ctx) error {
	if _, ok := mockBearer(c); !ok {
		return apierror.NewErrMissingAuthorizationToken()
	}

	var update model.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return apierror.NewErrValidation("Invalid request body", "request body must be a JSON object")
	}

	name, email := "Updated User", "updated@example.com"
	if update.Name != nil && *update.Name != "" {
		name = *update.Name
	}
	if update.Email != nil && *update.Email != "" {
		email = *update.Email
	}
	return c.JSON(h.user(name, email))
}

func (h *Mock) issue(c *fiber.Ctx, name, email string) error {
	user := h.user(name, email)
	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(model.AuthResult{Token: token, User: user})
}

func (h *Mock) user(name, email string) model.User {
	ts := model.FormatTime(h.now())
	return model.User{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		OftenUserID: rand.IntN(10000),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func mockBearer(c *fiber.Ctx) (string, bool) {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	return token, ok
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func sampleInvite(id string) model.Invite {
	const (
		hostCreated   = "2025-05-21T12:40:21.704500Z"
		inviteCreated = "2025-05-21T12:50:05.783341Z"
		categoryID    = "1a80a229-1ad6-405c-accc-28e38e1f2ecc"
	)

	return model.Invite{
		HostID:        model.DefaultUserID,
		Name:          "Weekend Mountain Retreat",
		StartDatetime: "2025-09-15T16:00:00Z",
		Nights:        3,
		LocationName:  "Big Bear Lake",
		LocationLat:   "34.2439",
		LocationLng:   "-116.9114",
		PlaceID:       "ChIJK-3PGidLx4ARh3QjD1zV8Wk",
		CategoryID:    categoryID,
		Description:   "Join us for a relaxing weekend in the mountains with hiking and stargazing!",
		Tags:          []string{},
		ID:            id,
		CreatedAt:     inviteCreated,
		UpdatedAt:     inviteCreated,
		Host: model.User{
			Name:        "Melissa Rivera",
			Email:       "user1@example.com",
			ID:          model.DefaultUserID,
			OftenUserID: model.DefaultUserOftenUserID,
			CreatedAt:   hostCreated,
			UpdatedAt:   hostCreated,
		},
		Config: model.InviteConfig{
			InviteID:       id,
			Capacity:       12,
			EnableWaitlist: true,
			GuestApproval:  true,
			IsPublic:       false,
			PasswordKey:    "mountain2025",
			Status:         model.InviteStatusDraft,
			IsTicker:       true,
			TickerText:     "🏔 Mountain Retreat • Sep 15-18, 2025",
			PlaceName:      "Bear Mountain Resort",
			Rules:          []string{"No pets allowed", "Bring your own hiking gear", "Quiet hours after 11pm"},
		},
		Category: model.Category{Name: "Social", ID: categoryID},
		CustomLinks: []model.CustomLink{
			{Emoji: "🏡", Label: "Cabin Details", URL: "https://cabins.example.com/details"},
			{Emoji: "🥾", Label: "Hiking Trails", URL: "https://trails.example.com/bigbear"},
			{Emoji: "🧳", Label: "Packing List", URL: "https://docs.example.com/packing"},
		},
	}
}
