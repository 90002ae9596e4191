package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/model"
)

// APIVersion is reported by the health endpoint.
const APIVersion = "1.0.0"

type HealthResponse struct {
	Status      string         `json:"status"`
	Timestamp   string         `json:"timestamp"`
	Version     string         `json:"version"`
	Environment string         `json:"environment"`
	API         HealthAPI      `json:"api"`
	Features    HealthFeatures `json:"features"`
}

type HealthAPI struct {
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

type HealthFeatures struct {
	Authentication  bool `json:"authentication"`
	FileUpload      bool `json:"file_upload"`
	RealTimeUpdates bool `json:"real_time_updates"`
}

type Health struct {
	environment string
	now         func() time.Time
}

func NewHealth(environment string) *Health {
	return &Health{environment: environment, now: time.Now}
}

// Check always reports healthy; it is never cached by clients.
func (h *Health) Check(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")

	return c.JSON(HealthResponse{
		Status:      "healthy",
		Timestamp:   model.FormatTime(h.now()),
		Version:     APIVersion,
		Environment: h.environment,
		API: HealthAPI{
			Status: "operational",
			Endpoints: map[string]string{
				"invites": "/api/v1/invites",
				"auth":    "/api/v1/auth",
				"health":  "/api/health",
			},
		},
		Features: HealthFeatures{
			Authentication:  true,
			FileUpload:      true,
			RealTimeUpdates: false,
		},
	})
}
