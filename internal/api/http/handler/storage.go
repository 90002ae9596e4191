package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/invitekeeper/internal/logger"
	"github.com/dtroode/invitekeeper/internal/model"
)

// StorageService reports on and maintains the key-value backend.
type StorageService interface {
	GetStorageInfo(ctx context.Context) (model.StorageInfo, error)
	ClearAllData(ctx context.Context) error
	RepairIndex(ctx context.Context) (model.RepairReport, error)
}

type Storage struct {
	service StorageService
	logger  *logger.Logger
}

func NewStorage(service StorageService, logger *logger.Logger) *Storage {
	return &Storage{service: service, logger: logger}
}

func (h *Storage) Info(c *fiber.Ctx) error {
	info, err := h.service.GetStorageInfo(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(info)
}

// Clear wipes every key, including the session.
func (h *Storage) Clear(c *fiber.Ctx) error {
	if err := h.service.ClearAllData(c.UserContext()); err != nil {
		return err
	}
	h.logger.Info("Storage handler: all data cleared", "client", c.IP())
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Storage) Repair(c *fiber.Ctx) error {
	report, err := h.service.RepairIndex(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(report)
}
