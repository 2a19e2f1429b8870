package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ads-activity-tracker/internal/service"
)

type SyncController interface {
	TriggerSync(c *fiber.Ctx) error
	ListRuns(c *fiber.Ctx) error
}

// syncController exposes HTTP handlers around the sync runner.
type syncController struct {
	runner *service.Runner
}

// NewSyncController builds a SyncController.
func NewSyncController(runner *service.Runner) SyncController {
	return &syncController{runner: runner}
}

// TriggerSync runs the full dispatcher pass synchronously and returns the
// per-account results. A run already in flight yields 409.
func (h *syncController) TriggerSync(c *fiber.Ctx) error {
	record, err := h.runner.Run(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "sync run failed")
	}
	return c.JSON(record)
}

// ListRuns returns recent run records, newest first.
func (h *syncController) ListRuns(c *fiber.Ctx) error {
	return c.JSON(h.runner.History())
}
