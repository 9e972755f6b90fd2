package handler

import (
	"errors"
	"net/http"

	"shipgrid/internal/core/logger"
	"shipgrid/internal/features/advisories/domain"
	"shipgrid/internal/features/advisories/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdvisoryHandler handles HTTP requests for carrier advisories.
type AdvisoryHandler struct {
	service ports.AdvisoryService
}

// NewAdvisoryHandler creates a new AdvisoryHandler.
func NewAdvisoryHandler(service ports.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{
		service: service,
	}
}

// SetAdvisoryRequest represents the request body for setting an advisory.
type SetAdvisoryRequest struct {
	Message  string          `json:"message"`
	Severity domain.Severity `json:"severity"`
	Duration int             `json:"duration"` // Seconds
}

// SetAdvisory handles POST /carriers/:id/advisory.
// @Summary Set a carrier advisory
// @Description Creates or replaces the advisory shown to sellers for a carrier.
// @Tags Advisory
// @Accept json
// @Produce json
// @Param id path string true "Carrier ID"
// @Param advisory body SetAdvisoryRequest true "Advisory details"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /carriers/{id}/advisory [post]
func (h *AdvisoryHandler) SetAdvisory(c *fiber.Ctx) error {
	var req SetAdvisoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx := c.Context()
	if err := h.service.SetAdvisory(ctx, c.Params("id"), req.Message, req.Severity, req.Duration); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSeverity):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid severity. Must be INFO, WARNING, or DISRUPTION",
			})
		case errors.Is(err, domain.ErrEmptyMessage):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "Message is required",
			})
		case errors.Is(err, ports.ErrUnknownCarrier):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": "Unknown carrier",
			})
		}
		logger.Get().Error("Failed to set advisory", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Advisory set successfully",
	})
}

// GetAdvisory handles GET /carriers/:id/advisory.
// @Summary Get a carrier advisory
// @Description Retrieves the active advisory for a carrier.
// @Tags Advisory
// @Produce json
// @Param id path string true "Carrier ID"
// @Success 200 {object} domain.Advisory
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /carriers/{id}/advisory [get]
func (h *AdvisoryHandler) GetAdvisory(c *fiber.Ctx) error {
	ctx := c.Context()
	advisory, err := h.service.GetAdvisory(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, ports.ErrUnknownCarrier) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": "Unknown carrier",
			})
		}
		logger.Get().Error("Failed to get advisory", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if advisory == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "No active advisory",
		})
	}

	return c.Status(http.StatusOK).JSON(advisory)
}

// RemoveAdvisory handles DELETE /carriers/:id/advisory.
// @Summary Remove a carrier advisory
// @Description Manually clears the active advisory for a carrier.
// @Tags Advisory
// @Produce json
// @Param id path string true "Carrier ID"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /carriers/{id}/advisory [delete]
func (h *AdvisoryHandler) RemoveAdvisory(c *fiber.Ctx) error {
	ctx := c.Context()
	if err := h.service.RemoveAdvisory(ctx, c.Params("id")); err != nil {
		if errors.Is(err, ports.ErrUnknownCarrier) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{
				"error": "Unknown carrier",
			})
		}
		logger.Get().Error("Failed to remove advisory", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Advisory removed successfully",
	})
}
