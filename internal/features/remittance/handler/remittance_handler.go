package handler

import (
	"errors"
	"net/http"
	"time"

	"shipgrid/internal/core/logger"
	"shipgrid/internal/features/remittance/domain"
	"shipgrid/internal/features/remittance/ports"
	"shipgrid/internal/features/remittance/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RemittanceHandler handles HTTP requests for COD payout roll-ups.
type RemittanceHandler struct {
	// aggregator is the remittance aggregation service.
	aggregator *service.Aggregator
	// now is replaceable in tests to pin the cutover.
	now func() time.Time
}

// NewRemittanceHandler creates a new instance of RemittanceHandler.
func NewRemittanceHandler(a *service.Aggregator) *RemittanceHandler {
	return &RemittanceHandler{
		aggregator: a,
		now:        time.Now,
	}
}

// PendingResponse is the seller's unremitted COD total.
type PendingResponse struct {
	// SellerID is the seller the amount belongs to.
	SellerID string `json:"seller_id"`
	// CutoffDate is the Friday boundary the amount settles up to.
	CutoffDate time.Time `json:"cutoff_date"`
	// PendingAmount is the unbatched delivered COD total.
	PendingAmount float64 `json:"pending_amount"`
}

// GetPending handles the request for a seller's pending remittance amount.
// @Summary Get pending remittance
// @Description Sum the seller's delivered COD orders not yet paid out.
// @Accept json
// @Produce json
// @Param id path string true "Seller ID"
// @Success 200 {object} PendingResponse
// @Failure 400 {object} ErrorResponse
// @Router /sellers/{id}/remittance/pending [get]
func (h *RemittanceHandler) GetPending(c *fiber.Ctx) error {
	sellerID := c.Params("id")

	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	if sellerID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Seller ID is required",
			RayID:   rayID,
		})
	}

	asOf := h.now()
	amount, err := h.aggregator.PendingAmount(c.Context(), sellerID, asOf)
	if err != nil {
		logger.Get().Error("Failed to compute pending remittance",
			zap.String("seller_id", sellerID),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(PendingResponse{
		SellerID:      sellerID,
		CutoffDate:    domain.MostRecentFriday(asOf),
		PendingAmount: amount,
	})
}

// CreateBatch handles the request to settle a seller's pending remittance.
// @Summary Create a remittance batch
// @Description Roll the seller's pending COD amount into a payout batch.
// @Accept json
// @Produce json
// @Param id path string true "Seller ID"
// @Success 201 {object} domain.Batch
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sellers/{id}/remittance/batches [post]
func (h *RemittanceHandler) CreateBatch(c *fiber.Ctx) error {
	sellerID := c.Params("id")

	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	if sellerID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Seller ID is required",
			RayID:   rayID,
		})
	}

	batch, err := h.aggregator.CreateBatch(c.Context(), sellerID, h.now())
	if err != nil {
		if errors.Is(err, ports.ErrNothingToRemit) {
			return c.Status(http.StatusConflict).JSON(ErrorResponse{
				Message: "Nothing to remit",
				RayID:   rayID,
			})
		}

		logger.Get().Error("Failed to create remittance batch",
			zap.String("seller_id", sellerID),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusCreated).JSON(batch)
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
