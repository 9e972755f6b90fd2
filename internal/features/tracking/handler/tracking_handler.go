package handler

import (
	"errors"
	"net/http"

	"shipgrid/internal/core/logger"
	"shipgrid/internal/features/tracking/domain"
	"shipgrid/internal/features/tracking/ports"
	"shipgrid/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TrackingHandler handles HTTP requests related to shipment tracking.
type TrackingHandler struct {
	// store is the order persistence port used for timeline reads.
	store ports.OrderStore
	// normalizer applies lifecycle transitions such as seller cancellation.
	normalizer *service.Normalizer
}

// NewTrackingHandler creates a new instance of TrackingHandler.
func NewTrackingHandler(store ports.OrderStore, n *service.Normalizer) *TrackingHandler {
	return &TrackingHandler{
		store:      store,
		normalizer: n,
	}
}

// TimelineResponse is the seller-facing view of an order's tracking history.
type TimelineResponse struct {
	// AWB is the carrier airway bill number.
	AWB string `json:"awb"`
	// CarrierID identifies the carrier handling the shipment.
	CarrierID string `json:"carrier_id"`
	// CurrentBucket is the canonical lifecycle state of the order.
	CurrentBucket domain.Bucket `json:"current_bucket"`
	// Events is the deduplicated stage history, oldest first.
	Events []domain.StageEvent `json:"events"`
}

// GetTimeline handles the request to retrieve an order's tracking timeline.
// @Summary Get tracking timeline by AWB
// @Description Fetch the canonical bucket and stage history for an order.
// @Accept json
// @Produce json
// @Param awb path string true "Airway bill number"
// @Success 200 {object} TimelineResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{awb}/timeline [get]
func (h *TrackingHandler) GetTimeline(c *fiber.Ctx) error {
	awb := c.Params("awb")

	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	if awb == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "AWB is required",
			RayID:   rayID,
		})
	}

	order, err := h.store.Get(c.Context(), awb)
	if err != nil {
		if errors.Is(err, ports.ErrOrderNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "Order not found",
				RayID:   rayID,
			})
		}

		logger.Get().Error("Failed to fetch order timeline",
			zap.String("awb", awb),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(TimelineResponse{
		AWB:           order.AWB,
		CarrierID:     order.CarrierID,
		CurrentBucket: order.CurrentBucket,
		Events:        order.StageEvents,
	})
}

// CancelOrder handles a seller's request to cancel an order.
// @Summary Cancel an order
// @Description Cancel an order that has not yet reached a terminal state.
// @Accept json
// @Produce json
// @Param awb path string true "Airway bill number"
// @Success 200 {object} TimelineResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{awb}/cancel [post]
func (h *TrackingHandler) CancelOrder(c *fiber.Ctx) error {
	awb := c.Params("awb")

	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	if awb == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "AWB is required",
			RayID:   rayID,
		})
	}

	if err := h.normalizer.CancelOrder(c.Context(), awb); err != nil {
		status := http.StatusInternalServerError
		msg := "Internal Server Error"

		switch {
		case errors.Is(err, ports.ErrOrderNotFound):
			status = http.StatusNotFound
			msg = "Order not found"
		case errors.Is(err, service.ErrOrderClosed):
			status = http.StatusConflict
			msg = "Order already closed"
		default:
			logger.Get().Error("Failed to cancel order",
				zap.String("awb", awb),
				zap.String("ray_id", rayID),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	order, err := h.store.Get(c.Context(), awb)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(TimelineResponse{
		AWB:           order.AWB,
		CarrierID:     order.CarrierID,
		CurrentBucket: order.CurrentBucket,
		Events:        order.StageEvents,
	})
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
