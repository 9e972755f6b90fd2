package handler

import (
	"errors"
	"net/http"

	"shipgrid/internal/core/logger"
	"shipgrid/internal/features/orders/domain"
	"shipgrid/internal/features/orders/service"
	trackingports "shipgrid/internal/features/tracking/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for order intake.
type OrderHandler struct {
	// service is the OrderIntakeService instance.
	service *service.OrderIntakeService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderIntakeService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// CreateOrder handles the request to register a new shipment.
// @Summary Register an order
// @Description Open a new order in the NEW bucket for tracking and billing.
// @Accept json
// @Produce json
// @Param order body domain.IntakeOrder true "Order details"
// @Success 201 {object} tracking.Order
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	var intake domain.IntakeOrder
	if err := c.BodyParser(&intake); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	order, err := h.service.Create(c.Context(), intake)
	if err != nil {
		status := http.StatusBadRequest
		msg := err.Error()

		switch {
		case errors.Is(err, trackingports.ErrOrderExists):
			status = http.StatusConflict
			msg = "Order already exists"
		case errors.Is(err, service.ErrUnknownCarrier),
			errors.Is(err, service.ErrReverseNotSupported),
			errors.Is(err, domain.ErrMissingAWB),
			errors.Is(err, domain.ErrMissingSeller),
			errors.Is(err, domain.ErrMissingCarrier),
			errors.Is(err, domain.ErrInvalidPaymentMode),
			errors.Is(err, domain.ErrMissingCODAmount):
			// validation failures keep their own message
		default:
			logger.Get().Error("Failed to register order",
				zap.String("awb", intake.AWB),
				zap.String("ray_id", rayID),
				zap.Error(err),
			)
			status = http.StatusInternalServerError
			msg = "Internal Server Error"
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusCreated).JSON(order)
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
