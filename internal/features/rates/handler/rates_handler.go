package handler

import (
	"errors"
	"net/http"

	"shipgrid/internal/core/logger"
	pincodeports "shipgrid/internal/features/pincode/ports"
	"shipgrid/internal/features/rates/domain"
	"shipgrid/internal/features/rates/service"
	zones "shipgrid/internal/features/zones/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RatesHandler handles HTTP requests for shipment rate quotes.
type RatesHandler struct {
	// calculator is the rate calculation engine.
	calculator *service.Calculator
}

// NewRatesHandler creates a new instance of RatesHandler.
func NewRatesHandler(c *service.Calculator) *RatesHandler {
	return &RatesHandler{
		calculator: c,
	}
}

// QuotesResponse wraps the ranked quote list.
type QuotesResponse struct {
	// Quotes is the priced carrier list, cheapest first. May be empty.
	Quotes []domain.Quote `json:"quotes"`
}

// ComputeQuotes handles a shipment rate-quote request.
// @Summary Compute carrier rate quotes
// @Description Price a shipment across all serviceable carriers, ranked by total charge.
// @Accept json
// @Produce json
// @Param shipment body domain.Shipment true "Shipment to price"
// @Success 200 {object} QuotesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /rates/quotes [post]
func (h *RatesHandler) ComputeQuotes(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	var shipment domain.Shipment
	if err := c.BodyParser(&shipment); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	if shipment.PickupPincode == 0 || shipment.DeliveryPincode == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Pickup and delivery pincodes are required",
			RayID:   rayID,
		})
	}

	if shipment.WeightKg <= 0 && shipment.Dimensions.VolumetricWeightKg() <= 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Shipment weight is required",
			RayID:   rayID,
		})
	}

	quotes, err := h.calculator.ComputeQuotes(c.Context(), shipment)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Internal Server Error"

		switch {
		case errors.Is(err, pincodeports.ErrPincodeNotFound):
			status = http.StatusNotFound
			msg = "Pincode not found"
		case errors.Is(err, zones.ErrRegionNotFound):
			status = http.StatusBadRequest
			msg = "Route cannot be classified"
		default:
			logger.Get().Error("Failed to compute quotes",
				zap.String("seller_id", shipment.SellerID),
				zap.String("ray_id", rayID),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(QuotesResponse{Quotes: quotes})
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
