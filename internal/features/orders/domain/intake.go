package domain

import (
	"errors"

	tracking "shipgrid/internal/features/tracking/domain"
)

var (
	ErrMissingAWB         = errors.New("awb is required")
	ErrMissingSeller      = errors.New("seller id is required")
	ErrMissingCarrier     = errors.New("carrier id is required")
	ErrInvalidPaymentMode = errors.New("payment mode must be COD or PREPAID")
	ErrMissingCODAmount   = errors.New("cod orders need a collectable amount")
)

// IntakeOrder is a seller's request to register a shipment for tracking
// and billing.
type IntakeOrder struct {
	// AWB is the carrier airway bill number assigned at booking.
	AWB string `json:"awb"`
	// SellerID is the seller the order belongs to.
	SellerID string `json:"seller_id"`
	// CarrierID is the carrier assigned to the shipment.
	CarrierID string `json:"carrier_id"`
	// PaymentMode is COD or PREPAID.
	PaymentMode string `json:"payment_mode"`
	// AmountToCollect is the COD amount, zero for prepaid.
	AmountToCollect float64 `json:"amount_to_collect"`
	// Reverse marks a return shipment.
	Reverse bool `json:"reverse"`
}

// Validate checks the intake fields before an order is created.
func (o IntakeOrder) Validate() error {
	if o.AWB == "" {
		return ErrMissingAWB
	}
	if o.SellerID == "" {
		return ErrMissingSeller
	}
	if o.CarrierID == "" {
		return ErrMissingCarrier
	}
	if o.PaymentMode != tracking.PaymentModeCOD && o.PaymentMode != tracking.PaymentModePrepaid {
		return ErrInvalidPaymentMode
	}
	if o.PaymentMode == tracking.PaymentModeCOD && o.AmountToCollect <= 0 {
		return ErrMissingCODAmount
	}
	return nil
}
