package domain

import (
	"math"

	zones "shipgrid/internal/features/zones/domain"
)

// PaymentMode is how the buyer pays for a shipment.
type PaymentMode string

const (
	PaymentModeCOD     PaymentMode = "COD"
	PaymentModePrepaid PaymentMode = "PREPAID"
)

// DimensionUnit is the unit box dimensions are expressed in.
type DimensionUnit string

const (
	DimensionUnitCm DimensionUnit = "cm"
	DimensionUnitM  DimensionUnit = "m"
)

// volumetric divisors per dimension unit.
const (
	volumetricDivisorCm = 5000
	volumetricDivisorM  = 5
)

// Dimensions is the shipment box size.
type Dimensions struct {
	Length float64       `json:"length"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Unit   DimensionUnit `json:"unit"`
}

// VolumetricWeightKg converts the box volume to a chargeable weight.
func (d Dimensions) VolumetricWeightKg() float64 {
	volume := d.Length * d.Width * d.Height
	if volume <= 0 {
		return 0
	}
	if d.Unit == DimensionUnitM {
		return volume / volumetricDivisorM
	}
	return volume / volumetricDivisorCm
}

// Shipment is a rate-quote request for a single parcel.
type Shipment struct {
	// SellerID selects pricing overrides.
	SellerID string `json:"seller_id"`
	// PickupPincode is the origin postal code.
	PickupPincode int `json:"pickup_pincode"`
	// DeliveryPincode is the destination postal code.
	DeliveryPincode int `json:"delivery_pincode"`
	// WeightKg is the actual parcel weight in kilograms.
	WeightKg float64 `json:"weight_kg"`
	// Dimensions is the parcel box size, optional.
	Dimensions Dimensions `json:"dimensions"`
	// PaymentMode is COD or PREPAID.
	PaymentMode PaymentMode `json:"payment_mode"`
	// CollectableAmount is the COD amount to collect from the buyer.
	CollectableAmount float64 `json:"collectable_amount"`
	// Reverse marks a return pickup.
	Reverse bool `json:"reverse"`
	// CandidateCarriers limits the carriers considered; empty means all.
	CandidateCarriers []string `json:"candidate_carriers,omitempty"`
}

// BillableWeightKg is the greater of the actual and volumetric weight.
func (s Shipment) BillableWeightKg() float64 {
	return math.Max(s.WeightKg, s.Dimensions.VolumetricWeightKg())
}

// Quote is one carrier's priced offer for a shipment.
type Quote struct {
	// CarrierID identifies the quoted carrier.
	CarrierID string `json:"carrier_id"`
	// CarrierName is the display name of the carrier.
	CarrierName string `json:"carrier_name"`
	// Zone is the classified shipping zone of the route.
	Zone zones.Zone `json:"zone"`
	// BillableWeightKg is the weight the charge was computed on.
	BillableWeightKg float64 `json:"billable_weight_kg"`
	// BaseCharge is the zone freight charge.
	BaseCharge float64 `json:"base_charge"`
	// CODCharge is the cash-on-delivery fee, zero for prepaid.
	CODCharge float64 `json:"cod_charge"`
	// TotalCharge is BaseCharge plus CODCharge.
	TotalCharge float64 `json:"total_charge"`
	// ExpectedPickup is "Today" or "Tomorrow" based on the carrier cutoff.
	ExpectedPickup string `json:"expected_pickup"`
}
