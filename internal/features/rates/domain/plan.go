package domain

import (
	"errors"
	"fmt"
	"math"

	zones "shipgrid/internal/features/zones/domain"
)

// ErrZoneRateMissing is returned when a plan has no rate for the computed zone.
var ErrZoneRateMissing = errors.New("plan has no rate for zone")

// Rate is the per-zone price pair of a pricing plan.
type Rate struct {
	// Base is the charge for the first weight slab.
	Base float64 `json:"base"`
	// Increment is the charge per additional weight increment.
	Increment float64 `json:"increment"`
}

// CODFee is the cash-on-delivery fee rule of a pricing plan.
type CODFee struct {
	// Flat is the minimum COD fee.
	Flat float64 `json:"flat"`
	// Percent is applied to the collectable amount, e.g. 1.5 means 1.5%.
	Percent float64 `json:"percent"`
}

// Charge returns the COD fee for a collectable amount: the greater of the
// flat fee and the percentage fee.
func (f CODFee) Charge(collectable float64) float64 {
	return math.Max(f.Flat, f.Percent/100*collectable)
}

// Plan is a carrier's pricing table.
type Plan struct {
	// CarrierID identifies the carrier the plan belongs to.
	CarrierID string `json:"carrier_id"`
	// ZoneRates maps each shipping zone to its price pair.
	ZoneRates map[zones.Zone]Rate `json:"zone_rates"`
	// WeightSlabKg is the weight covered by the base price.
	WeightSlabKg float64 `json:"weight_slab_kg"`
	// WeightIncrementKg is the step size for weight above the slab.
	WeightIncrementKg float64 `json:"weight_increment_kg"`
	// CODFee is the cash-on-delivery fee rule.
	CODFee CODFee `json:"cod_fee"`
}

// Override is a seller-specific replacement for parts of a carrier's plan.
// Zone rates replace the default table wholesale; the remaining fields fall
// back to the default plan when nil.
type Override struct {
	// SellerID owns the override.
	SellerID string `json:"seller_id"`
	// CarrierID is the carrier the override applies to.
	CarrierID string `json:"carrier_id"`
	// ZoneRates replaces the default zone-rate table entirely.
	ZoneRates map[zones.Zone]Rate `json:"zone_rates"`
	// WeightSlabKg overrides the default slab when set.
	WeightSlabKg *float64 `json:"weight_slab_kg,omitempty"`
	// WeightIncrementKg overrides the default increment when set.
	WeightIncrementKg *float64 `json:"weight_increment_kg,omitempty"`
	// CODFee overrides the default COD rule when set.
	CODFee *CODFee `json:"cod_fee,omitempty"`
}

// Merge returns the plan with the override applied. A nil override returns
// the plan unchanged.
func (p Plan) Merge(o *Override) Plan {
	if o == nil {
		return p
	}
	if o.ZoneRates != nil {
		p.ZoneRates = o.ZoneRates
	}
	if o.WeightSlabKg != nil {
		p.WeightSlabKg = *o.WeightSlabKg
	}
	if o.WeightIncrementKg != nil {
		p.WeightIncrementKg = *o.WeightIncrementKg
	}
	if o.CODFee != nil {
		p.CODFee = *o.CODFee
	}
	return p
}

// BaseCharge prices a billable weight in the given zone.
func (p Plan) BaseCharge(zone zones.Zone, billableKg float64) (float64, error) {
	rate, ok := p.ZoneRates[zone]
	if !ok {
		return 0, fmt.Errorf("carrier %s zone %s: %w", p.CarrierID, zone, ErrZoneRateMissing)
	}

	billable := math.Max(billableKg, p.WeightSlabKg)
	extra := billable - p.WeightSlabKg
	units := 0.0
	if extra > 0 && p.WeightIncrementKg > 0 {
		// ceil, not round: a partial increment is charged as a full one.
		units = math.Ceil(extra / p.WeightIncrementKg)
	}
	return rate.Base + units*rate.Increment, nil
}
