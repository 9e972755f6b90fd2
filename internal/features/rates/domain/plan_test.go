package domain

import (
	"testing"

	zones "shipgrid/internal/features/zones/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPlan() Plan {
	return Plan{
		CarrierID: "smartship",
		ZoneRates: map[zones.Zone]Rate{
			zones.ZoneA: {Base: 40, Increment: 10},
			zones.ZoneB: {Base: 50, Increment: 12},
			zones.ZoneD: {Base: 80, Increment: 20},
		},
		WeightSlabKg:      0.5,
		WeightIncrementKg: 1,
		CODFee:            CODFee{Flat: 30, Percent: 1.5},
	}
}

// TestPlan_BaseCharge_SlabScenario verifies the worked in-city pricing example.
func TestPlan_BaseCharge_SlabScenario(t *testing.T) {
	plan := defaultPlan()

	// 2.5 kg over a 0.5 kg slab with 1 kg increments: 2 extra units.
	charge, err := plan.BaseCharge(zones.ZoneA, 2.5)

	require.NoError(t, err)
	assert.InDelta(t, 60.0, charge, 1e-9)
}

// TestPlan_BaseCharge_WithinSlab verifies weights inside the slab pay only the base.
func TestPlan_BaseCharge_WithinSlab(t *testing.T) {
	plan := defaultPlan()

	charge, err := plan.BaseCharge(zones.ZoneA, 0.3)

	require.NoError(t, err)
	assert.InDelta(t, 40.0, charge, 1e-9)
}

// TestPlan_BaseCharge_PartialIncrementRoundsUp verifies ceil semantics for partial increments.
func TestPlan_BaseCharge_PartialIncrementRoundsUp(t *testing.T) {
	plan := defaultPlan()

	// 0.6 kg is 0.1 kg over the slab: still one full increment.
	charge, err := plan.BaseCharge(zones.ZoneA, 0.6)

	require.NoError(t, err)
	assert.InDelta(t, 50.0, charge, 1e-9)
}

// TestPlan_BaseCharge_Monotonic verifies the charge never decreases with weight.
func TestPlan_BaseCharge_Monotonic(t *testing.T) {
	plan := defaultPlan()

	prev := 0.0
	for w := 0.1; w <= 10.0; w += 0.1 {
		charge, err := plan.BaseCharge(zones.ZoneD, w)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, charge, prev, "weight %.1f", w)
		prev = charge
	}
}

// TestPlan_BaseCharge_MissingZone verifies an absent zone rate is an error.
func TestPlan_BaseCharge_MissingZone(t *testing.T) {
	plan := defaultPlan()

	_, err := plan.BaseCharge(zones.ZoneE, 1.0)

	assert.ErrorIs(t, err, ErrZoneRateMissing)
}

// TestCODFee_Charge_Floor verifies the COD fee is the max of flat and percent.
func TestCODFee_Charge_Floor(t *testing.T) {
	fee := CODFee{Flat: 30, Percent: 1.5}

	// Percent fee below the flat floor.
	assert.InDelta(t, 30.0, fee.Charge(1000), 1e-9)
	// Percent fee above the flat floor: 1.5% of 5000 = 75.
	assert.InDelta(t, 75.0, fee.Charge(5000), 1e-9)
}

// TestPlan_Merge_ZoneRatesReplaceWholesale verifies override tables are not merged per zone.
func TestPlan_Merge_ZoneRatesReplaceWholesale(t *testing.T) {
	plan := defaultPlan()
	override := &Override{
		SellerID:  "seller-1",
		CarrierID: "smartship",
		ZoneRates: map[zones.Zone]Rate{
			zones.ZoneA: {Base: 35, Increment: 8},
		},
	}

	merged := plan.Merge(override)

	assert.Equal(t, Rate{Base: 35, Increment: 8}, merged.ZoneRates[zones.ZoneA])
	// The default table's other zones do not survive the replacement.
	_, ok := merged.ZoneRates[zones.ZoneB]
	assert.False(t, ok)
	// Non-overridden fields fall back to the default plan.
	assert.InDelta(t, 0.5, merged.WeightSlabKg, 1e-9)
	assert.Equal(t, CODFee{Flat: 30, Percent: 1.5}, merged.CODFee)
}

// TestPlan_Merge_OptionalFields verifies supplied slab and COD values win over defaults.
func TestPlan_Merge_OptionalFields(t *testing.T) {
	plan := defaultPlan()
	slab := 1.0
	override := &Override{
		SellerID:     "seller-1",
		CarrierID:    "smartship",
		WeightSlabKg: &slab,
		CODFee:       &CODFee{Flat: 20, Percent: 1},
	}

	merged := plan.Merge(override)

	assert.InDelta(t, 1.0, merged.WeightSlabKg, 1e-9)
	assert.Equal(t, CODFee{Flat: 20, Percent: 1}, merged.CODFee)
	// Zone rates stay untouched when the override carries none.
	assert.Equal(t, plan.ZoneRates, merged.ZoneRates)
}

// TestPlan_Merge_Nil verifies a nil override leaves the plan unchanged.
func TestPlan_Merge_Nil(t *testing.T) {
	plan := defaultPlan()

	assert.Equal(t, plan, plan.Merge(nil))
}

// TestShipment_BillableWeightKg verifies volumetric weight wins when heavier.
func TestShipment_BillableWeightKg(t *testing.T) {
	s := Shipment{
		WeightKg: 1.0,
		Dimensions: Dimensions{
			Length: 30, Width: 25, Height: 20,
			Unit: DimensionUnitCm,
		},
	}

	// 30*25*20 / 5000 = 3 kg volumetric.
	assert.InDelta(t, 3.0, s.BillableWeightKg(), 1e-9)

	s.WeightKg = 5.0
	assert.InDelta(t, 5.0, s.BillableWeightKg(), 1e-9)
}

// TestDimensions_VolumetricWeightKg_Meters verifies the metric divisor.
func TestDimensions_VolumetricWeightKg_Meters(t *testing.T) {
	d := Dimensions{Length: 0.5, Width: 0.4, Height: 0.3, Unit: DimensionUnitM}

	// 0.06 m3 / 5 = 0.012 kg... the divisor differs per unit.
	assert.InDelta(t, 0.012, d.VolumetricWeightKg(), 1e-9)
}

// TestDimensions_VolumetricWeightKg_Empty verifies missing dimensions contribute nothing.
func TestDimensions_VolumetricWeightKg_Empty(t *testing.T) {
	assert.Zero(t, Dimensions{}.VolumetricWeightKg())
}
