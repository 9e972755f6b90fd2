package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	carriers "shipgrid/internal/features/carriers/domain"
	pincodeports "shipgrid/internal/features/pincode/ports"
	"shipgrid/internal/features/rates/domain"
	"shipgrid/internal/features/rates/ports"
	zones "shipgrid/internal/features/zones/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver maps pincodes to regions.
type fakeResolver struct {
	regions map[int]zones.Region
}

func (f *fakeResolver) Resolve(_ context.Context, pincode int) (zones.Region, error) {
	region, ok := f.regions[pincode]
	if !ok {
		return zones.Region{}, pincodeports.ErrPincodeNotFound
	}
	return region, nil
}

// fakeChecker drives serviceability per carrier. Carriers in the block set
// hang until the context is canceled.
type fakeChecker struct {
	serviceable map[string]bool
	failing     map[string]bool
	blocking    map[string]bool

	mu          sync.Mutex
	lastWeight  float64
	lastPayment domain.PaymentMode
}

func (f *fakeChecker) IsServiceable(ctx context.Context, carrierID string, _, _ int, weightKg float64, paymentMode domain.PaymentMode) (bool, error) {
	f.mu.Lock()
	f.lastWeight = weightKg
	f.lastPayment = paymentMode
	f.mu.Unlock()

	if f.blocking[carrierID] {
		<-ctx.Done()
		return false, ctx.Err()
	}
	if f.failing[carrierID] {
		return false, errors.New("carrier api down")
	}
	return f.serviceable[carrierID], nil
}

// fakePlanStore serves the same plan for every carrier.
type fakePlanStore struct {
	plans map[string]domain.Plan
}

func (f *fakePlanStore) Plan(_ context.Context, carrierID string) (domain.Plan, error) {
	plan, ok := f.plans[carrierID]
	if !ok {
		return domain.Plan{}, ports.ErrPlanNotFound
	}
	return plan, nil
}

// fakeOverrideStore keys overrides by seller and carrier.
type fakeOverrideStore struct {
	overrides map[string]*domain.Override
}

func (f *fakeOverrideStore) Override(_ context.Context, sellerID, carrierID string) (*domain.Override, error) {
	o, ok := f.overrides[sellerID+":"+carrierID]
	if !ok {
		return nil, ports.ErrOverrideNotFound
	}
	return o, nil
}

func testRegions() map[int]zones.Region {
	return map[int]zones.Region{
		411001: {District: "Pune", State: "Maharashtra"},
		411045: {District: "Pune", State: "Maharashtra"},
		400001: {District: "Mumbai", State: "Maharashtra"},
		560001: {District: "Bangalore Urban", State: "Karnataka"},
	}
}

func testPlan(carrierID string, base float64) domain.Plan {
	return domain.Plan{
		CarrierID: carrierID,
		ZoneRates: map[zones.Zone]domain.Rate{
			zones.ZoneA: {Base: base, Increment: 10},
			zones.ZoneB: {Base: base + 10, Increment: 12},
			zones.ZoneD: {Base: base + 40, Increment: 20},
		},
		WeightSlabKg:      0.5,
		WeightIncrementKg: 1,
		CODFee:            domain.CODFee{Flat: 30, Percent: 1.5},
	}
}

type calcDeps struct {
	resolver  *fakeResolver
	checker   *fakeChecker
	plans     *fakePlanStore
	overrides *fakeOverrideStore
}

func allServiceableDeps() calcDeps {
	return calcDeps{
		resolver: &fakeResolver{regions: testRegions()},
		checker: &fakeChecker{
			serviceable: map[string]bool{
				carriers.CarrierSmartship: true,
				carriers.CarrierDelhivery: true,
				carriers.CarrierBluedart:  true,
			},
			failing:  map[string]bool{},
			blocking: map[string]bool{},
		},
		plans: &fakePlanStore{plans: map[string]domain.Plan{
			carriers.CarrierSmartship: testPlan(carriers.CarrierSmartship, 40),
			carriers.CarrierDelhivery: testPlan(carriers.CarrierDelhivery, 45),
			carriers.CarrierBluedart:  testPlan(carriers.CarrierBluedart, 35),
		}},
		overrides: &fakeOverrideStore{overrides: map[string]*domain.Override{}},
	}
}

func newTestCalculator(d calcDeps, cfg CalculatorConfig) *Calculator {
	c := NewCalculator(d.resolver, d.checker, d.plans, d.overrides, carriers.DefaultRegistry(), cfg, nil)
	c.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	}
	return c
}

func sameCityShipment() domain.Shipment {
	return domain.Shipment{
		SellerID:        "seller-1",
		PickupPincode:   411001,
		DeliveryPincode: 411045,
		WeightKg:        2.5,
		PaymentMode:     domain.PaymentModePrepaid,
	}
}

func quoteFor(t *testing.T, quotes []domain.Quote, carrierID string) domain.Quote {
	t.Helper()
	for _, q := range quotes {
		if q.CarrierID == carrierID {
			return q
		}
	}
	t.Fatalf("no quote for carrier %s", carrierID)
	return domain.Quote{}
}

// TestCalculator_ComputeQuotes_SameCityScenario verifies the worked zone A example.
func TestCalculator_ComputeQuotes_SameCityScenario(t *testing.T) {
	calc := newTestCalculator(allServiceableDeps(), CalculatorConfig{})

	quotes, err := calc.ComputeQuotes(context.Background(), sameCityShipment())

	require.NoError(t, err)
	require.Len(t, quotes, 3)

	q := quoteFor(t, quotes, carriers.CarrierSmartship)
	assert.Equal(t, zones.ZoneA, q.Zone)
	// 40 base + ceil((2.5-0.5)/1) * 10 = 60.
	assert.InDelta(t, 60.0, q.BaseCharge, 1e-9)
	assert.Zero(t, q.CODCharge)
	assert.InDelta(t, 60.0, q.TotalCharge, 1e-9)
}

// TestCalculator_ComputeQuotes_RankedAscending verifies quotes sort by total charge.
func TestCalculator_ComputeQuotes_RankedAscending(t *testing.T) {
	calc := newTestCalculator(allServiceableDeps(), CalculatorConfig{})

	quotes, err := calc.ComputeQuotes(context.Background(), sameCityShipment())

	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, carriers.CarrierBluedart, quotes[0].CarrierID)
	for i := 1; i < len(quotes); i++ {
		assert.GreaterOrEqual(t, quotes[i].TotalCharge, quotes[i-1].TotalCharge)
	}
}

// TestCalculator_ComputeQuotes_CODFee verifies the COD charge rides on top of freight.
func TestCalculator_ComputeQuotes_CODFee(t *testing.T) {
	calc := newTestCalculator(allServiceableDeps(), CalculatorConfig{})

	shipment := sameCityShipment()
	shipment.PaymentMode = domain.PaymentModeCOD
	shipment.CollectableAmount = 5000

	quotes, err := calc.ComputeQuotes(context.Background(), shipment)

	require.NoError(t, err)
	q := quoteFor(t, quotes, carriers.CarrierSmartship)
	// 1.5% of 5000 = 75 beats the 30 flat floor.
	assert.InDelta(t, 75.0, q.CODCharge, 1e-9)
	assert.InDelta(t, 135.0, q.TotalCharge, 1e-9)
}

// TestCalculator_ComputeQuotes_OverrideDivergence verifies seller overrides
// only change that seller's pricing.
func TestCalculator_ComputeQuotes_OverrideDivergence(t *testing.T) {
	deps := allServiceableDeps()
	deps.overrides.overrides["seller-1:"+carriers.CarrierSmartship] = &domain.Override{
		SellerID:  "seller-1",
		CarrierID: carriers.CarrierSmartship,
		ZoneRates: map[zones.Zone]domain.Rate{
			zones.ZoneA: {Base: 25, Increment: 5},
		},
	}
	calc := newTestCalculator(deps, CalculatorConfig{})

	withOverride, err := calc.ComputeQuotes(context.Background(), sameCityShipment())
	require.NoError(t, err)

	other := sameCityShipment()
	other.SellerID = "seller-2"
	withoutOverride, err := calc.ComputeQuotes(context.Background(), other)
	require.NoError(t, err)

	// 25 + 2*5 = 35 for the overridden seller, 60 on the default plan.
	assert.InDelta(t, 35.0, quoteFor(t, withOverride, carriers.CarrierSmartship).BaseCharge, 1e-9)
	assert.InDelta(t, 60.0, quoteFor(t, withoutOverride, carriers.CarrierSmartship).BaseCharge, 1e-9)
}

// TestCalculator_ComputeQuotes_ReverseFilter verifies reverse shipments drop
// carriers without reverse pickup support.
func TestCalculator_ComputeQuotes_ReverseFilter(t *testing.T) {
	calc := newTestCalculator(allServiceableDeps(), CalculatorConfig{})

	shipment := sameCityShipment()
	shipment.Reverse = true

	quotes, err := calc.ComputeQuotes(context.Background(), shipment)

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	for _, q := range quotes {
		assert.NotEqual(t, carriers.CarrierBluedart, q.CarrierID)
	}
}

// TestCalculator_ComputeQuotes_FailingCarrierExcluded verifies a carrier API
// failure excludes only that carrier.
func TestCalculator_ComputeQuotes_FailingCarrierExcluded(t *testing.T) {
	deps := allServiceableDeps()
	deps.checker.failing[carriers.CarrierDelhivery] = true
	calc := newTestCalculator(deps, CalculatorConfig{})

	quotes, err := calc.ComputeQuotes(context.Background(), sameCityShipment())

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	for _, q := range quotes {
		assert.NotEqual(t, carriers.CarrierDelhivery, q.CarrierID)
	}
}

// TestCalculator_ComputeQuotes_SlowCarrierExcluded verifies a hanging carrier
// check does not block the other quotes.
func TestCalculator_ComputeQuotes_SlowCarrierExcluded(t *testing.T) {
	deps := allServiceableDeps()
	deps.checker.blocking[carriers.CarrierBluedart] = true
	calc := newTestCalculator(deps, CalculatorConfig{
		CarrierTimeout:  20 * time.Millisecond,
		OverallDeadline: time.Second,
	})

	quotes, err := calc.ComputeQuotes(context.Background(), sameCityShipment())

	require.NoError(t, err)
	require.Len(t, quotes, 2)
}

// TestCalculator_ComputeQuotes_NoCarrierServiceable verifies an empty quote
// list is a valid, non-error result.
func TestCalculator_ComputeQuotes_NoCarrierServiceable(t *testing.T) {
	deps := allServiceableDeps()
	deps.checker.serviceable = map[string]bool{}
	calc := newTestCalculator(deps, CalculatorConfig{})

	quotes, err := calc.ComputeQuotes(context.Background(), sameCityShipment())

	require.NoError(t, err)
	assert.Empty(t, quotes)
}

// TestCalculator_ComputeQuotes_MissingZoneRate verifies a plan hole excludes
// that carrier but quotes the rest.
func TestCalculator_ComputeQuotes_MissingZoneRate(t *testing.T) {
	deps := allServiceableDeps()
	plan := deps.plans.plans[carriers.CarrierSmartship]
	delete(plan.ZoneRates, zones.ZoneA)
	calc := newTestCalculator(deps, CalculatorConfig{})

	quotes, err := calc.ComputeQuotes(context.Background(), sameCityShipment())

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	for _, q := range quotes {
		assert.NotEqual(t, carriers.CarrierSmartship, q.CarrierID)
	}
}

// TestCalculator_ComputeQuotes_UnknownPincode verifies pincode resolution fails fast.
func TestCalculator_ComputeQuotes_UnknownPincode(t *testing.T) {
	calc := newTestCalculator(allServiceableDeps(), CalculatorConfig{})

	shipment := sameCityShipment()
	shipment.DeliveryPincode = 999999

	_, err := calc.ComputeQuotes(context.Background(), shipment)

	assert.ErrorIs(t, err, pincodeports.ErrPincodeNotFound)
}

// TestCalculator_ComputeQuotes_ExpectedPickup verifies the cutoff comparison.
func TestCalculator_ComputeQuotes_ExpectedPickup(t *testing.T) {
	calc := newTestCalculator(allServiceableDeps(), CalculatorConfig{})
	// 14:30: past smartship's 14:00 cutoff, before delhivery's 16:00.
	calc.now = func() time.Time {
		return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	}

	quotes, err := calc.ComputeQuotes(context.Background(), sameCityShipment())

	require.NoError(t, err)
	assert.Equal(t, "Tomorrow", quoteFor(t, quotes, carriers.CarrierSmartship).ExpectedPickup)
	assert.Equal(t, "Today", quoteFor(t, quotes, carriers.CarrierDelhivery).ExpectedPickup)
}

// TestCalculator_ComputeQuotes_CandidateCarriers verifies the request can
// narrow the carrier set.
func TestCalculator_ComputeQuotes_CandidateCarriers(t *testing.T) {
	calc := newTestCalculator(allServiceableDeps(), CalculatorConfig{})

	shipment := sameCityShipment()
	shipment.CandidateCarriers = []string{carriers.CarrierDelhivery}

	quotes, err := calc.ComputeQuotes(context.Background(), shipment)

	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, carriers.CarrierDelhivery, quotes[0].CarrierID)
}

// TestCalculator_ComputeQuotes_VolumetricWeight verifies bulky parcels price
// on volumetric weight.
func TestCalculator_ComputeQuotes_VolumetricWeight(t *testing.T) {
	calc := newTestCalculator(allServiceableDeps(), CalculatorConfig{})

	shipment := sameCityShipment()
	shipment.WeightKg = 0.4
	shipment.Dimensions = domain.Dimensions{
		Length: 30, Width: 25, Height: 20,
		Unit: domain.DimensionUnitCm,
	}

	quotes, err := calc.ComputeQuotes(context.Background(), shipment)

	require.NoError(t, err)
	q := quoteFor(t, quotes, carriers.CarrierSmartship)
	assert.InDelta(t, 3.0, q.BillableWeightKg, 1e-9)
	// 40 base + ceil((3-0.5)/1)*10 = 70.
	assert.InDelta(t, 70.0, q.BaseCharge, 1e-9)
}

// TestCalculator_ComputeQuotes_CheckerSeesWeightAndPayment verifies the
// serviceability check carries the billable weight and payment mode, so
// carriers with weight caps or no-COD lanes can decline.
func TestCalculator_ComputeQuotes_CheckerSeesWeightAndPayment(t *testing.T) {
	deps := allServiceableDeps()
	calc := newTestCalculator(deps, CalculatorConfig{})

	shipment := sameCityShipment()
	shipment.PaymentMode = domain.PaymentModeCOD
	shipment.CollectableAmount = 1000
	shipment.CandidateCarriers = []string{carriers.CarrierSmartship}
	shipment.WeightKg = 0.4
	shipment.Dimensions = domain.Dimensions{
		Length: 30, Width: 25, Height: 20,
		Unit: domain.DimensionUnitCm,
	}

	_, err := calc.ComputeQuotes(context.Background(), shipment)
	require.NoError(t, err)

	deps.checker.mu.Lock()
	defer deps.checker.mu.Unlock()
	// The volumetric weight, not the dead weight, is what the carrier caps on.
	assert.InDelta(t, 3.0, deps.checker.lastWeight, 1e-9)
	assert.Equal(t, domain.PaymentModeCOD, deps.checker.lastPayment)
}

// TestCalculator_DrainQuotes verifies quotes already delivered when the
// deadline fires are kept rather than discarded.
func TestCalculator_DrainQuotes(t *testing.T) {
	results := make(chan *domain.Quote, 3)
	results <- &domain.Quote{CarrierID: carriers.CarrierSmartship, TotalCharge: 60}
	results <- nil
	results <- &domain.Quote{CarrierID: carriers.CarrierBluedart, TotalCharge: 55}

	quotes := drainQuotes(results, []domain.Quote{
		{CarrierID: carriers.CarrierDelhivery, TotalCharge: 65},
	})

	require.Len(t, quotes, 3)
	assert.Equal(t, carriers.CarrierSmartship, quotes[1].CarrierID)
	assert.Equal(t, carriers.CarrierBluedart, quotes[2].CarrierID)
}
