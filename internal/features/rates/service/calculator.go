package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"shipgrid/internal/core/logger"
	"shipgrid/internal/core/metrics"
	carriers "shipgrid/internal/features/carriers/domain"
	pincodeports "shipgrid/internal/features/pincode/ports"
	"shipgrid/internal/features/rates/domain"
	"shipgrid/internal/features/rates/ports"
	zones "shipgrid/internal/features/zones/domain"

	"go.uber.org/zap"
)

// exclusion reasons recorded on the carrier exclusion counter.
const (
	reasonNotServiceable  = "not_serviceable"
	reasonCheckFailed     = "check_failed"
	reasonNoReversePickup = "no_reverse_pickup"
	reasonPlanMissing     = "plan_missing"
	reasonZoneRateMissing = "zone_rate_missing"
	reasonDeadline        = "deadline"
)

// CalculatorConfig holds the quoting timeouts.
type CalculatorConfig struct {
	// CarrierTimeout bounds each carrier's serviceability check.
	CarrierTimeout time.Duration
	// OverallDeadline bounds the whole quote computation; carriers that
	// have not answered by then are dropped, not waited for.
	OverallDeadline time.Duration
}

// Calculator produces ranked carrier quotes for a shipment.
type Calculator struct {
	resolver  pincodeports.Resolver
	checker   ports.ServiceabilityChecker
	plans     ports.PlanStore
	overrides ports.OverrideStore
	registry  []carriers.Carrier
	cfg       CalculatorConfig
	metrics   *metrics.AppMetrics
	logger    *zap.Logger
	// now is replaceable in tests to pin the pickup cutoff comparison.
	now func() time.Time
}

// NewCalculator creates a Calculator. The metrics argument may be nil.
func NewCalculator(
	resolver pincodeports.Resolver,
	checker ports.ServiceabilityChecker,
	plans ports.PlanStore,
	overrides ports.OverrideStore,
	registry []carriers.Carrier,
	cfg CalculatorConfig,
	m *metrics.AppMetrics,
) *Calculator {
	if cfg.CarrierTimeout <= 0 {
		cfg.CarrierTimeout = 2 * time.Second
	}
	if cfg.OverallDeadline <= 0 {
		cfg.OverallDeadline = 5 * time.Second
	}

	return &Calculator{
		resolver:  resolver,
		checker:   checker,
		plans:     plans,
		overrides: overrides,
		registry:  registry,
		cfg:       cfg,
		metrics:   m,
		logger:    logger.Get().Named("rates"),
		now:       time.Now,
	}
}

// ComputeQuotes prices a shipment across all candidate carriers and returns
// the quotes ranked by total charge, cheapest first. An empty list is a valid
// result meaning no carrier services the route.
//
// Pincode resolution fails fast; per-carrier work runs concurrently and a
// slow or failing carrier only excludes itself.
func (c *Calculator) ComputeQuotes(ctx context.Context, shipment domain.Shipment) ([]domain.Quote, error) {
	pickup, err := c.resolver.Resolve(ctx, shipment.PickupPincode)
	if err != nil {
		return nil, fmt.Errorf("resolve pickup pincode: %w", err)
	}
	delivery, err := c.resolver.Resolve(ctx, shipment.DeliveryPincode)
	if err != nil {
		return nil, fmt.Errorf("resolve delivery pincode: %w", err)
	}

	zone, err := zones.Classify(pickup, delivery)
	if err != nil {
		return nil, fmt.Errorf("classify route zone: %w", err)
	}

	candidates := c.candidates(shipment)
	billable := shipment.BillableWeightKg()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.OverallDeadline)
	defer cancel()

	results := make(chan *domain.Quote, len(candidates))
	for _, carrier := range candidates {
		carrier := carrier
		go func() {
			quote := c.quoteCarrier(ctx, carrier, shipment, zone, billable)
			select {
			case results <- quote:
			case <-ctx.Done():
			}
		}()
	}

	quotes := make([]domain.Quote, 0, len(candidates))
	for range candidates {
		select {
		case quote := <-results:
			if quote != nil {
				quotes = append(quotes, *quote)
			}
		case <-ctx.Done():
			// The deadline hit: keep whatever completed, including quotes
			// already sitting in the buffer.
			quotes = drainQuotes(results, quotes)
			c.logger.Warn("quote deadline reached with carriers pending",
				zap.Int("completed", len(quotes)),
				zap.Int("candidates", len(candidates)),
			)
			c.exclude("pending", reasonDeadline)
			return c.rank(quotes), nil
		}
	}

	return c.rank(quotes), nil
}

// drainQuotes empties already-delivered results without blocking.
func drainQuotes(results <-chan *domain.Quote, quotes []domain.Quote) []domain.Quote {
	for {
		select {
		case quote := <-results:
			if quote != nil {
				quotes = append(quotes, *quote)
			}
		default:
			return quotes
		}
	}
}

// candidates narrows the carrier registry to the shipment's candidate list
// and applies the reverse-pickup hard filter.
func (c *Calculator) candidates(shipment domain.Shipment) []carriers.Carrier {
	requested := make(map[string]bool, len(shipment.CandidateCarriers))
	for _, id := range shipment.CandidateCarriers {
		requested[id] = true
	}

	out := make([]carriers.Carrier, 0, len(c.registry))
	for _, carrier := range c.registry {
		if len(requested) > 0 && !requested[carrier.ID] {
			continue
		}
		if shipment.Reverse && !carrier.SupportsReversePickup {
			c.exclude(carrier.ID, reasonNoReversePickup)
			continue
		}
		out = append(out, carrier)
	}
	return out
}

// quoteCarrier runs one carrier's serviceability check and pricing. A nil
// return means the carrier is excluded; exclusions are logged and counted,
// never propagated.
func (c *Calculator) quoteCarrier(ctx context.Context, carrier carriers.Carrier, shipment domain.Shipment, zone zones.Zone, billable float64) *domain.Quote {
	checkCtx, cancel := context.WithTimeout(ctx, c.cfg.CarrierTimeout)
	defer cancel()

	serviceable, err := c.checker.IsServiceable(checkCtx, carrier.ID, shipment.PickupPincode, shipment.DeliveryPincode, billable, shipment.PaymentMode)
	if err != nil {
		// A failing or timed-out check is "not serviceable", not fatal.
		c.logger.Warn("serviceability check failed",
			zap.String("carrier", carrier.ID),
			zap.Error(err),
		)
		c.exclude(carrier.ID, reasonCheckFailed)
		return nil
	}
	if !serviceable {
		c.exclude(carrier.ID, reasonNotServiceable)
		return nil
	}

	plan, err := c.plans.Plan(ctx, carrier.ID)
	if err != nil {
		c.logger.Warn("pricing plan unavailable",
			zap.String("carrier", carrier.ID),
			zap.Error(err),
		)
		c.exclude(carrier.ID, reasonPlanMissing)
		return nil
	}

	override, err := c.overrides.Override(ctx, shipment.SellerID, carrier.ID)
	if err != nil && !errors.Is(err, ports.ErrOverrideNotFound) {
		c.logger.Warn("override lookup failed, pricing on default plan",
			zap.String("carrier", carrier.ID),
			zap.String("seller", shipment.SellerID),
			zap.Error(err),
		)
	}
	plan = plan.Merge(override)

	base, err := plan.BaseCharge(zone, billable)
	if err != nil {
		c.logger.Warn("carrier excluded from quote",
			zap.String("carrier", carrier.ID),
			zap.String("zone", string(zone)),
			zap.Error(err),
		)
		c.exclude(carrier.ID, reasonZoneRateMissing)
		return nil
	}

	cod := 0.0
	if shipment.PaymentMode == domain.PaymentModeCOD {
		cod = plan.CODFee.Charge(shipment.CollectableAmount)
	}

	pickup := "Today"
	if carrier.CutoffPassed(c.now()) {
		pickup = "Tomorrow"
	}

	return &domain.Quote{
		CarrierID:        carrier.ID,
		CarrierName:      carrier.Name,
		Zone:             zone,
		BillableWeightKg: billable,
		BaseCharge:       base,
		CODCharge:        cod,
		TotalCharge:      base + cod,
		ExpectedPickup:   pickup,
	}
}

// rank sorts quotes by total charge ascending and records the count.
func (c *Calculator) rank(quotes []domain.Quote) []domain.Quote {
	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].TotalCharge < quotes[j].TotalCharge
	})
	if c.metrics != nil {
		c.metrics.QuotesComputedTotal.Add(float64(len(quotes)))
	}
	return quotes
}

func (c *Calculator) exclude(carrierID, reason string) {
	if c.metrics != nil {
		c.metrics.CarrierExclusionsTotal.WithLabelValues(carrierID, reason).Inc()
	}
}
