package domain

import "time"

// Carrier identifiers for the onboarded integrations.
const (
	CarrierSmartship = "smartship"
	CarrierDelhivery = "delhivery"
	CarrierBluedart  = "bluedart"
)

// Carrier is the static record of one onboarded logistics carrier.
type Carrier struct {
	// ID is the stable identifier used to key status tables and pricing plans.
	ID string `json:"id"`
	// Name is the display name of the carrier.
	Name string `json:"name"`
	// SupportsReversePickup marks carriers that can run reverse (return) shipments.
	SupportsReversePickup bool `json:"supports_reverse_pickup"`
	// PickupCutoff is the daily pickup cutoff as "HH:MM" local time.
	// Shipments booked after the cutoff are picked up the next day.
	PickupCutoff string `json:"pickup_cutoff"`
}

// CutoffPassed reports whether the carrier's daily pickup cutoff has passed.
// A malformed cutoff is treated as not passed.
func (c Carrier) CutoffPassed(now time.Time) bool {
	cutoff, err := time.Parse("15:04", c.PickupCutoff)
	if err != nil {
		return false
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	cutoffMinutes := cutoff.Hour()*60 + cutoff.Minute()
	return nowMinutes >= cutoffMinutes
}

// DefaultRegistry returns the onboarded carriers.
func DefaultRegistry() []Carrier {
	return []Carrier{
		{
			ID:                    CarrierSmartship,
			Name:                  "Smartship",
			SupportsReversePickup: true,
			PickupCutoff:          "14:00",
		},
		{
			ID:                    CarrierDelhivery,
			Name:                  "Delhivery",
			SupportsReversePickup: true,
			PickupCutoff:          "16:00",
		},
		{
			ID:                    CarrierBluedart,
			Name:                  "Bluedart",
			SupportsReversePickup: false,
			PickupCutoff:          "13:00",
		},
	}
}
