package domain

import (
	"errors"
	"strings"
)

// Zone represents the pricing tier of a route.
type Zone string

const (
	// ZoneA covers within-city shipments (same district).
	ZoneA Zone = "A"
	// ZoneB covers within-state shipments.
	ZoneB Zone = "B"
	// ZoneC covers metro-to-metro shipments.
	ZoneC Zone = "C"
	// ZoneD covers the rest of India.
	ZoneD Zone = "D"
	// ZoneE covers North-East and hill-state shipments.
	ZoneE Zone = "E"
)

// ErrRegionNotFound is returned when either end of a route is unresolved.
// Classification never silently defaults to a zone.
var ErrRegionNotFound = errors.New("region not found")

// Region is a resolved (district, state) pair for one end of a route.
type Region struct {
	// District is the administrative district of the pincode.
	District string `json:"district"`
	// State is the state of the pincode.
	State string `json:"state"`
}

// IsZero reports whether the region is unresolved.
func (r Region) IsZero() bool {
	return r.District == "" && r.State == ""
}

// metroDistricts are the metro cities that qualify a route for Zone C.
var metroDistricts = map[string]bool{
	"mumbai":    true,
	"delhi":     true,
	"new delhi": true,
	"kolkata":   true,
	"chennai":   true,
	"bengaluru": true,
	"bangalore": true,
	"hyderabad": true,
	"ahmedabad": true,
	"pune":      true,
}

// specialStates are the North-East and hill states that force Zone E.
var specialStates = map[string]bool{
	"arunachal pradesh": true,
	"assam":             true,
	"manipur":           true,
	"meghalaya":         true,
	"mizoram":           true,
	"nagaland":          true,
	"sikkim":            true,
	"tripura":           true,
	"jammu and kashmir": true,
	"himachal pradesh":  true,
	"ladakh":            true,
	"andaman and nicobar islands": true,
}

// Classify maps a (pickup, delivery) region pair to a pricing zone.
// The checks are ordered; the first match wins:
//  1. Same district            -> Zone A
//  2. Same state               -> Zone B
//  3. Both districts metro     -> Zone C
//  4. Either state special     -> Zone E
//  5. Otherwise                -> Zone D
func Classify(pickup, delivery Region) (Zone, error) {
	if pickup.IsZero() || delivery.IsZero() {
		return "", ErrRegionNotFound
	}

	pd := normalize(pickup.District)
	dd := normalize(delivery.District)
	ps := normalize(pickup.State)
	ds := normalize(delivery.State)

	switch {
	case pd == dd:
		return ZoneA, nil
	case ps == ds:
		return ZoneB, nil
	case metroDistricts[pd] && metroDistricts[dd]:
		return ZoneC, nil
	case specialStates[ps] || specialStates[ds]:
		return ZoneE, nil
	default:
		return ZoneD, nil
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
