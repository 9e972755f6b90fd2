package domain

import (
	"sort"
	"strings"
	"time"
)

// PaymentModeCOD marks cash-on-delivery orders; the only other mode is "PREPAID".
const (
	PaymentModeCOD     = "COD"
	PaymentModePrepaid = "PREPAID"
)

// RawStatus is one tracking event as reported by a carrier, before
// normalization. Each carrier populates the fields its vocabulary uses:
// an integer code, a (status, reason) code pair, or a free-text status.
type RawStatus struct {
	// StatusCode is the carrier's numeric status code, 0 when the
	// carrier reports free text.
	StatusCode int `json:"status_code,omitempty"`
	// ReasonCode refines StatusCode for carriers that report pairs; 0 when absent.
	ReasonCode int `json:"reason_code,omitempty"`
	// Status is the carrier's free-text status, empty for code-based carriers.
	Status string `json:"status,omitempty"`
	// Activity is the carrier's scan activity description.
	Activity string `json:"activity,omitempty"`
	// Location is where the scan happened.
	Location string `json:"location,omitempty"`
	// Timestamp is when the physical scan occurred (not when it was polled).
	Timestamp time.Time `json:"timestamp"`
}

// Resolution is the canonical interpretation of one carrier status.
type Resolution struct {
	// Bucket is the canonical lifecycle state the status maps to.
	Bucket Bucket `json:"bucket"`
	// Description is the human-readable description shown to sellers.
	Description string `json:"description"`
}

// StageEvent is one applied entry in an order's lifecycle history.
type StageEvent struct {
	// Bucket is the canonical state this event moved the order to.
	Bucket Bucket `json:"bucket"`
	// Description is the seller-visible description of the event.
	Description string `json:"description"`
	// Activity is the carrier scan activity, kept for dedup identity.
	Activity string `json:"activity,omitempty"`
	// Location is the carrier scan location, kept for dedup identity.
	Location string `json:"location,omitempty"`
	// Action is the carrier's own status text when it reports one,
	// otherwise the resolved description. Kept for dedup identity.
	Action string `json:"action,omitempty"`
	// Timestamp is when the physical scan occurred.
	Timestamp time.Time `json:"timestamp"`
}

// IdentityKey builds the dedup identity of the event. The timestamp is
// deliberately excluded: the same physical scan re-reported seconds later
// by the next poll must still collide.
func (e StageEvent) IdentityKey() string {
	return identityKey(e.Activity, e.Location, e.Action)
}

// Action returns the action component of the dedup identity: the carrier's
// own status text when present, otherwise the resolved description.
func (r RawStatus) Action(description string) string {
	if r.Status != "" {
		return r.Status
	}
	return description
}

// IdentityKey builds the dedup identity of a raw status against a resolved
// description, mirroring StageEvent.IdentityKey.
func (r RawStatus) IdentityKey(description string) string {
	return identityKey(r.Activity, r.Location, r.Action(description))
}

func identityKey(activity, location, action string) string {
	return normalizeField(activity) + "|" + normalizeField(location) + "|" + normalizeField(action)
}

func normalizeField(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Order is the persisted shipment as seen by the tracking subsystem.
type Order struct {
	// AWB is the air waybill number identifying the shipment.
	AWB string `json:"awb"`
	// SellerID identifies the seller who owns the order.
	SellerID string `json:"seller_id"`
	// CarrierID is the carrier the order is currently assigned to.
	// Only events from this carrier may mutate the order.
	CarrierID string `json:"carrier_id"`
	// PaymentMode is "COD" or "PREPAID".
	PaymentMode string `json:"payment_mode"`
	// AmountToCollect is the COD collectable amount, 0 for prepaid.
	AmountToCollect float64 `json:"amount_to_collect"`
	// CurrentBucket is the bucket of the latest applied stage event.
	CurrentBucket Bucket `json:"current_bucket"`
	// Reverse marks reverse-pickup (return) shipments.
	Reverse bool `json:"reverse"`
	// StageEvents is the append-only, timestamp-ordered lifecycle history.
	StageEvents []StageEvent `json:"stage_events"`
	// Version is the optimistic concurrency token.
	Version int64 `json:"version"`
}

// HasEvent reports whether an event with the same identity key was already applied.
func (o *Order) HasEvent(key string) bool {
	for _, e := range o.StageEvents {
		if e.IdentityKey() == key {
			return true
		}
	}
	return false
}

// AppendEvent inserts the event, re-sorts the history by timestamp and
// re-derives the current bucket from the newest event. Deriving the bucket
// from the sorted tail means a late-arriving older event joins the history
// without regressing the current bucket.
func (o *Order) AppendEvent(e StageEvent) {
	o.StageEvents = append(o.StageEvents, e)
	sort.SliceStable(o.StageEvents, func(i, j int) bool {
		return o.StageEvents[i].Timestamp.Before(o.StageEvents[j].Timestamp)
	})
	o.CurrentBucket = o.StageEvents[len(o.StageEvents)-1].Bucket
}

// DeliveredAt returns the timestamp of the delivery event, or zero time
// if the order has not been delivered.
func (o *Order) DeliveredAt() time.Time {
	for i := len(o.StageEvents) - 1; i >= 0; i-- {
		if o.StageEvents[i].Bucket == BucketDelivered {
			return o.StageEvents[i].Timestamp
		}
	}
	return time.Time{}
}
