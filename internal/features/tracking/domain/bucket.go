package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Bucket is the canonical lifecycle state of a shipment, independent of
// the carrier's own tracking vocabulary.
type Bucket int

// Forward-flow buckets.
const (
	BucketNew Bucket = iota + 1
	BucketReadyToShip
	BucketInTransit
	BucketNDR
	BucketDelivered
	BucketRTO
	BucketRTODelivered
	BucketCanceled
	BucketLostDamaged
	BucketDisposed
)

// Return-flow buckets, used when the shipment itself is a reverse pickup.
const (
	BucketReturnConfirmed Bucket = iota + 101
	BucketReturnPicked
	BucketReturnInTransit
	BucketReturnDelivered
	BucketReturnCancellation
)

// ErrUnknownBucket is returned when a serialized bucket cannot be decoded.
var ErrUnknownBucket = errors.New("unknown bucket")

var bucketNames = map[Bucket]string{
	BucketNew:                "NEW",
	BucketReadyToShip:        "READY_TO_SHIP",
	BucketInTransit:          "IN_TRANSIT",
	BucketNDR:                "NDR",
	BucketDelivered:          "DELIVERED",
	BucketRTO:                "RTO",
	BucketRTODelivered:       "RTO_DELIVERED",
	BucketCanceled:           "CANCELED",
	BucketLostDamaged:        "LOST_DAMAGED",
	BucketDisposed:           "DISPOSED",
	BucketReturnConfirmed:    "RETURN_CONFIRMED",
	BucketReturnPicked:       "RETURN_PICKED",
	BucketReturnInTransit:    "RETURN_IN_TRANSIT",
	BucketReturnDelivered:    "RETURN_DELIVERED",
	BucketReturnCancellation: "RETURN_CANCELLATION",
}

// String returns the canonical name of the bucket.
func (b Bucket) String() string {
	if name, ok := bucketNames[b]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalJSON encodes the bucket as its canonical name.
func (b Bucket) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON decodes a bucket from its canonical name. The integer form
// is accepted too so rows written before buckets were named still decode.
func (b *Bucket) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		for bucket, candidate := range bucketNames {
			if candidate == name {
				*b = bucket
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrUnknownBucket, name)
	}

	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownBucket, data)
	}
	if _, ok := bucketNames[Bucket(code)]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBucket, code)
	}
	*b = Bucket(code)
	return nil
}

// IsReturnFlow reports whether the bucket belongs to the reverse-pickup flow.
func (b Bucket) IsReturnFlow() bool {
	return b >= BucketReturnConfirmed
}

// IsTerminal reports whether the bucket ends the shipment lifecycle.
func (b Bucket) IsTerminal() bool {
	switch b {
	case BucketDelivered, BucketRTODelivered, BucketCanceled,
		BucketLostDamaged, BucketDisposed, BucketReturnDelivered,
		BucketReturnCancellation:
		return true
	default:
		return false
	}
}

// Trackable reports whether an order in this bucket should still be swept
// for new carrier events.
func (b Bucket) Trackable() bool {
	return !b.IsTerminal()
}
