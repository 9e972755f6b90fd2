package adapters

import (
	"strings"

	carriers "shipgrid/internal/features/carriers/domain"
	"shipgrid/internal/features/tracking/domain"
)

// DelhiveryTable maps Delhivery's free-text statuses to canonical buckets.
// Delhivery reports human-readable status strings rather than codes, so
// lookups normalize casing and whitespace first.
type DelhiveryTable struct{}

// NewDelhiveryTable creates the Delhivery status table.
func NewDelhiveryTable() *DelhiveryTable {
	return &DelhiveryTable{}
}

var delhiveryStatuses = map[string]domain.Resolution{
	"manifested":        {Bucket: domain.BucketReadyToShip, Description: "Manifested"},
	"not picked":        {Bucket: domain.BucketReadyToShip, Description: "Awaiting pickup"},
	"picked up":         {Bucket: domain.BucketInTransit, Description: "Picked up"},
	"in transit":        {Bucket: domain.BucketInTransit, Description: "In transit"},
	"pending":           {Bucket: domain.BucketInTransit, Description: "Pending at facility"},
	"dispatched":        {Bucket: domain.BucketInTransit, Description: "Out for delivery"},
	"delivered":         {Bucket: domain.BucketDelivered, Description: "Delivered"},
	"undelivered":       {Bucket: domain.BucketNDR, Description: "Delivery attempt failed"},
	"rto initiated":     {Bucket: domain.BucketRTO, Description: "Return to origin initiated"},
	"rto in transit":    {Bucket: domain.BucketRTO, Description: "RTO in transit"},
	"rto delivered":     {Bucket: domain.BucketRTODelivered, Description: "RTO delivered"},
	"canceled":          {Bucket: domain.BucketCanceled, Description: "Shipment canceled"},
	"lost":              {Bucket: domain.BucketLostDamaged, Description: "Shipment lost"},
	"destroyed":         {Bucket: domain.BucketDisposed, Description: "Shipment disposed"},
	// Reverse pickup flow
	"return accepted":   {Bucket: domain.BucketReturnConfirmed, Description: "Return confirmed"},
	"return picked":     {Bucket: domain.BucketReturnPicked, Description: "Return picked up"},
	"return in transit": {Bucket: domain.BucketReturnInTransit, Description: "Return in transit"},
	"return delivered":  {Bucket: domain.BucketReturnDelivered, Description: "Return delivered to seller"},
	"return cancelled":  {Bucket: domain.BucketReturnCancellation, Description: "Return canceled"},
}

// CarrierID implements ports.StatusTable.
func (t *DelhiveryTable) CarrierID() string {
	return carriers.CarrierDelhivery
}

// Resolve normalizes and looks up the free-text status.
func (t *DelhiveryTable) Resolve(raw domain.RawStatus) (domain.Resolution, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(raw.Status)), " ")
	res, ok := delhiveryStatuses[key]
	return res, ok
}
