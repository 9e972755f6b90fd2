package adapters

import (
	carriers "shipgrid/internal/features/carriers/domain"
	"shipgrid/internal/features/tracking/domain"
)

// SmartshipTable maps Smartship's integer tracking codes to canonical buckets.
type SmartshipTable struct{}

// NewSmartshipTable creates the Smartship status table.
func NewSmartshipTable() *SmartshipTable {
	return &SmartshipTable{}
}

// smartshipCodes is the full Smartship tracking vocabulary. Codes absent
// from this table are newly introduced by the carrier and must be ignored.
var smartshipCodes = map[int]domain.Resolution{
	1:  {Bucket: domain.BucketNew, Description: "Order received"},
	2:  {Bucket: domain.BucketReadyToShip, Description: "Manifested"},
	3:  {Bucket: domain.BucketReadyToShip, Description: "Pickup scheduled"},
	4:  {Bucket: domain.BucketReadyToShip, Description: "Pickup generated"},
	6:  {Bucket: domain.BucketInTransit, Description: "Shipped"},
	7:  {Bucket: domain.BucketInTransit, Description: "In transit"},
	9:  {Bucket: domain.BucketInTransit, Description: "Reached destination hub"},
	10: {Bucket: domain.BucketInTransit, Description: "Out for delivery"},
	11: {Bucket: domain.BucketDelivered, Description: "Delivered"},
	12: {Bucket: domain.BucketNDR, Description: "Delivery attempt failed"},
	13: {Bucket: domain.BucketRTO, Description: "Return to origin initiated"},
	14: {Bucket: domain.BucketRTO, Description: "RTO in transit"},
	15: {Bucket: domain.BucketRTODelivered, Description: "RTO delivered"},
	16: {Bucket: domain.BucketCanceled, Description: "Shipment canceled"},
	17: {Bucket: domain.BucketLostDamaged, Description: "Shipment lost"},
	18: {Bucket: domain.BucketLostDamaged, Description: "Shipment damaged"},
	19: {Bucket: domain.BucketDisposed, Description: "Shipment disposed"},
	// Reverse pickup flow
	21: {Bucket: domain.BucketReturnConfirmed, Description: "Return confirmed"},
	22: {Bucket: domain.BucketReturnPicked, Description: "Return picked up"},
	23: {Bucket: domain.BucketReturnInTransit, Description: "Return in transit"},
	24: {Bucket: domain.BucketReturnDelivered, Description: "Return delivered to seller"},
	25: {Bucket: domain.BucketReturnCancellation, Description: "Return canceled"},
}

// CarrierID implements ports.StatusTable.
func (t *SmartshipTable) CarrierID() string {
	return carriers.CarrierSmartship
}

// Resolve looks up the raw integer code.
func (t *SmartshipTable) Resolve(raw domain.RawStatus) (domain.Resolution, bool) {
	res, ok := smartshipCodes[raw.StatusCode]
	return res, ok
}
