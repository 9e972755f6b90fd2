package adapters

import (
	carriers "shipgrid/internal/features/carriers/domain"
	"shipgrid/internal/features/tracking/domain"
)

// BluedartTable maps Bluedart's (status-family, reason-code) pairs to
// canonical buckets. Each family carries a default resolution; a reason
// entry, when present, refines or overrides the family default.
type BluedartTable struct{}

// NewBluedartTable creates the Bluedart status table.
func NewBluedartTable() *BluedartTable {
	return &BluedartTable{}
}

type bluedartPair struct {
	family int
	reason int
}

// bluedartFamilies are the family defaults, keyed by status family code.
var bluedartFamilies = map[int]domain.Resolution{
	100: {Bucket: domain.BucketReadyToShip, Description: "Waybill generated"},
	200: {Bucket: domain.BucketInTransit, Description: "In transit"},
	300: {Bucket: domain.BucketDelivered, Description: "Delivered"},
	400: {Bucket: domain.BucketNDR, Description: "Delivery attempt failed"},
	500: {Bucket: domain.BucketRTO, Description: "Return to origin"},
	600: {Bucket: domain.BucketCanceled, Description: "Shipment canceled"},
	700: {Bucket: domain.BucketLostDamaged, Description: "Shipment lost or damaged"},
}

// bluedartReasons refine a family with a specific reason code.
var bluedartReasons = map[bluedartPair]domain.Resolution{
	{200, 201}: {Bucket: domain.BucketInTransit, Description: "Reached destination hub"},
	{200, 202}: {Bucket: domain.BucketInTransit, Description: "Out for delivery"},
	{400, 401}: {Bucket: domain.BucketNDR, Description: "Consignee not available"},
	{400, 402}: {Bucket: domain.BucketNDR, Description: "Address incorrect"},
	{400, 403}: {Bucket: domain.BucketNDR, Description: "Consignee refused delivery"},
	// Reason 404 closes the NDR into a return instead of another attempt.
	{400, 404}: {Bucket: domain.BucketRTO, Description: "Return after failed attempts"},
	{500, 501}: {Bucket: domain.BucketRTO, Description: "RTO in transit"},
	{500, 502}: {Bucket: domain.BucketRTODelivered, Description: "RTO delivered"},
	{700, 701}: {Bucket: domain.BucketLostDamaged, Description: "Shipment lost"},
	{700, 702}: {Bucket: domain.BucketLostDamaged, Description: "Shipment damaged"},
	{700, 703}: {Bucket: domain.BucketDisposed, Description: "Shipment disposed"},
}

// CarrierID implements ports.StatusTable.
func (t *BluedartTable) CarrierID() string {
	return carriers.CarrierBluedart
}

// Resolve prefers the (family, reason) refinement over the family default.
func (t *BluedartTable) Resolve(raw domain.RawStatus) (domain.Resolution, bool) {
	if raw.ReasonCode != 0 {
		if res, ok := bluedartReasons[bluedartPair{raw.StatusCode, raw.ReasonCode}]; ok {
			return res, true
		}
	}
	res, ok := bluedartFamilies[raw.StatusCode]
	return res, ok
}
