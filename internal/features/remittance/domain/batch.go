package domain

import "time"

// DeliveredOrder is one COD order awaiting remittance.
type DeliveredOrder struct {
	// AWB is the carrier airway bill number.
	AWB string `json:"awb"`
	// Amount is the cash collected from the buyer.
	Amount float64 `json:"amount"`
	// DeliveredAt is when the order reached the delivered state.
	DeliveredAt time.Time `json:"delivered_at"`
}

// Batch is one weekly payout record for a seller.
type Batch struct {
	// BatchID is the unique batch identifier.
	BatchID string `json:"batch_id"`
	// SellerID is the seller being paid out.
	SellerID string `json:"seller_id"`
	// CutoffDate is the Friday boundary the batch settles up to.
	CutoffDate time.Time `json:"cutoff_date"`
	// TotalAmount is the sum of the collected COD amounts.
	TotalAmount float64 `json:"total_amount"`
	// OrderIDs lists the AWBs settled by the batch.
	OrderIDs []string `json:"order_ids"`
}

// MostRecentFriday returns the Friday cutover at or before the given time,
// truncated to the start of the day in UTC. Deliveries after the cutover
// roll into the next week's batch.
func MostRecentFriday(asOf time.Time) time.Time {
	asOf = asOf.UTC()
	offset := (int(asOf.Weekday()) - int(time.Friday) + 7) % 7
	day := asOf.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
