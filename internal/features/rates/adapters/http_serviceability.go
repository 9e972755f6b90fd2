package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	carriers "shipgrid/internal/features/carriers/domain"
	"shipgrid/internal/features/rates/domain"
)

// HTTPServiceability checks route serviceability against each carrier's API.
type HTTPServiceability struct {
	client *http.Client
	// baseURLs maps carrier IDs to their API base URLs.
	baseURLs map[string]string
}

// NewHTTPServiceability creates a new HTTPServiceability.
func NewHTTPServiceability(client *http.Client, smartshipURL, delhiveryURL, bluedartURL string) *HTTPServiceability {
	return &HTTPServiceability{
		client: client,
		baseURLs: map[string]string{
			carriers.CarrierSmartship: smartshipURL,
			carriers.CarrierDelhivery: delhiveryURL,
			carriers.CarrierBluedart:  bluedartURL,
		},
	}
}

// serviceabilityResponse is the wire shape shared by the carrier APIs.
type serviceabilityResponse struct {
	Serviceable bool `json:"serviceable"`
}

// IsServiceable asks the carrier whether it services the shipment. Any
// transport or decoding failure is returned as an error; the caller decides
// whether that means "not serviceable".
func (s *HTTPServiceability) IsServiceable(ctx context.Context, carrierID string, pickupPincode, deliveryPincode int, weightKg float64, paymentMode domain.PaymentMode) (bool, error) {
	base, ok := s.baseURLs[carrierID]
	if !ok {
		return false, fmt.Errorf("no serviceability endpoint for carrier %s", carrierID)
	}

	query := url.Values{}
	query.Set("pickup", strconv.Itoa(pickupPincode))
	query.Set("delivery", strconv.Itoa(deliveryPincode))
	query.Set("weight", strconv.FormatFloat(weightKg, 'f', -1, 64))
	query.Set("payment", string(paymentMode))
	endpoint := fmt.Sprintf("%s/serviceability?%s", base, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build serviceability request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("serviceability check for %s failed: %w", carrierID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("serviceability check for %s returned status %d", carrierID, resp.StatusCode)
	}

	var body serviceabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode serviceability response from %s: %w", carrierID, err)
	}

	return body.Serviceable, nil
}
