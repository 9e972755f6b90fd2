package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	carriers "shipgrid/internal/features/carriers/domain"
	"shipgrid/internal/features/tracking/domain"
)

// HTTPFeed polls the carrier tracking APIs for raw shipment events.
type HTTPFeed struct {
	client *http.Client
	// baseURLs maps carrier IDs to their API base URLs.
	baseURLs map[string]string
}

// NewHTTPFeed creates a new HTTPFeed.
func NewHTTPFeed(client *http.Client, smartshipURL, delhiveryURL, bluedartURL string) *HTTPFeed {
	return &HTTPFeed{
		client: client,
		baseURLs: map[string]string{
			carriers.CarrierSmartship: smartshipURL,
			carriers.CarrierDelhivery: delhiveryURL,
			carriers.CarrierBluedart:  bluedartURL,
		},
	}
}

// trackResponse is the wire shape shared by the carrier tracking APIs.
type trackResponse struct {
	Events []domain.RawStatus `json:"events"`
}

// FetchEvents returns the carrier's current raw events for an AWB. The
// events come back in whatever order the carrier reports them.
func (f *HTTPFeed) FetchEvents(ctx context.Context, carrierID, awb string) ([]domain.RawStatus, error) {
	base, ok := f.baseURLs[carrierID]
	if !ok {
		return nil, fmt.Errorf("no tracking endpoint for carrier %s", carrierID)
	}

	endpoint := fmt.Sprintf("%s/track?awb=%s", base, url.QueryEscape(awb))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tracking request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracking fetch for %s/%s failed: %w", carrierID, awb, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracking fetch for %s/%s returned status %d", carrierID, awb, resp.StatusCode)
	}

	var body trackResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode tracking response from %s: %w", carrierID, err)
	}

	return body.Events, nil
}
