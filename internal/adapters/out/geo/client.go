// Package geo implements the DistanceResolver port as an HTTP client against
// the geocoding/distance provider. Any failure surfaces as
// ports.ErrPricingUnavailable because without a distance the price formula
// cannot run and booking must stop.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/ports"
)

const defaultRequestTimeout = 5 * time.Second

// Client is an HTTP distance/geocoding client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a distance resolver client for the given provider URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

type distanceResponse struct {
	Miles float64 `json:"miles"`
}

// ResolveMiles returns the driving distance in miles between two addresses.
func (c *Client) ResolveMiles(ctx context.Context, pickupAddress, dropoffAddress string) (float64, error) {
	query := url.Values{}
	query.Set("origin", pickupAddress)
	query.Set("destination", dropoffAddress)

	var resp distanceResponse
	if err := c.get(ctx, "/v1/distance", query, &resp); err != nil {
		return 0, fmt.Errorf("%w: %w", ports.ErrPricingUnavailable, err)
	}
	if resp.Miles < 0 {
		return 0, fmt.Errorf("%w: provider returned negative distance %f",
			ports.ErrPricingUnavailable, resp.Miles)
	}

	return resp.Miles, nil
}

type geocodeResponse struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Geocode resolves a street address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	query := url.Values{}
	query.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, "/v1/geocode", query, &resp); err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrPricingUnavailable, err)
	}

	point, err := kernel.NewGeoPoint(resp.Latitude, resp.Longitude)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrPricingUnavailable, err)
	}

	return point, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider answered status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
