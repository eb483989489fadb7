// Package geocode is the HTTP client for the external postcode-to-coordinate
// API. It implements postcode.Geocoder.
package geocode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"property-match-go/internal/config"
	postcodedomain "property-match-go/internal/domain/postcode"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(cfg config.GeocodeConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type lookupResult struct {
	Postcode  string   `json:"postcode"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type lookupResponse struct {
	Status int           `json:"status"`
	Result *lookupResult `json:"result"`
}

type bulkRequest struct {
	Postcodes []string `json:"postcodes"`
}

type bulkResponse struct {
	Status int `json:"status"`
	Result []struct {
		Query  string        `json:"query"`
		Result *lookupResult `json:"result"`
	} `json:"result"`
}

// Lookup resolves one postcode. A 404 from the API means the postcode is
// unknown and returns (nil, nil).
func (c *Client) Lookup(ctx context.Context, postcode string) (*postcodedomain.Coordinates, error) {
	endpoint := c.baseURL + "/postcodes/" + url.PathEscape(postcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode lookup: unexpected status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return toCoordinates(payload.Result), nil
}

// LookupBulk resolves up to 100 postcodes in one call. Postcodes the API does
// not know are simply absent from the returned map.
func (c *Client) LookupBulk(ctx context.Context, postcodes []string) (map[string]postcodedomain.Coordinates, error) {
	body, err := json.Marshal(bulkRequest{Postcodes: postcodes})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/postcodes", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode bulk lookup: unexpected status %d", resp.StatusCode)
	}

	var payload bulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	found := make(map[string]postcodedomain.Coordinates, len(payload.Result))
	for _, entry := range payload.Result {
		coords := toCoordinates(entry.Result)
		if coords == nil {
			continue
		}
		// Keyed by the query string so callers can match against what
		// they sent, whatever canonical form the API echoes back.
		found[entry.Query] = *coords
	}
	return found, nil
}

func toCoordinates(result *lookupResult) *postcodedomain.Coordinates {
	if result == nil || result.Latitude == nil || result.Longitude == nil {
		return nil
	}
	return &postcodedomain.Coordinates{Lat: *result.Latitude, Lon: *result.Longitude}
}
