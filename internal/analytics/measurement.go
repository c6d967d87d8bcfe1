// Package analytics posts purchase events to the Google Analytics 4
// Measurement Protocol.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultEndpoint = "https://www.google-analytics.com/mp/collect"

type Purchase struct {
	ClientID      string
	TransactionID string
	// Value is in major currency units.
	Value    float64
	Currency string
}

type Client struct {
	measurementID string
	apiSecret     string
	endpoint      string
	httpClient    *http.Client
}

func NewClient(measurementID, apiSecret string) *Client {
	return &Client{
		measurementID: measurementID,
		apiSecret:     apiSecret,
		endpoint:      defaultEndpoint,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

type event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

type payload struct {
	ClientID string  `json:"client_id"`
	Events   []event `json:"events"`
}

func (c *Client) TrackPurchase(ctx context.Context, p Purchase) error {
	if c.measurementID == "" || c.apiSecret == "" {
		return nil
	}

	body, err := json.Marshal(payload{
		ClientID: p.ClientID,
		Events: []event{{
			Name: "purchase",
			Params: map[string]any{
				"transaction_id": p.TransactionID,
				"value":          p.Value,
				"currency":       p.Currency,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode purchase: %w", err)
	}

	q := url.Values{}
	q.Set("measurement_id", c.measurementID)
	q.Set("api_secret", c.apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send purchase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("measurement protocol returned status %d", resp.StatusCode)
	}
	return nil
}
