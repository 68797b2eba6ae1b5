// Package provider implements the payment provider client over its HTTP API.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"encore/contexts/finance-core/payment-verifier/ports"
)

type Client struct {
	BaseURL    string
	Secret     string
	HTTPClient *http.Client
}

func NewClient(baseURL string, secret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Secret:     strings.TrimSpace(secret),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		TxRef       string  `json:"tx_ref"`
		ProviderRef string  `json:"flw_ref"`
		Status      string  `json:"status"`
		Amount      float64 `json:"amount"`
		Currency    string  `json:"currency"`
	} `json:"data"`
}

func (c *Client) VerifyTransaction(ctx context.Context, txRef string) (ports.ProviderVerification, error) {
	endpoint := fmt.Sprintf("%s/transactions/verify_by_reference?tx_ref=%s", c.BaseURL, url.QueryEscape(txRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.ProviderVerification{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return ports.ProviderVerification{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.ProviderVerification{}, fmt.Errorf("provider verify returned status %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.ProviderVerification{}, err
	}
	if !strings.EqualFold(body.Status, "success") {
		return ports.ProviderVerification{}, fmt.Errorf("provider verify response status %q", body.Status)
	}
	return ports.ProviderVerification{
		TxRef:       body.Data.TxRef,
		ProviderRef: body.Data.ProviderRef,
		Status:      body.Data.Status,
		Amount:      body.Data.Amount,
		Currency:    body.Data.Currency,
	}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
