// Package gatewayclient transports assembled payloads to the payment
// gateway. Request signing is handled by the gateway edge proxy and is
// deliberately absent here.
package gatewayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"paybridge/internal/assembly/models"
)

// statusSuccess is the gateway's status code for a completed transaction.
const statusSuccess = 190

// Client submits payloads over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit posts the payload and translates the gateway response.
func (c *Client) Submit(ctx context.Context, payload *models.RequestPayload) (*models.TransactionResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var gwResp gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gwResp); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	result := &models.TransactionResult{
		TransactionKey: gwResp.Key,
		StatusCode:     gwResp.Status.Code.Code,
		Success:        gwResp.Status.Code.Code == statusSuccess,
	}
	if !result.Success {
		result.FailureMessage = failureMessage(gwResp)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "gateway transaction submitted",
			"transaction_id", payload.TransactionID,
			"status_code", result.StatusCode,
			"success", result.Success,
		)
	}
	return result, nil
}

type gatewayResponse struct {
	Key             string `json:"Key"`
	TransactionType string `json:"TransactionType"`
	Status          struct {
		Code struct {
			Code int `json:"Code"`
		} `json:"Code"`
		SubCode struct {
			Description string `json:"_"`
		} `json:"SubCode"`
	} `json:"Status"`
	Services struct {
		Service struct {
			ResponseParameter struct {
				Name  string `json:"Name"`
				Value string `json:"_"`
			} `json:"ResponseParameter"`
		} `json:"Service"`
	} `json:"Services"`
}

// rejectedTransactionTypes are the gateway transaction types that carry a
// human-readable rejection reason.
var rejectedTransactionTypes = map[string]bool{
	"C011": true,
	"C016": true,
	"C039": true,
	"I038": true,
}

// failureMessage extracts the method-specific failure reason. I038
// responses carry it in a response parameter; the others encode it after a
// colon in the status subcode.
func failureMessage(resp gatewayResponse) string {
	if !rejectedTransactionTypes[resp.TransactionType] {
		return ""
	}

	if resp.TransactionType == "I038" {
		if resp.Services.Service.ResponseParameter.Name == "ErrorResponseMessage" {
			return resp.Services.Service.ResponseParameter.Value
		}
	}

	parts := strings.Split(resp.Status.SubCode.Description, ":")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.TrimSpace(strings.Join(parts, ":"))
}
