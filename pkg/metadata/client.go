package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// maxResponseSize is the maximum allowed response body size (1MB).
const maxResponseSize = 1 * 1024 * 1024

// Client is a typed HTTP client for the metadata service, which owns all
// persistent application state (registrations, password hashes, current
// tokens).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new metadata service client. Every call is bounded by
// timeout on top of the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// GetApplication fetches the application record for name.
func (c *Client) GetApplication(ctx context.Context, name string) (*Application, error) {
	status, body, err := c.doRequest(ctx, http.MethodGet, "/get_application", url.Values{"name": {name}}, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newStatusError(status, body)
	}

	var app Application
	if err := json.Unmarshal(body, &app); err != nil {
		return nil, fmt.Errorf("failed to decode application: %w", err)
	}
	return &app, nil
}

// CreateApplication registers a new application record.
func (c *Client) CreateApplication(ctx context.Context, req CreateApplicationRequest) error {
	status, body, err := c.doRequest(ctx, http.MethodPost, "/create_application", nil, req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return newStatusError(status, body)
	}
	return nil
}

// DeleteApplication removes the application record for name and returns the
// metadata service's response body for relaying.
func (c *Client) DeleteApplication(ctx context.Context, name string) ([]byte, error) {
	status, body, err := c.doRequest(ctx, http.MethodDelete, "/delete_application", url.Values{"name": {name}}, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newStatusError(status, body)
	}
	return body, nil
}

// UpdateToken replaces the stored current token for name. All previously
// issued tokens stop validating once this returns.
func (c *Client) UpdateToken(ctx context.Context, name, token string) error {
	status, body, err := c.doRequest(ctx, http.MethodPost, "/update_token", nil, UpdateTokenRequest{Name: name, Token: token})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return newStatusError(status, body)
	}
	return nil
}

// doRequest performs one HTTP exchange and returns the status and capped body.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("[METADATA] request completed")

	return resp.StatusCode, respBody, nil
}

// newStatusError builds a StatusError, extracting the detail field when the
// body carries one.
func newStatusError(status int, body []byte) *StatusError {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)
	return &StatusError{Status: status, Detail: payload.Detail, Body: body}
}
