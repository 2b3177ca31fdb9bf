package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient is the HTTP implementation of the Client interface, speaking the
// backend's REST query dialect plus its /rpc procedure endpoint.
type APIClient struct {
	httpClient  *http.Client
	BaseURL     string
	apiKey      string
	accessToken string
}

// NewClient creates a new backend client. The API key identifies the
// application; the access token identifies the acting user and is what the
// backend's row-level security evaluates.
func NewClient(baseURL, apiKey, accessToken string) Client {
	return &APIClient{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		BaseURL:     baseURL,
		apiKey:      apiKey,
		accessToken: accessToken,
	}
}

// Ensure APIClient implements the Client interface.
var _ Client = (*APIClient)(nil)

// Select executes a row query and decodes the JSON array response into dst.
func (c *APIClient) Select(ctx context.Context, q Query, dst any) error {
	url := fmt.Sprintf("%s/rest/v1/%s?%s", c.BaseURL, q.Table(), q.Encode())
	log.Debug("Querying backend", "url", url)

	body, err := c.do(ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", q.Table(), err)
	}
	return nil
}

// Insert adds rows to a table. rows may be a single struct or a slice.
func (c *APIClient) Insert(ctx context.Context, table string, rows any) error {
	url := fmt.Sprintf("%s/rest/v1/%s", c.BaseURL, table)
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode %s rows: %w", table, err)
	}
	_, err = c.do(ctx, http.MethodPost, url, payload, "return=minimal")
	return err
}

// Update patches the rows matched by q's filters.
func (c *APIClient) Update(ctx context.Context, table string, patch map[string]any, q Query) error {
	url := fmt.Sprintf("%s/rest/v1/%s?%s", c.BaseURL, table, q.Encode())
	payload, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode %s patch: %w", table, err)
	}
	_, err = c.do(ctx, http.MethodPatch, url, payload, "return=minimal")
	return err
}

// RPC invokes a named remote procedure and decodes its structured result
// into out. A non-2xx status is a transport failure; a 200 carrying
// {success:false} is not, and is left for the caller to interpret.
func (c *APIClient) RPC(ctx context.Context, name string, params map[string]any, out any) error {
	url := fmt.Sprintf("%s/rest/v1/rpc/%s", c.BaseURL, name)
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s params: %w", name, err)
	}
	log.Debug("Invoking remote procedure", "name", name, "params", params)

	body, err := c.do(ctx, http.MethodPost, url, payload, "")
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", name, err)
	}
	return nil
}

func (c *APIClient) do(ctx context.Context, method, url string, payload []byte, prefer string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("Received non-OK HTTP status from backend", "status", resp.StatusCode, "url", url, "body", string(body))
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}
	return body, nil
}
