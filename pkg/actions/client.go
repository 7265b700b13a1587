// Package actions is the HTTP client for the action provider: credential
// check, catalog document retrieval, action listing, and action execution.
package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/relay/internal/logging"
	"github.com/aretw0/relay/pkg/domain"
)

const (
	checkPath   = "/check/"
	schemaPath  = "/dynamic/openapi.json"
	exposedPath = "/dynamic/exposed/"
)

// Client talks to the action provider. Every call is a single attempt with
// the transport's default timeout; retry policy belongs to the caller.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects a custom transport (timeouts, proxies, test servers).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets a structured logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the provider at baseURL, authenticating
// every request with the static API key.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    http.DefaultClient,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	return req, nil
}

// Check validates the API key against the provider.
// Any non-200 response maps to domain.ErrInvalidCredential; callers decide
// whether that is fatal.
func (c *Client) Check(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, checkPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("credential check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrInvalidCredential, resp.StatusCode)
	}
	return nil
}

// OpenAPIDocument fetches the provider's dynamic OpenAPI document, the raw
// source of the action catalog. Transport failures and non-200 responses are
// returned as *domain.SchemaFetchError.
func (c *Client) OpenAPIDocument(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, schemaPath, nil)
	if err != nil {
		return nil, &domain.SchemaFetchError{Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.SchemaFetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.SchemaFetchError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.SchemaFetchError{Err: err}
	}
	return body, nil
}

// ActionSummary is one entry of the provider's exposed-action listing.
// The listing is looser than the OpenAPI document, so it is decoded from a
// generic map with mapstructure.
type ActionSummary struct {
	ID          string            `mapstructure:"id" json:"id"`
	OperationID string            `mapstructure:"operation_id" json:"operation_id"`
	Description string            `mapstructure:"description" json:"description"`
	Params      map[string]string `mapstructure:"params" json:"params,omitempty"`
}

// ListExposed fetches the flat listing of actions the credential may execute.
func (c *Client) ListExposed(ctx context.Context) ([]ActionSummary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, exposedPath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list exposed actions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.ActionExecutionError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode exposed actions: %w", err)
	}

	summaries := make([]ActionSummary, 0, len(envelope.Results))
	for _, raw := range envelope.Results {
		var s ActionSummary
		if err := mapstructure.Decode(raw, &s); err != nil {
			c.logger.Warn("skipping malformed action entry", "err", err)
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Execute performs one action with the given payload and returns the decoded
// response body. Non-200 responses become *domain.ActionExecutionError with
// the status and body preserved for diagnosis. No retries.
func (c *Client) Execute(ctx context.Context, actionID string, payload map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, exposedPath+actionID+"/execute/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute action %s: %w", actionID, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read action response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ActionExecutionError{
			ActionID:   actionID,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	c.logger.Debug("action executed", "action_id", actionID, "response_size", len(respBody))
	return json.RawMessage(respBody), nil
}
