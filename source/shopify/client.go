// Package shopify reads the storefront catalogue and carts from the Shopify
// Storefront GraphQL API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// AccessTokenHeader authenticates Storefront API requests.
const AccessTokenHeader = "X-Shopify-Storefront-Access-Token"

const defaultTimeout = 30 * time.Second

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// Client posts GraphQL operations to one Storefront API endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client for endpoint, e.g.
// https://shop.example.com/api/2023-01/graphql.json.
func NewClient(endpoint, token string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do runs query with variables and decodes the data member into out.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "shopify: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "shopify: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(AccessTokenHeader, c.token)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "shopify: request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "shopify: read response")
	}
	c.logger.DebugContext(ctx, "shopify request",
		"operation", operationName(query),
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode >= 300 {
		return goerrors.New(fmt.Sprintf("shopify: status %d: %s", resp.StatusCode, truncate(string(raw), 512)), goerrors.CategoryExternal).
			WithCode(resp.StatusCode)
	}

	var body gqlResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "shopify: decode response")
	}
	if len(body.Errors) > 0 {
		msgs := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			msgs = append(msgs, e.Message)
		}
		return goerrors.New("shopify: "+strings.Join(msgs, "; "), goerrors.CategoryExternal).
			WithTextCode("GRAPHQL_ERROR")
	}
	if out == nil || len(body.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(body.Data, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "shopify: decode data")
	}
	return nil
}

// operationName returns the name following the first query or mutation keyword.
func operationName(query string) string {
	for _, kw := range []string{"query ", "mutation "} {
		if i := strings.Index(query, kw); i >= 0 {
			rest := query[i+len(kw):]
			if end := strings.IndexAny(rest, "( {"); end > 0 {
				return rest[:end]
			}
		}
	}
	return "anonymous"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
