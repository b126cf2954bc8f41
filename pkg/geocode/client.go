package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://nominatim.openstreetmap.org"
	responseBodyReadLimit int64 = 64 * 1024
)

// Client wraps the reverse-geocoding API used to turn a clicked map
// coordinate into a display address. Order logic never depends on the
// result beyond accepting the coordinate itself.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured geocoding base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the geocoding client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Address is the normalized reverse-geocoding result.
type Address struct {
	DisplayName string `json:"display_name"`
}

// Reverse resolves a longitude/latitude pair to a human-readable address.
func (c *Client) Reverse(ctx context.Context, lng, lat float64) (*Address, error) {
	endpoint := fmt.Sprintf("%s/reverse?%s", strings.TrimRight(c.baseURL, "/"), url.Values{
		"lon":    []string{fmt.Sprintf("%f", lng)},
		"lat":    []string{fmt.Sprintf("%f", lat)},
		"format": []string{"jsonv2"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build reverse geocode request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request reverse geocode")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read reverse geocode response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reverse geocode request failed").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var decoded Address
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode reverse geocode response")
	}
	if decoded.DisplayName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no address found for coordinate")
	}

	return &decoded, nil
}
