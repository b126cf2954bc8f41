package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gomartvn/storefront-backend/pkg/config"
	"github.com/gomartvn/storefront-backend/pkg/enums"
	pkgerrors "github.com/gomartvn/storefront-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 64 * 1024

var errNoEndpoint = errors.New("payment provider endpoint not configured")

// Client talks to the redirect-URL payment gateway. The two providers
// share one request/response shape and differ only by endpoint.
type Client struct {
	httpClient *http.Client
	endpoints  map[enums.PaymentMethod]string
	returnURL  string
	apiKey     string
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

// NewClient builds a gateway client from the payment configuration.
func NewClient(cfg config.PaymentConfig, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoints: map[enums.PaymentMethod]string{
			enums.PaymentMethodVNPay: strings.TrimSpace(cfg.VNPayEndpoint),
			enums.PaymentMethodMoMo:  strings.TrimSpace(cfg.MoMoEndpoint),
		},
		returnURL: strings.TrimSpace(cfg.ReturnURL),
		apiKey:    strings.TrimSpace(cfg.APIKey),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// LinkRequest carries what the gateway needs to mint a redirect URL.
type LinkRequest struct {
	OrderID     string `json:"order_id"`
	AmountUnits int64  `json:"amount"`
	ReturnURL   string `json:"return_url"`
}

type linkResponse struct {
	PayURL string `json:"pay_url"`
}

// CreateLink requests a hosted payment page URL for the given order.
// Any transport or provider failure maps to PAYMENT_LINK_UNAVAILABLE so
// callers can retry link generation against the already-created order.
func (c *Client) CreateLink(ctx context.Context, method enums.PaymentMethod, orderID string, amountUnits int64) (string, error) {
	endpoint := c.endpoints[method]
	if endpoint == "" {
		return "", pkgerrors.Wrap(pkgerrors.CodePaymentLink, errNoEndpoint, fmt.Sprintf("no endpoint for %s", method)).
			WithDetails(map[string]any{"provider": method.String()})
	}

	payload := LinkRequest{
		OrderID:     orderID,
		AmountUnits: amountUnits,
		ReturnURL:   c.returnURL,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodePaymentLink, err, "encode payment link request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodePaymentLink, err, "build payment link request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodePaymentLink, err, "request payment link").
			WithDetails(map[string]any{"provider": method.String()})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodePaymentLink, err, "read payment link response")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", pkgerrors.New(pkgerrors.CodePaymentLink, "payment provider rejected link request").
			WithDetails(map[string]any{"provider": method.String(), "status": resp.StatusCode})
	}

	var decoded linkResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodePaymentLink, err, "decode payment link response")
	}
	if strings.TrimSpace(decoded.PayURL) == "" {
		return "", pkgerrors.New(pkgerrors.CodePaymentLink, "payment provider returned empty url").
			WithDetails(map[string]any{"provider": method.String()})
	}

	return decoded.PayURL, nil
}
