package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brandsync/brandsync/internal/domain/errors"
	"github.com/brandsync/brandsync/pkg/retry"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// OrderStatus is the gateway's view of an order, fetched from its
// retrieval API. Used by the worker to reconcile payments whose notify
// callback never arrived.
type OrderStatus struct {
	OrderID    string `json:"order_id"`
	PaymentID  string `json:"payment_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	StatusCode string `json:"status_code"`
	Method     string `json:"method"`
}

// Client talks to the gateway's merchant retrieval API. Calls go through a
// circuit breaker so a gateway outage degrades to ErrGatewayUnavailable
// instead of piling up timeouts.
type Client struct {
	cfg     *Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*OrderStatus]
	retry   retry.Config
	logger  zerolog.Logger
}

// NewClient creates a gateway retrieval client.
func NewClient(cfg *Config, logger zerolog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[*OrderStatus](gobreaker.Settings{
			Name:        "payment-gateway",
			MaxRequests: 5,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 10 && failureRatio >= 0.6
			},
		}),
		retry: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
		logger: logger,
	}
}

// RetrieveOrder fetches the gateway-side status of an order.
func (c *Client) RetrieveOrder(ctx context.Context, orderID string) (*OrderStatus, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	status, err := c.breaker.Execute(func() (*OrderStatus, error) {
		return retry.DoWithResult(ctx, c.retry, func() (*OrderStatus, error) {
			return c.fetchOrder(ctx, orderID)
		})
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			c.logger.Warn().Str("order_id", orderID).Msg("gateway circuit open")
			return nil, errors.ErrGatewayUnavailable
		}
		return nil, err
	}
	return status, nil
}

func (c *Client) fetchOrder(ctx context.Context, orderID string) (*OrderStatus, error) {
	endpoint := strings.TrimRight(c.cfg.AuthorizeURL, "/") + "/merchant/v1/payment/search?" +
		url.Values{"order_id": {orderID}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, errors.ErrGatewayUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var status OrderStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &status, nil
}
