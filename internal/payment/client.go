// Package payment creates card payments with a GOV.UK Pay style provider and
// follows them to completion.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "cites/pkg/domain-errors"
)

// Provider statuses that end a payment.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusError     = "error"
)

// Request describes a payment to take. Amount is in pence.
type Request struct {
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	ReturnURL   string `json:"return_url"`
}

// Payment is the provider's view of one payment.
type Payment struct {
	PaymentID string `json:"payment_id"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	State     State  `json:"state"`
	Links     Links  `json:"_links"`
}

type State struct {
	Status   string `json:"status"`
	Finished bool   `json:"finished"`
}

type Links struct {
	NextURL *Link `json:"next_url,omitempty"`
}

type Link struct {
	Href string `json:"href"`
}

// NextURL is where the user completes the payment, empty once finished.
func (p Payment) NextURL() string {
	if p.Links.NextURL == nil {
		return ""
	}
	return p.Links.NextURL.Href
}

// Succeeded reports whether the money was taken.
func (p Payment) Succeeded() bool {
	return p.State.Finished && p.State.Status == StatusSuccess
}

type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
	// PollAttempts and PollInterval bound WaitForCompletion.
	PollAttempts int
	PollInterval time.Duration
}

type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	logger       *slog.Logger
	pollAttempts int
	pollInterval time.Duration
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		httpClient:   cfg.HTTPClient,
		logger:       cfg.Logger,
		pollAttempts: cfg.PollAttempts,
		pollInterval: cfg.PollInterval,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.pollAttempts <= 0 {
		c.pollAttempts = 5
	}
	if c.pollInterval <= 0 {
		c.pollInterval = time.Second
	}
	return c
}

func (c *Client) CreatePayment(ctx context.Context, req Request) (Payment, error) {
	if req.Amount <= 0 {
		return Payment{}, dErrors.New(dErrors.CodeBadRequest, "payment amount must be positive")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Payment{}, fmt.Errorf("encode payment request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return Payment{}, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out Payment
	if err := c.do(httpReq, http.StatusCreated, &out); err != nil {
		return Payment{}, err
	}
	return out, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return Payment{}, fmt.Errorf("build payment request: %w", err)
	}
	var out Payment
	if err := c.do(httpReq, http.StatusOK, &out); err != nil {
		return Payment{}, err
	}
	return out, nil
}

// WaitForCompletion polls the payment until the provider marks it finished.
// It gives up with a timeout error after the configured number of attempts,
// returning the last status seen.
func (c *Client) WaitForCompletion(ctx context.Context, paymentID string) (Payment, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var last Payment
	for attempt := 1; ; attempt++ {
		p, err := c.GetPayment(ctx, paymentID)
		if err != nil {
			return last, err
		}
		last = p
		if p.State.Finished {
			return p, nil
		}
		if attempt >= c.pollAttempts {
			c.logger.WarnContext(ctx, "payment still pending after polling",
				"payment_id", paymentID,
				"status", p.State.Status,
				"attempts", attempt,
			)
			return last, dErrors.New(dErrors.CodeTimeout, "payment not finished")
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) do(req *http.Request, want int, dest any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(req.Context(), "payment provider unreachable", "error", err)
		return dErrors.Wrap(err, dErrors.CodeUpstream, "payment provider unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return dErrors.New(dErrors.CodeNotFound, "payment not found")
	}
	if resp.StatusCode != want {
		c.logger.ErrorContext(req.Context(), "payment provider returned unexpected status",
			"status", resp.StatusCode,
			"path", req.URL.Path,
		)
		return dErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), dErrors.CodeUpstream, "payment provider rejected request")
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "decode payment response")
	}
	return nil
}
