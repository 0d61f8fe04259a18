// Package crm talks to the Dynamics-backed case management API that owns
// submitted applications.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2/clientcredentials"

	"cites/internal/submission/models"
	dErrors "cites/pkg/domain-errors"
)

const tracerName = "cites/internal/crm"

// Config holds what the client needs to reach the CRM. When TokenURL is empty
// requests go out unauthenticated, which only suits local stubs.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Timeout      time.Duration
	// HTTPClient carries requests to the token endpoint and, when no
	// credentials are configured, to the API itself.
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Observe, when set, receives the latency and outcome of every call.
	Observe func(operation string, elapsed time.Duration, err error)
}

// PostResult is what the CRM assigns to a newly submitted submission.
type PostResult struct {
	SubmissionID  string  `json:"submissionId"`
	SubmissionRef string  `json:"submissionRef"`
	CostingType   string  `json:"costingType"`
	CostingValue  float64 `json:"costingValue"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	observe    func(string, time.Duration, error)
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("crm: base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("crm: parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		httpClient = cc.Client(contextWithClient(ctx, httpClient))
	}
	if cfg.Timeout > 0 {
		withTimeout := *httpClient
		withTimeout.Timeout = cfg.Timeout
		httpClient = &withTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observe := cfg.Observe
	if observe == nil {
		observe = func(string, time.Duration, error) {}
	}
	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
		observe:    observe,
	}, nil
}

// PostSubmission sends a declared submission and returns the identifiers and
// costing the CRM assigns to it.
func (c *Client) PostSubmission(ctx context.Context, submission *models.Submission) (result PostResult, err error) {
	ctx, done := c.start(ctx, "PostSubmission",
		attribute.String("cites.permit_type", permitTypeOf(submission)),
		attribute.Int("cites.applications", len(submission.Applications)),
	)
	defer func() { done(err) }()

	body, err := json.Marshal(submission)
	if err != nil {
		return PostResult{}, fmt.Errorf("encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submissions", bytes.NewReader(body))
	if err != nil {
		return PostResult{}, fmt.Errorf("build crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, http.StatusCreated, &result); err != nil {
		return PostResult{}, err
	}
	if result.SubmissionRef == "" || result.SubmissionID == "" {
		return PostResult{}, dErrors.New(dErrors.CodeUpstream, "crm response is missing submission identifiers")
	}
	return result, nil
}

// GetSubmission loads a submitted submission owned by the contact (and
// organisation, when set).
func (c *Client) GetSubmission(ctx context.Context, contactID, organisationID, submissionRef string) (submission *models.Submission, err error) {
	ctx, done := c.start(ctx, "GetSubmission", attribute.String("cites.submission_ref", submissionRef))
	defer func() { done(err) }()

	q := url.Values{}
	q.Set("contactId", contactID)
	if organisationID != "" {
		q.Set("organisationId", organisationID)
	}
	endpoint := c.baseURL + "/submissions/" + url.PathEscape(submissionRef) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build crm request: %w", err)
	}

	var out models.Submission
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	began := time.Now()
	ctx, span := c.tracer.Start(ctx, "crm."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.observe(operation, time.Since(began), err)
	}
}

func (c *Client) do(req *http.Request, want int, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(req.Context(), "crm request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeUpstream, "crm unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && req.Method == http.MethodGet {
		return dErrors.New(dErrors.CodeNotFound, "submission not found")
	}
	if resp.StatusCode != want {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.ErrorContext(req.Context(), "crm returned unexpected status",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return dErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), dErrors.CodeUpstream, "crm rejected request")
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeUpstream, "crm returned an empty body")
		}
		return dErrors.Wrap(err, dErrors.CodeUpstream, "decode crm response")
	}
	return nil
}

func permitTypeOf(s *models.Submission) string {
	if s == nil || s.PermitType == nil {
		return ""
	}
	return string(*s.PermitType)
}
