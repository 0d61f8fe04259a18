// Package lookup holds the HTTP plumbing shared by the reference data
// lookups the wizard calls while a user types.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	dErrors "cites/pkg/domain-errors"
	"cites/pkg/platform/circuit"
	"cites/pkg/platform/sentinel"
)

// Getter issues JSON GETs through a circuit breaker.
type Getter struct {
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
	apiKey     string
}

func NewGetter(httpClient *http.Client, breaker *circuit.Breaker, apiKey string, logger *slog.Logger) *Getter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Getter{httpClient: httpClient, breaker: breaker, logger: logger, apiKey: apiKey}
}

// Get decodes the response at url into dest. It reports false when the
// upstream answers 404. Transport failures and 5xx responses count against
// the breaker; while it is open Get fails without calling out.
func (g *Getter) Get(ctx context.Context, url string, dest any) (bool, error) {
	if !g.breaker.Allow() {
		return false, dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUpstream, g.breaker.Name()+" unavailable")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build %s request: %w", g.breaker.Name(), err)
	}
	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("X-Api-Key", g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.failed(ctx, err)
		return false, dErrors.Wrap(err, dErrors.CodeUpstream, g.breaker.Name()+" request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		g.succeeded(ctx)
		return false, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		err := fmt.Errorf("status %d", resp.StatusCode)
		g.failed(ctx, err)
		return false, dErrors.Wrap(err, dErrors.CodeUpstream, g.breaker.Name()+" request failed")
	case resp.StatusCode != http.StatusOK:
		g.succeeded(ctx)
		return false, dErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), dErrors.CodeUpstream, g.breaker.Name()+" rejected request")
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeUpstream, "decode "+g.breaker.Name()+" response")
	}
	g.succeeded(ctx)
	return true, nil
}

func (g *Getter) failed(ctx context.Context, err error) {
	if _, change := g.breaker.RecordFailure(); change.Opened {
		g.logger.WarnContext(ctx, "circuit opened", "upstream", g.breaker.Name(), "error", err)
	}
}

func (g *Getter) succeeded(ctx context.Context) {
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "circuit closed", "upstream", g.breaker.Name())
	}
}
