package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cites/internal/submission/models"
	"cites/internal/submission/testfixtures"
	dErrors "cites/pkg/domain-errors"
)

type fakeCRM struct {
	*httptest.Server
	tokenCalls atomic.Int32
	lastAuth   atomic.Value
	lastQuery  atomic.Value
	status     int
	stored     *models.Submission
}

func newFakeCRM(t *testing.T) *fakeCRM {
	t.Helper()
	f := &fakeCRM{status: http.StatusCreated, stored: testfixtures.ImportSubmission()}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"crm-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("POST /submissions", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		var sub models.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if f.status != http.StatusCreated {
			w.WriteHeader(f.status)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(PostResult{
			SubmissionID:  "sub-123",
			SubmissionRef: "25GB000123",
			CostingType:   "simple",
			CostingValue:  float64(len(sub.Applications)) * 35,
		})
	})
	mux.HandleFunc("GET /submissions/{ref}", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		f.lastQuery.Store(r.URL.RawQuery)
		if r.PathValue("ref") != "25GB000123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(f.stored)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func newClient(t *testing.T, f *fakeCRM, observe func(string, time.Duration, error)) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), Config{
		BaseURL:      f.URL,
		TokenURL:     f.URL + "/oauth2/token",
		ClientID:     "cites",
		ClientSecret: "secret",
		Timeout:      5 * time.Second,
		HTTPClient:   f.Client(),
		Observe:      observe,
	})
	require.NoError(t, err)
	return c
}

func TestPostSubmission(t *testing.T) {
	f := newFakeCRM(t)
	var observed []string
	c := newClient(t, f, func(op string, _ time.Duration, err error) {
		assert.NoError(t, err)
		observed = append(observed, op)
	})

	result, err := c.PostSubmission(context.Background(), testfixtures.ImportSubmission())
	require.NoError(t, err)
	assert.Equal(t, "sub-123", result.SubmissionID)
	assert.Equal(t, "25GB000123", result.SubmissionRef)
	assert.Equal(t, 35.0, result.CostingValue)
	assert.Equal(t, "Bearer crm-token", f.lastAuth.Load())
	assert.Equal(t, []string{"PostSubmission"}, observed)

	_, err = c.PostSubmission(context.Background(), testfixtures.ImportSubmission())
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.tokenCalls.Load(), "token is cached between calls")
}

func TestPostSubmission_UpstreamFailure(t *testing.T) {
	f := newFakeCRM(t)
	f.status = http.StatusInternalServerError
	var failed error
	c := newClient(t, f, func(_ string, _ time.Duration, err error) { failed = err })

	_, err := c.PostSubmission(context.Background(), testfixtures.ImportSubmission())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	assert.Error(t, failed)
}

func TestGetSubmission(t *testing.T) {
	f := newFakeCRM(t)
	c := newClient(t, f, nil)

	sub, err := c.GetSubmission(context.Background(), "contact-1", "org-1", "25GB000123")
	require.NoError(t, err)
	assert.Equal(t, f.stored, sub)
	assert.Equal(t, "contactId=contact-1&organisationId=org-1", f.lastQuery.Load())

	_, err = c.GetSubmission(context.Background(), "contact-1", "", "missing")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestGetSubmission_Unreachable(t *testing.T) {
	f := newFakeCRM(t)
	c, err := NewClient(context.Background(), Config{BaseURL: f.URL, HTTPClient: f.Client()})
	require.NoError(t, err)
	f.Close()

	_, err = c.GetSubmission(context.Background(), "contact-1", "", "25GB000123")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}
