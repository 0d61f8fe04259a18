package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cites/internal/platform/metrics"
	"cites/pkg/requestcontext"
)

type stubValidator struct {
	identity *Identity
	err      error
	seen     string
}

func (v *stubValidator) ValidateToken(token string) (*Identity, error) {
	v.seen = token
	return v.identity, v.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRequireAuth(t *testing.T) {
	var gotContact, gotOrg string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContact = requestcontext.ContactID(r.Context())
		gotOrg = requestcontext.OrganisationID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		v := &stubValidator{identity: &Identity{ContactID: "contact-1", OrganisationID: "org-2"}}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()

		RequireAuth(v, discardLogger())(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "abc", v.seen)
		assert.Equal(t, "contact-1", gotContact)
		assert.Equal(t, "org-2", gotOrg)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAuth(&stubValidator{}, discardLogger())(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`, rec.Body.String())
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()

		RequireAuth(&stubValidator{err: errors.New("expired")}, discardLogger())(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("keeps inbound id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	})

	t.Run("assigns id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})
}

func TestSession(t *testing.T) {
	var seen string
	h := Session("cites_session", true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.SessionID(r.Context())
	}))

	t.Run("issues cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, seen, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
	})

	t.Run("reuses cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "cites_session", Value: "0b6f1c1e-4a4e-4d47-9d52-2b1a3e0c9f11"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "0b6f1c1e-4a4e-4d47-9d52-2b1a3e0c9f11", seen)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("replaces tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "cites_session", Value: "../../etc"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.NotEqual(t, "../../etc", seen)
		assert.Len(t, rec.Result().Cookies(), 1)
	})
}

func TestLoggerAndRecover(t *testing.T) {
	m := metrics.New()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(RequestID, Logger(logger, m), Recover(logger, m))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	r.Get("/ok/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Panics))
	assert.Contains(t, buf.String(), "panic serving request")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok/7", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
	assert.Contains(t, buf.String(), `"status":202`)
}
