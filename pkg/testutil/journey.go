package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// Journey drives one signed-in user through the wizard over a router, carrying
// the session cookie from response to request. Its steps nest as
// Given/When/Then subtests so a failure names the point of the journey it
// broke at.
type Journey struct {
	handler http.Handler
	token   string
	cookie  *http.Cookie
}

// NewJourney starts a journey whose requests carry bearerToken.
func NewJourney(handler http.Handler, bearerToken string) *Journey {
	return &Journey{handler: handler, token: bearerToken}
}

// Send serves req as the journey's user and keeps any session cookie it sets.
func (j *Journey) Send(req *http.Request) *httptest.ResponseRecorder {
	if j.token != "" {
		req.Header.Set("Authorization", "Bearer "+j.token)
	}
	if j.cookie != nil {
		req.AddCookie(j.cookie)
	}
	rr := DoRequest(j.handler, req)
	if cookies := rr.Result().Cookies(); len(cookies) > 0 {
		j.cookie = cookies[0]
	}
	return rr
}

// Visit requests page.
func (j *Journey) Visit(t *testing.T, page string) *httptest.ResponseRecorder {
	t.Helper()
	return j.Send(NewRequest(t, http.MethodGet, page))
}

// Answer posts data from page the way the page's form does.
func (j *Journey) Answer(t *testing.T, page string, data map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	return j.Send(NewJSONRequest(t, http.MethodPost, page, map[string]any{"data": data}))
}

func (j *Journey) Given(t *testing.T, state string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+state, fn)
}

func (j *Journey) When(t *testing.T, action string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+action, fn)
}

func (j *Journey) Then(t *testing.T, outcome string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+outcome, fn)
}
