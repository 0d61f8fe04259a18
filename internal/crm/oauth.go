package crm

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// contextWithClient makes the oauth2 package fetch tokens with hc.
func contextWithClient(ctx context.Context, hc *http.Client) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, hc)
}
