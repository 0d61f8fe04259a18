package testutil

import (
	"net/http"

	"cites/pkg/requestcontext"
)

// WithSignedIn puts the identity the auth and session middleware would set onto
// the request context.
func WithSignedIn(req *http.Request, contactID, organisationID, sessionID string) *http.Request {
	ctx := req.Context()
	if contactID != "" {
		ctx = requestcontext.WithContactID(ctx, contactID)
	}
	if organisationID != "" {
		ctx = requestcontext.WithOrganisationID(ctx, organisationID)
	}
	if sessionID != "" {
		ctx = requestcontext.WithSessionID(ctx, sessionID)
	}
	return req.WithContext(ctx)
}
