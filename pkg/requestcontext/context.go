// Package requestcontext holds request-scoped values set by middleware and read
// by services, without pulling net/http into the service layer.
//
//	contactID := requestcontext.ContactID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	contactIDKey      struct{}
	organisationIDKey struct{}
	sessionIDKey      struct{}
	requestIDKey      struct{}
	requestTimeKey    struct{}
)

// Exported keys for tests that need context.WithValue.
var (
	ContextKeyContactID      = contactIDKey{}
	ContextKeyOrganisationID = organisationIDKey{}
	ContextKeySessionID      = sessionIDKey{}
	ContextKeyRequestID      = requestIDKey{}
	ContextKeyRequestTime    = requestTimeKey{}
)

// ContactID is the CRM contact of the signed-in applicant or agent.
func ContactID(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyContactID).(string)
	return v
}

func WithContactID(ctx context.Context, contactID string) context.Context {
	return context.WithValue(ctx, ContextKeyContactID, contactID)
}

// OrganisationID is empty for individuals.
func OrganisationID(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyOrganisationID).(string)
	return v
}

func WithOrganisationID(ctx context.Context, organisationID string) context.Context {
	return context.WithValue(ctx, ContextKeyOrganisationID, organisationID)
}

// SessionID is the browser session the in-progress submission is keyed by.
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeySessionID).(string)
	return v
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ContextKeySessionID, sessionID)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyRequestID).(string)
	return v
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now returns the request time, falling back to time.Now outside HTTP
// (workers, tests without injected time).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
