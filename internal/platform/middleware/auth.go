package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"cites/pkg/requestcontext"
)

// TokenValidator validates an identity token and returns who it belongs to.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Identity, error)
}

// Identity is the signed-in contact, and their organisation when acting for one.
type Identity struct {
	ContactID      string
	OrganisationID string
}

// RequireAuth rejects requests without a valid bearer identity token and
// stores the contact and organisation in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			identity, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithContactID(ctx, identity.ContactID)
			if identity.OrganisationID != "" {
				ctx = requestcontext.WithOrganisationID(ctx, identity.OrganisationID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
