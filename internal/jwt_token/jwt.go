package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "cites/pkg/domain-errors"
)

// Claims is the identity token issued after the OIDC sign-in. The CRM
// contact is the subject; organisationId is absent for individuals.
type Claims struct {
	ContactID      string `json:"contactId"`
	OrganisationID string `json:"organisationId,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and validates HS256 identity tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateIdentityToken is used by local tooling and tests; production tokens
// come from the identity provider with the same shape.
func (s *JWTService) GenerateIdentityToken(contactID, organisationID string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ContactID:      contactID,
		OrganisationID: organisationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   contactID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.ContactID == "" {
		claims.ContactID = claims.Subject
	}
	if claims.ContactID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no contact")
	}
	return claims, nil
}
