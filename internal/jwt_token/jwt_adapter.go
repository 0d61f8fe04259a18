package jwttoken

import (
	"cites/internal/platform/middleware"
)

// ToIdentity maps validated claims onto what the auth middleware stores.
func ToIdentity(claims *Claims) *middleware.Identity {
	return &middleware.Identity{
		ContactID:      claims.ContactID,
		OrganisationID: claims.OrganisationID,
	}
}

// JWTServiceAdapter satisfies middleware.TokenValidator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.Identity, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToIdentity(claims), nil
}
