package sentinel

import "errors"

// Infrastructure facts returned (optionally wrapped) by stores and upstream
// clients. Services translate them into domain errors at their boundary.
//
// Input problems are not sentinels; use pkg/domain-errors for those.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
