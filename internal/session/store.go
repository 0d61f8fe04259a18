// Package session holds per-browser-session state: the submission being
// edited and the active change route.
package session

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys under which the submission engine stores its state.
const (
	KeySubmission  = "submission"
	KeyChangeRoute = "changeRouteData"
)

// Store is a keyed bag of JSON values per session. Get reports false when the
// key is absent.
type Store interface {
	Get(ctx context.Context, sessionID, key string, dest any) (bool, error)
	Set(ctx context.Context, sessionID, key string, value any) error
	Delete(ctx context.Context, sessionID, key string) error
	Reset(ctx context.Context, sessionID string) error
}

func encode(key string, value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode session value %s: %w", key, err)
	}
	return raw, nil
}

func decode(key string, raw []byte, dest any) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode session value %s: %w", key, err)
	}
	return nil
}
