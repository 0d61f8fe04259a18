package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cites/internal/submission/models"
	"cites/pkg/platform/sentinel"
	"cites/pkg/platform/tx"
)

//go:embed schema.sql
var schemaSQL string

const (
	upsertDraftSQL = `INSERT INTO submission_drafts (user_key, submission, save_point_url, saved_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_key) DO UPDATE
SET submission = EXCLUDED.submission, save_point_url = EXCLUDED.save_point_url, saved_at = EXCLUDED.saved_at`
	selectDraftSQL = `SELECT submission, save_point_url, saved_at FROM submission_drafts WHERE user_key = $1`
	existsDraftSQL = `SELECT EXISTS (SELECT 1 FROM submission_drafts WHERE user_key = $1)`
	deleteDraftSQL = `DELETE FROM submission_drafts WHERE user_key = $1`
)

// PostgresStore persists drafts in PostgreSQL. It joins a transaction carried
// in the context when there is one.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed draft store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the drafts table if it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		for _, stmt := range strings.Split(schemaSQL, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply draft schema: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) Save(ctx context.Context, userKey string, draft models.Draft) error {
	raw, err := json.Marshal(draft.Submission)
	if err != nil {
		return fmt.Errorf("marshal draft submission: %w", err)
	}
	_, err = tx.Executor(ctx, s.db).ExecContext(ctx, upsertDraftSQL, userKey, raw, draft.SavePointURL, draft.SavedAt.UTC())
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userKey string) (*models.Draft, error) {
	var (
		raw       []byte
		savePoint string
		savedAt   time.Time
	)
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx, selectDraftSQL, userKey).Scan(&raw, &savePoint, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var sub models.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("unmarshal draft submission: %w", err)
	}
	return &models.Draft{Submission: &sub, SavePointURL: savePoint, SavedAt: savedAt}, nil
}

func (s *PostgresStore) Exists(ctx context.Context, userKey string) (bool, error) {
	var exists bool
	if err := tx.Executor(ctx, s.db).QueryRowContext(ctx, existsDraftSQL, userKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("check draft: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userKey string) error {
	if _, err := tx.Executor(ctx, s.db).ExecContext(ctx, deleteDraftSQL, userKey); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
