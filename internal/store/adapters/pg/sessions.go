package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/signon/internal/domain/repository"
)

type sessionRepo struct{ pool *pgxpool.Pool }

func (r *sessionRepo) GetByToken(ctx context.Context, sessionToken string) (*repository.Session, error) {
	const q = `
		SELECT id, user_id, session_token, expires_at, created_at
		FROM sessions WHERE session_token = $1`
	var (
		s   repository.Session
		id  uuid.UUID
		uid uuid.UUID
	)
	err := r.pool.QueryRow(ctx, q, sessionToken).
		Scan(&id, &uid, &s.SessionToken, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.ID = id.String()
	s.UserID = uid.String()
	return &s, nil
}

func (r *sessionRepo) Create(ctx context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	s := repository.Session{
		ID:           uuid.NewString(),
		UserID:       input.UserID,
		SessionToken: input.SessionToken,
		ExpiresAt:    input.ExpiresAt,
		CreatedAt:    time.Now().UTC(),
	}
	const q = `
		INSERT INTO sessions (id, user_id, session_token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, q, s.ID, s.UserID, s.SessionToken, s.ExpiresAt, s.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) UpdateExpiry(ctx context.Context, sessionToken string, expiresAt time.Time) error {
	const q = `UPDATE sessions SET expires_at = $2 WHERE session_token = $1`
	tag, err := r.pool.Exec(ctx, q, sessionToken, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, sessionToken string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE session_token = $1`, sessionToken)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
