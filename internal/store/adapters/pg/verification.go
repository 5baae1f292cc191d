package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/signon/internal/domain/repository"
)

type tokenRepo struct{ pool *pgxpool.Pool }

func (r *tokenRepo) Get(ctx context.Context, identifier, tokenHash string) (*repository.VerificationToken, error) {
	const q = `
		SELECT identifier, token_hash, expires_at, created_at
		FROM verification_tokens WHERE identifier = $1 AND token_hash = $2`
	var t repository.VerificationToken
	err := r.pool.QueryRow(ctx, q, identifier, tokenHash).
		Scan(&t.Identifier, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) Create(ctx context.Context, input repository.CreateVerificationTokenInput) (*repository.VerificationToken, error) {
	t := repository.VerificationToken{
		Identifier: input.Identifier,
		TokenHash:  input.TokenHash,
		ExpiresAt:  input.ExpiresAt,
		CreatedAt:  time.Now().UTC(),
	}
	// Re-emitir invalida cualquier challenge previo del mismo identifier.
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM verification_tokens WHERE identifier = $1`, t.Identifier); err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO verification_tokens (identifier, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, q, t.Identifier, t.TokenHash, t.ExpiresAt, t.CreatedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) Consume(ctx context.Context, identifier, tokenHash string) (*repository.VerificationToken, error) {
	// DELETE ... RETURNING garantiza one-time use aun con consumos
	// concurrentes: solo un request obtiene la fila.
	const q = `
		DELETE FROM verification_tokens
		WHERE identifier = $1 AND token_hash = $2
		RETURNING identifier, token_hash, expires_at, created_at`
	var t repository.VerificationToken
	err := r.pool.QueryRow(ctx, q, identifier, tokenHash).
		Scan(&t.Identifier, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(t.ExpiresAt) {
		return nil, repository.ErrTokenExpired
	}
	return &t, nil
}

func (r *tokenRepo) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
