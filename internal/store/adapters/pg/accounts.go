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

type accountRepo struct{ pool *pgxpool.Pool }

func (r *accountRepo) GetByProvider(ctx context.Context, provider, providerAccountID string) (*repository.Account, error) {
	const q = `
		SELECT id, user_id, type, provider, provider_account_id, created_at
		FROM accounts WHERE provider = $1 AND provider_account_id = $2`
	var (
		a      repository.Account
		id     uuid.UUID
		userID uuid.UUID
	)
	err := r.pool.QueryRow(ctx, q, provider, providerAccountID).
		Scan(&id, &userID, &a.Type, &a.Provider, &a.ProviderAccountID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.ID = id.String()
	a.UserID = userID.String()
	return &a, nil
}

func (r *accountRepo) ListByUser(ctx context.Context, userID string) ([]repository.Account, error) {
	const q = `
		SELECT id, user_id, type, provider, provider_account_id, created_at
		FROM accounts WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Account
	for rows.Next() {
		var (
			a   repository.Account
			id  uuid.UUID
			uid uuid.UUID
		)
		if err := rows.Scan(&id, &uid, &a.Type, &a.Provider, &a.ProviderAccountID, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.ID = id.String()
		a.UserID = uid.String()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountRepo) Link(ctx context.Context, input repository.LinkAccountInput) (*repository.Account, error) {
	a := repository.Account{
		ID:                uuid.NewString(),
		UserID:            input.UserID,
		Type:              input.Type,
		Provider:          input.Provider,
		ProviderAccountID: input.ProviderAccountID,
		CreatedAt:         time.Now().UTC(),
	}
	const q = `
		INSERT INTO accounts (id, user_id, type, provider, provider_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.pool.Exec(ctx, q, a.ID, a.UserID, a.Type, a.Provider, a.ProviderAccountID, a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) Unlink(ctx context.Context, provider, providerAccountID string) error {
	const q = `DELETE FROM accounts WHERE provider = $1 AND provider_account_id = $2`
	tag, err := r.pool.Exec(ctx, q, provider, providerAccountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
