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

type userRepo struct{ pool *pgxpool.Pool }

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const q = `
		SELECT id, email, email_verified, name, image, created_at
		FROM users WHERE email = $1`
	return r.scanOne(ctx, q, email)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	const q = `
		SELECT id, email, email_verified, name, image, created_at
		FROM users WHERE id = $1`
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	return r.scanOne(ctx, q, uid)
}

func (r *userRepo) scanOne(ctx context.Context, q string, arg any) (*repository.User, error) {
	var (
		u     repository.User
		id    uuid.UUID
		email *string
	)
	err := r.pool.QueryRow(ctx, q, arg).Scan(&id, &email, &u.EmailVerified, &u.Name, &u.Image, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.ID = id.String()
	if email != nil {
		u.Email = *email
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	u := repository.User{
		ID:            uuid.NewString(),
		Email:         input.Email,
		EmailVerified: input.EmailVerified,
		Name:          input.Name,
		Image:         input.Image,
		CreatedAt:     time.Now().UTC(),
	}
	var email *string
	if u.Email != "" {
		email = &u.Email
	}
	const q = `
		INSERT INTO users (id, email, email_verified, name, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.pool.Exec(ctx, q, u.ID, email, u.EmailVerified, u.Name, u.Image, u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Update(ctx context.Context, id string, input repository.UpdateUserInput) error {
	const q = `
		UPDATE users SET
			email          = COALESCE($2, email),
			email_verified = COALESCE($3, email_verified),
			name           = COALESCE($4, name),
			image          = COALESCE($5, image)
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, input.Email, input.EmailVerified, input.Name, input.Image)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
