package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/signon/internal/domain/repository"
)

func (c *Connection) Users() repository.UserRepository       { return &userRepo{c: c} }
func (c *Connection) Accounts() repository.AccountRepository { return &accountRepo{c: c} }
func (c *Connection) Sessions() repository.SessionRepository { return &sessionRepo{c: c} }
func (c *Connection) VerificationTokens() repository.VerificationTokenRepository {
	return &tokenRepo{c: c}
}

// ─── Users ───

type userRepo struct{ c *Connection }

func (r *userRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	var u repository.User
	_, ok, err := r.c.users.findOne(map[string]any{"Email": email}, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*repository.User, error) {
	var u repository.User
	ok, err := r.c.users.get(id, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(_ context.Context, input repository.CreateUserInput) (*repository.User, error) {
	r.c.writeMu.Lock()
	defer r.c.writeMu.Unlock()
	u := repository.User{
		ID:            uuid.NewString(),
		Email:         input.Email,
		EmailVerified: input.EmailVerified,
		Name:          input.Name,
		Image:         input.Image,
		CreatedAt:     time.Now().UTC(),
	}
	if input.Email != "" {
		if _, dup, err := r.c.users.findOne(map[string]any{"Email": input.Email}, &repository.User{}); err != nil {
			return nil, err
		} else if dup {
			return nil, repository.ErrConflict
		}
	}
	if err := r.c.users.put(u.ID, u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Update(_ context.Context, id string, input repository.UpdateUserInput) error {
	var u repository.User
	ok, err := r.c.users.get(id, &u)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.EmailVerified != nil {
		u.EmailVerified = input.EmailVerified
	}
	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Image != nil {
		u.Image = *input.Image
	}
	return r.c.users.put(id, u)
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	if !r.c.users.delete(id) {
		return repository.ErrNotFound
	}
	return nil
}

// ─── Accounts ───

type accountRepo struct{ c *Connection }

func (r *accountRepo) GetByProvider(_ context.Context, provider, providerAccountID string) (*repository.Account, error) {
	var a repository.Account
	_, ok, err := r.c.accounts.findOne(map[string]any{
		"Provider":          provider,
		"ProviderAccountID": providerAccountID,
	}, &a)
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) ListByUser(_ context.Context, userID string) ([]repository.Account, error) {
	docs := r.c.accounts.findDocs(map[string]any{"UserID": userID})
	out := make([]repository.Account, 0, len(docs))
	for _, doc := range docs {
		var a repository.Account
		if err := r.c.accounts.cod.decode(doc, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *accountRepo) Link(_ context.Context, input repository.LinkAccountInput) (*repository.Account, error) {
	r.c.writeMu.Lock()
	defer r.c.writeMu.Unlock()
	if _, dup, err := r.c.accounts.findOne(map[string]any{
		"Provider":          input.Provider,
		"ProviderAccountID": input.ProviderAccountID,
	}, &repository.Account{}); err != nil {
		return nil, err
	} else if dup {
		return nil, repository.ErrConflict
	}
	a := repository.Account{
		ID:                uuid.NewString(),
		UserID:            input.UserID,
		Type:              input.Type,
		Provider:          input.Provider,
		ProviderAccountID: input.ProviderAccountID,
		CreatedAt:         time.Now().UTC(),
	}
	if err := r.c.accounts.put(a.ID, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) Unlink(_ context.Context, provider, providerAccountID string) error {
	key, ok, err := r.c.accounts.findOne(map[string]any{
		"Provider":          provider,
		"ProviderAccountID": providerAccountID,
	}, &repository.Account{})
	if err != nil {
		return err
	}
	if !ok || !r.c.accounts.delete(key) {
		return repository.ErrNotFound
	}
	return nil
}

// ─── Sessions ───

type sessionRepo struct{ c *Connection }

func (r *sessionRepo) GetByToken(_ context.Context, sessionToken string) (*repository.Session, error) {
	var s repository.Session
	_, ok, err := r.c.sessions.findOne(map[string]any{"SessionToken": sessionToken}, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) Create(_ context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	r.c.writeMu.Lock()
	defer r.c.writeMu.Unlock()
	if _, dup, err := r.c.sessions.findOne(map[string]any{"SessionToken": input.SessionToken}, &repository.Session{}); err != nil {
		return nil, err
	} else if dup {
		return nil, repository.ErrConflict
	}
	s := repository.Session{
		ID:           uuid.NewString(),
		UserID:       input.UserID,
		SessionToken: input.SessionToken,
		ExpiresAt:    input.ExpiresAt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.c.sessions.put(s.ID, s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) UpdateExpiry(_ context.Context, sessionToken string, expiresAt time.Time) error {
	var s repository.Session
	key, ok, err := r.c.sessions.findOne(map[string]any{"SessionToken": sessionToken}, &s)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	s.ExpiresAt = expiresAt
	return r.c.sessions.put(key, s)
}

func (r *sessionRepo) Delete(_ context.Context, sessionToken string) error {
	key, ok, err := r.c.sessions.findOne(map[string]any{"SessionToken": sessionToken}, &repository.Session{})
	if err != nil {
		return err
	}
	if !ok || !r.c.sessions.delete(key) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) DeleteExpired(_ context.Context) (int, error) {
	now := time.Now()
	var decodeErr error
	n := r.c.sessions.deleteWhere(func(doc map[string]any) bool {
		var s repository.Session
		if err := r.c.sessions.cod.decode(doc, &s); err != nil {
			decodeErr = err
			return false
		}
		return now.After(s.ExpiresAt)
	})
	return n, decodeErr
}

// ─── Verification tokens ───

// tokenKey compone la clave primaria (identifier, tokenHash).
func tokenKey(identifier, tokenHash string) string {
	return identifier + "\x00" + tokenHash
}

type tokenRepo struct{ c *Connection }

func (r *tokenRepo) Get(_ context.Context, identifier, tokenHash string) (*repository.VerificationToken, error) {
	var t repository.VerificationToken
	ok, err := r.c.tokens.get(tokenKey(identifier, tokenHash), &t)
	if err != nil || !ok {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) Create(_ context.Context, input repository.CreateVerificationTokenInput) (*repository.VerificationToken, error) {
	// Un challenge previo para el mismo identifier queda invalidado:
	// solo el último link emitido es canjeable.
	r.c.tokens.deleteWhere(func(doc map[string]any) bool {
		return doc["Identifier"] == input.Identifier
	})
	t := repository.VerificationToken{
		Identifier: input.Identifier,
		TokenHash:  input.TokenHash,
		ExpiresAt:  input.ExpiresAt,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.c.tokens.put(tokenKey(t.Identifier, t.TokenHash), t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) Consume(_ context.Context, identifier, tokenHash string) (*repository.VerificationToken, error) {
	var t repository.VerificationToken
	ok, err := r.c.tokens.take(tokenKey(identifier, tokenHash), &t)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	if time.Now().After(t.ExpiresAt) {
		return nil, repository.ErrTokenExpired
	}
	return &t, nil
}

func (r *tokenRepo) DeleteExpired(_ context.Context) (int, error) {
	now := time.Now()
	var decodeErr error
	n := r.c.tokens.deleteWhere(func(doc map[string]any) bool {
		var t repository.VerificationToken
		if err := r.c.tokens.cod.decode(doc, &t); err != nil {
			decodeErr = err
			return false
		}
		return now.After(t.ExpiresAt)
	})
	return n, decodeErr
}
