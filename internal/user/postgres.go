package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benwis/gatehouse/internal/database/pg"
)

// PostgresStore persists users in the users and user_permissions tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("user: postgres store requires a connection pool")
	}
	return &PostgresStore{pool: pool}
}

const selectUser = `
	SELECT u.id, u.username, u.display_name, u.password_hash,
	       COALESCE(array_agg(p.token) FILTER (WHERE p.token IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_permissions p ON p.user_id = u.id
`

// ByID loads a user by primary key. Returns ErrNotFound when no row matches.
func (s *PostgresStore) ByID(ctx context.Context, id int64) (*User, error) {
	row := s.pool.QueryRow(ctx, selectUser+` WHERE u.id = $1 GROUP BY u.id`, id)
	return scanUser(row)
}

// ByUsername loads a user by exact username. Returns ErrNotFound when no row
// matches.
func (s *PostgresStore) ByUsername(ctx context.Context, username string) (*User, error) {
	row := s.pool.QueryRow(ctx, selectUser+` WHERE u.username = $1 GROUP BY u.id`, username)
	return scanUser(row)
}

// Create inserts a user row and its permission tokens in one transaction.
// The unique index on username decides races between concurrent signups:
// the loser gets ErrDuplicateUsername.
func (s *PostgresStore) Create(ctx context.Context, params CreateParams) (*User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("user: begin create: %w", err)
	}
	defer tx.Rollback(ctx)

	u := &User{
		Username:     params.Username,
		DisplayName:  params.DisplayName,
		PasswordHash: params.PasswordHash,
		Permissions:  params.Permissions,
	}
	if u.Permissions == nil {
		u.Permissions = NewPermissions()
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, display_name, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		params.Username, params.DisplayName, params.PasswordHash,
	).Scan(&u.ID)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("user: insert: %w", err)
	}

	for token := range u.Permissions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_permissions (user_id, token) VALUES ($1, $2)`,
			u.ID, token,
		); err != nil {
			return nil, fmt.Errorf("user: insert permission: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("user: commit create: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		u      User
		tokens []string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &tokens); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user: scan: %w", err)
	}
	u.Permissions = NewPermissions(tokens...)
	return &u, nil
}
