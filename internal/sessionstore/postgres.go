package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/benwis/gatehouse/internal/session"
)

// Postgres persists sessions in the sessions table: id primary key, unique
// token, a serialized attribute blob, and an expiry column for the sweep.
// The upsert on id serializes concurrent writes per session.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Store backed by the given connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	if pool == nil {
		panic("sessionstore: postgres store requires a connection pool")
	}
	return &Postgres{pool: pool}
}

// attributes is the serialized blob. Token and expiry live in their own
// columns because lookups and the GC sweep filter on them.
type attributes struct {
	UserID     int64     `json:"user_id,omitempty"`
	Remembered bool      `json:"remembered,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Postgres) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, token, data, expires_at FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (p *Postgres) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, token, data, expires_at FROM sessions WHERE token = $1`, token)
	return scanSession(row)
}

func (p *Postgres) Save(ctx context.Context, sess *session.Session) error {
	blob, err := json.Marshal(attributes{
		UserID:     sess.UserID,
		Remembered: sess.Remembered,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("sessionstore: marshal attributes: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO sessions (id, token, data, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token, data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`,
		sess.ID, sess.Token, blob, sess.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sessionstore: upsert: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("sessionstore: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("sessionstore: delete expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var (
		sess session.Session
		blob []byte
	)
	if err := row.Scan(&sess.ID, &sess.Token, &blob, &sess.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("sessionstore: scan: %w", err)
	}

	var attrs attributes
	if err := json.Unmarshal(blob, &attrs); err != nil {
		return nil, fmt.Errorf("sessionstore: unmarshal attributes: %w", err)
	}
	sess.UserID = attrs.UserID
	sess.Remembered = attrs.Remembered
	sess.CreatedAt = attrs.CreatedAt
	sess.UpdatedAt = attrs.UpdatedAt

	return &sess, nil
}
