package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/benwis/gatehouse/internal/session"
)

const (
	redisIDPrefix    = "session:id:"
	redisTokenPrefix = "session:token:"
)

// Redis stores sessions as JSON values with native key expiry, plus a
// token index key resolving the cookie token to the session id. Expired
// entries vanish on their own, so DeleteExpired has nothing to sweep.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis creates a Store backed by the given client.
func NewRedis(client redis.UniversalClient) *Redis {
	if client == nil {
		panic("sessionstore: redis store requires a client")
	}
	return &Redis{client: client}
}

type redisRecord struct {
	ID         uuid.UUID `json:"id"`
	Token      string    `json:"token"`
	UserID     int64     `json:"user_id,omitempty"`
	Remembered bool      `json:"remembered,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Redis) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	return r.load(ctx, redisIDPrefix+id.String())
}

func (r *Redis) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	id, err := r.client.Get(ctx, redisTokenPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("sessionstore: redis get token: %w", err)
	}

	sess, err := r.load(ctx, redisIDPrefix+id)
	if err != nil {
		return nil, err
	}
	// A stale index after token rotation must not resolve to the session.
	if sess.Token != token {
		r.client.Del(ctx, redisTokenPrefix+token)
		return nil, session.ErrNotFound
	}
	return sess, nil
}

func (r *Redis) Save(ctx context.Context, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return session.ErrExpired
	}

	blob, err := json.Marshal(redisRecord{
		ID:         sess.ID,
		Token:      sess.Token,
		UserID:     sess.UserID,
		Remembered: sess.Remembered,
		ExpiresAt:  sess.ExpiresAt,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("sessionstore: marshal record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, redisIDPrefix+sess.ID.String(), blob, ttl)
	pipe.Set(ctx, redisTokenPrefix+sess.Token, sess.ID.String(), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("sessionstore: redis save: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, redisIDPrefix+id.String())
	pipe.Del(ctx, redisTokenPrefix+sess.Token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("sessionstore: redis delete: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: redis expires session keys natively.
func (r *Redis) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (r *Redis) load(ctx context.Context, key string) (*session.Session, error) {
	blob, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("sessionstore: redis get: %w", err)
	}

	var rec redisRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, fmt.Errorf("sessionstore: unmarshal record: %w", err)
	}

	return &session.Session{
		ID:         rec.ID,
		Token:      rec.Token,
		UserID:     rec.UserID,
		Remembered: rec.Remembered,
		ExpiresAt:  rec.ExpiresAt,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}
