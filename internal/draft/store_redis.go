package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexbid/auction-signup/internal/model"
)

// draftKeyPrefix namespaces draft sessions in Redis.
const draftKeyPrefix = "signup:draft:"

// RedisStore keeps draft sessions as JSON values with a TTL.  Expiry of the
// key is how an abandoned draft (and its image asset) gets discarded.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore wraps an existing client.  The TTL is applied on every save
// so an active session keeps sliding forward.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func draftKey(id string) string { return draftKeyPrefix + id }

// Create opens a new draft session and writes its zero state.
func (s *RedisStore) Create(ctx context.Context) (*model.Draft, error) {
	d := newDraft()
	if err := s.write(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get loads and decodes a draft, or returns ErrDraftNotFound when the key
// is missing or expired.
func (s *RedisStore) Get(ctx context.Context, id string) (*model.Draft, error) {
	raw, err := s.rdb.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get draft: %w", err)
	}
	var d model.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

// updateRetries bounds the optimistic WATCH loop in Update.  Contention on
// a single draft is rare (one user, one form), so a handful of retries is
// plenty.
const updateRetries = 5

// Update applies fn under a WATCH on the draft key, so a competing writer
// landing between the read and the write aborts the transaction and the
// loop retries against the fresh state.  An expired session surfaces as
// ErrDraftNotFound instead of being silently resurrected.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(d *model.Draft) error) error {
	key := draftKey(id)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrDraftNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get draft: %w", err)
		}
		var d model.Draft
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("decode draft: %w", err)
		}
		if err := fn(&d); err != nil {
			return err
		}
		d.UpdatedAt = time.Now().UTC()
		out, err := json.Marshal(&d)
		if err != nil {
			return fmt.Errorf("encode draft: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		return err
	}
	for i := 0; i < updateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("redis update draft %s: transaction kept failing", id)
}

// Delete discards the draft.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, d *model.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.rdb.Set(ctx, draftKey(d.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}
