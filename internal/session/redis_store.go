package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func key(device string) string     { return fmt.Sprintf("muontra:session:%s", device) }
func accountSetKey(id int32) string { return fmt.Sprintf("muontra:account_sessions:%d", id) }

// RedisStore keeps the session under muontra:session:<device> with a TTL. Each account also
// has a set of its devices so every session of an account can be revoked at once.
type RedisStore struct {
	rdb    *redis.Client
	device string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, device string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, device: device, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(s.device), b, s.ttl)
	pipe.SAdd(ctx, accountSetKey(sess.AccountID), s.device)
	pipe.Expire(ctx, accountSetKey(sess.AccountID), s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context) (Session, error) {
	b, err := s.rdb.Get(ctx, key(s.device)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	sess, _ := s.Get(ctx)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(s.device))
	if sess.LoggedIn() {
		pipe.SRem(ctx, accountSetKey(sess.AccountID), s.device)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAll removes the sessions of every device logged in as accountID.
func (s *RedisStore) RevokeAll(ctx context.Context, accountID int32) (int, error) {
	devices, err := s.rdb.SMembers(ctx, accountSetKey(accountID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}

	pipe := s.rdb.TxPipeline()
	for _, device := range devices {
		pipe.Del(ctx, key(device))
	}
	pipe.Del(ctx, accountSetKey(accountID))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return len(devices), nil
}
