package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

var errNotConfigured = errors.New("redis session store not configured")

// RedisSessionStore implements auth.SessionStore using Redis:
// - The session id is opaque (random).
// - Redis stores: sess:<sid> -> <uid> with TTL
// - Nothing else lives in the session; role is re-read from the user store.
type RedisSessionStore struct {
	rdb *goredis.Client

	prefix string

	// entropy bytes for the session id
	idBytes int
}

func NewRedisSessionStore(c *Client) *RedisSessionStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &RedisSessionStore{
		rdb:     rdb,
		prefix:  "sess:",
		idBytes: 32, // 256-bit
	}
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", domain.ErrMissingField("user_id")
	}
	if s.rdb == nil {
		return "", errNotConfigured
	}

	sid, err := s.newSessionID()
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	// SETNX guards the (practically impossible) id collision
	ok, err := s.rdb.SetNX(ctx, s.prefix+sid, userID, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("session id collision")
	}
	return sid, nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, sid string) (string, bool, error) {
	if sid == "" {
		return "", false, nil
	}
	if s.rdb == nil {
		return "", false, errNotConfigured
	}

	uid, err := s.rdb.Get(ctx, s.prefix+sid).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	if uid == "" {
		return "", false, nil
	}
	return uid, true, nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, sid string) error {
	if sid == "" {
		// idempotent
		return nil
	}
	if s.rdb == nil {
		return errNotConfigured
	}
	return s.rdb.Del(ctx, s.prefix+sid).Err()
}

func (s *RedisSessionStore) newSessionID() (string, error) {
	b := make([]byte, s.idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// URL-safe, no padding
	return base64.RawURLEncoding.EncodeToString(b), nil
}
