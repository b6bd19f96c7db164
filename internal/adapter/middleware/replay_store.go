package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"compliance-portal/internal/domain/organization"

	"github.com/redis/go-redis/v9"
)

// reservation bounds how long a crashed handler can block its request id.
const reservation = 60 * time.Second

// replayEntry is what redis holds for one request id: a reservation while
// the handler runs, then the final response.
type replayEntry struct {
	Pending     bool      `json:"pending"`
	Status      int       `json:"status,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	Digest      string    `json:"digest"`
	RequestAtMS int64     `json:"request_at_ms"`
	StoredAt    time.Time `json:"stored_at"`
}

func (e replayEntry) replay() bool { return !e.Pending && e.Status != 0 && len(e.Body) > 0 }

type replayStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func replayKey(method, route string, org organization.Code, requestID string) string {
	return strings.Join([]string{"portal", "idem", strings.ToLower(method), route, org.String(), requestID}, ":")
}

// reserve claims key for the running request. False means another request
// already holds or completed it.
func (s replayStore) reserve(ctx context.Context, key string, e replayEntry) (bool, error) {
	e.Pending = true
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, reservation).Result()
}

// lookup returns the stored entry, or false when the key expired in between.
func (s replayStore) lookup(ctx context.Context, key string) (replayEntry, bool, error) {
	var e replayEntry
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, false, err
	}
	return e, true, nil
}

func (s replayStore) complete(ctx context.Context, key string, e replayEntry) error {
	e.Pending = false
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
