package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/log"
)

// Store is a thin coherence layer over Redis. Values are JSON so any
// reader can decode them without a schema registry. The store is
// treated as non-durable: everything critical written here must be
// reconstructible from the broker or from bolt records.
type Store struct {
	client *redis.Client
	logger zerolog.Logger
}

// renewScript extends a lease expiry only while the caller still owns it.
var renewScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0
`)

// releaseScript deletes a lease only while the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0
`)

// New connects to Redis and verifies the connection with a ping
func New(ctx context.Context, cfg config.StateStore) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to state store at %s: %w", cfg.Address, err)
	}

	return &Store{
		client: client,
		logger: log.WithComponent("statestore"),
	}, nil
}

// NewWithClient wraps an existing client. Used by tests with miniredis.
func NewWithClient(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: log.WithComponent("statestore"),
	}
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	return s.client.Close()
}

// Get reads key into dest. Returns false when the key does not exist.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set writes value under key. A zero ttl means no expiry.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Ping verifies the connection is alive
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("state store unreachable: %w", err)
	}
	return nil
}

// Exists reports whether key is present
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}

// Delete removes the given keys
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// DeleteByPattern scans for keys matching a glob pattern and deletes
// them, returning the number removed. SCAN keeps this safe against
// large keyspaces.
func (s *Store) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += n
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("failed to delete by pattern %s: %w", pattern, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan pattern %s: %w", pattern, err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("failed to delete by pattern %s: %w", pattern, err)
	}
	return deleted, nil
}

// Keys returns keys matching a glob pattern via SCAN
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan pattern %s: %w", pattern, err)
	}
	return keys, nil
}

// GetMany fetches multiple keys in one round trip. Missing keys are
// absent from the result map.
func (s *Store) GetMany(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	if len(keys) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to mget: %w", err)
	}
	result := make(map[string]json.RawMessage, len(keys))
	for i, v := range values {
		if v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			continue
		}
		result[keys[i]] = json.RawMessage(str)
	}
	return result, nil
}

// SetMany writes multiple key/value pairs in a single pipeline. A zero
// ttl means no expiry.
func (s *Store) SetMany(ctx context.Context, values map[string]interface{}, ttl time.Duration) error {
	pipe := s.client.Pipeline()
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		pipe.Set(ctx, key, data, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set batch: %w", err)
	}
	return nil
}

// HGet reads a hash field into dest. Returns false when absent.
func (s *Store) HGet(ctx context.Context, key, field string, dest interface{}) (bool, error) {
	data, err := s.client.HGet(ctx, key, field).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to hget %s/%s: %w", key, field, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s/%s: %w", key, field, err)
	}
	return true, nil
}

// HSet writes a hash field
func (s *Store) HSet(ctx context.Context, key, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", key, field, err)
	}
	if err := s.client.HSet(ctx, key, field, data).Err(); err != nil {
		return fmt.Errorf("failed to hset %s/%s: %w", key, field, err)
	}
	return nil
}

// HGetAll returns all fields of a hash as raw JSON values
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]json.RawMessage, error) {
	values, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to hgetall %s: %w", key, err)
	}
	result := make(map[string]json.RawMessage, len(values))
	for field, v := range values {
		result[field] = json.RawMessage(v)
	}
	return result, nil
}

// HDelete removes hash fields
func (s *Store) HDelete(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, key, fields...).Err(); err != nil {
		return fmt.Errorf("failed to hdel %s: %w", key, err)
	}
	return nil
}

// LPush prepends values to a list
func (s *Store) LPush(ctx context.Context, key string, values ...interface{}) error {
	encoded, err := encodeAll(values)
	if err != nil {
		return fmt.Errorf("failed to encode for lpush %s: %w", key, err)
	}
	if err := s.client.LPush(ctx, key, encoded...).Err(); err != nil {
		return fmt.Errorf("failed to lpush %s: %w", key, err)
	}
	return nil
}

// RPush appends values to a list
func (s *Store) RPush(ctx context.Context, key string, values ...interface{}) error {
	encoded, err := encodeAll(values)
	if err != nil {
		return fmt.Errorf("failed to encode for rpush %s: %w", key, err)
	}
	if err := s.client.RPush(ctx, key, encoded...).Err(); err != nil {
		return fmt.Errorf("failed to rpush %s: %w", key, err)
	}
	return nil
}

// LPop pops from the head of a list into dest. Returns false when the
// list is empty.
func (s *Store) LPop(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.LPop(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lpop %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// RPop pops from the tail of a list into dest. Returns false when the
// list is empty.
func (s *Store) RPop(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.RPop(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to rpop %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// LLen returns the length of a list
func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	n, err := s.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to llen %s: %w", key, err)
	}
	return n, nil
}

// SAdd adds members to a set
func (s *Store) SAdd(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := s.client.SAdd(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("failed to sadd %s: %w", key, err)
	}
	return nil
}

// SRem removes members from a set
func (s *Store) SRem(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := s.client.SRem(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("failed to srem %s: %w", key, err)
	}
	return nil
}

// SContains reports set membership
func (s *Store) SContains(ctx context.Context, key, member string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to sismember %s: %w", key, err)
	}
	return ok, nil
}

// SMembers returns all members of a set
func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to smembers %s: %w", key, err)
	}
	return members, nil
}

// Increment atomically adds delta to a counter and returns the new value
func (s *Store) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	n, err := s.client.IncrBy(ctx, key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to incr %s: %w", key, err)
	}
	return n, nil
}

// AcquireLease takes a lease on resource for owner via put-if-absent.
// Returns false when another owner already holds it. Re-acquiring a
// lease the caller already owns succeeds and refreshes the TTL.
func (s *Store) AcquireLease(ctx context.Context, resource, owner string, ttl time.Duration) (bool, error) {
	key := leaseKey(resource)
	ok, err := s.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lease %s: %w", resource, err)
	}
	if ok {
		return true, nil
	}
	// Not free: it may be our own lease from a previous tick.
	holder, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		// Expired between SETNX and GET; try once more.
		ok, err = s.client.SetNX(ctx, key, owner, ttl).Result()
		if err != nil {
			return false, fmt.Errorf("failed to acquire lease %s: %w", resource, err)
		}
		return ok, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to inspect lease %s: %w", resource, err)
	}
	if holder == owner {
		return s.RenewLease(ctx, resource, owner, ttl)
	}
	return false, nil
}

// RenewLease extends the lease TTL while owner still holds it
func (s *Store) RenewLease(ctx context.Context, resource, owner string, ttl time.Duration) (bool, error) {
	n, err := renewScript.Run(ctx, s.client, []string{leaseKey(resource)}, owner, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to renew lease %s: %w", resource, err)
	}
	return n == 1, nil
}

// ReleaseLease drops the lease if owner still holds it. Releasing a
// lease held by someone else is a no-op.
func (s *Store) ReleaseLease(ctx context.Context, resource, owner string) error {
	if _, err := releaseScript.Run(ctx, s.client, []string{leaseKey(resource)}, owner).Int64(); err != nil {
		return fmt.Errorf("failed to release lease %s: %w", resource, err)
	}
	return nil
}

// LeaseHolder returns the current owner of a lease, or "" when free
func (s *Store) LeaseHolder(ctx context.Context, resource string) (string, error) {
	holder, err := s.client.Get(ctx, leaseKey(resource)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read lease %s: %w", resource, err)
	}
	return holder, nil
}

func leaseKey(resource string) string {
	return resource + ":lease"
}

func encodeAll(values []interface{}) ([]interface{}, error) {
	encoded := make([]interface{}, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		encoded[i] = data
	}
	return encoded, nil
}
