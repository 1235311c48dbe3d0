package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockCache handles Redis operations for survey edit locks. A lock belongs
// to one editing session; it expires on its own if the holder stops
// renewing it.
type LockCache interface {
	Acquire(ctx context.Context, surveyID, sessionID string, ttl time.Duration) (bool, error)
	Renew(ctx context.Context, surveyID, sessionID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, surveyID, sessionID string) error
	Holder(ctx context.Context, surveyID string) (string, error)
}

type lockCache struct {
	client *redis.Client
}

// Renewal and release must check the holder and write in one step; a
// GET-then-EXPIRE pair could touch a lock that expired and was re-acquired
// in between.
var renewLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0`)

var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// NewLockCache creates a new edit lock cache
func NewLockCache(client *redis.Client) LockCache {
	return &lockCache{
		client: client,
	}
}

func (c *lockCache) key(surveyID string) string {
	return fmt.Sprintf("editlock:%s", surveyID)
}

func (c *lockCache) Acquire(ctx context.Context, surveyID, sessionID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, c.key(surveyID), sessionID, ttl).Result()
}

// Renew extends the lock only while this session still holds it.
func (c *lockCache) Renew(ctx context.Context, surveyID, sessionID string, ttl time.Duration) (bool, error) {
	res, err := renewLockScript.Run(ctx, c.client, []string{c.key(surveyID)}, sessionID, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (c *lockCache) Release(ctx context.Context, surveyID, sessionID string) error {
	return releaseLockScript.Run(ctx, c.client, []string{c.key(surveyID)}, sessionID).Err()
}

// Holder returns the session id holding the lock, or "" when unlocked.
func (c *lockCache) Holder(ctx context.Context, surveyID string) (string, error) {
	holder, err := c.client.Get(ctx, c.key(surveyID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return holder, nil
}
