package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/draft"
	"github.com/redis/go-redis/v9"
)

// submittedTTL is how long a submitted draft id stays unusable.
const submittedTTL = 7 * 24 * time.Hour

// saveDraftScript writes the draft only while no submission is in flight
// and none has completed for it.
var saveDraftScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 1
end
if redis.call("EXISTS", KEYS[3]) == 1 then
	return 2
end
if tonumber(ARGV[2]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 0
`)

type RedisCache struct {
	client       *redis.Client
	referenceTTL time.Duration
	draftTTL     time.Duration
}

func NewRedisCache(cfg config.RedisConfig, referenceTTL, draftTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		referenceTTL, draftTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, referenceTTL, draftTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, referenceTTL: referenceTTL, draftTTL: draftTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetTicketTypes returns nil, nil on a miss.
func (c *RedisCache) GetTicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error) {
	var types []domain.TicketType
	ok, err := c.getJSON(ctx, ticketTypesKey(flightID), &types)
	if err != nil || !ok {
		return nil, err
	}
	return types, nil
}

func (c *RedisCache) SetTicketTypes(ctx context.Context, flightID int64, types []domain.TicketType) error {
	return c.setJSON(ctx, ticketTypesKey(flightID), types, c.referenceTTL)
}

// GetAddons returns nil, nil on a miss.
func (c *RedisCache) GetAddons(ctx context.Context) ([]domain.AddonCategory, error) {
	var categories []domain.AddonCategory
	ok, err := c.getJSON(ctx, addonsKey(), &categories)
	if err != nil || !ok {
		return nil, err
	}
	return categories, nil
}

func (c *RedisCache) SetAddons(ctx context.Context, categories []domain.AddonCategory) error {
	return c.setJSON(ctx, addonsKey(), categories, c.referenceTTL)
}

func (c *RedisCache) GetDraft(ctx context.Context, draftID string) (*draft.Draft, error) {
	var d draft.Draft
	ok, err := c.getJSON(ctx, draftKey(draftID), &d)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return &d, nil
}

// SaveDraft stores the draft and restarts its TTL. It fails with
// ErrDraftSubmitted once the draft has been booked and with
// ErrSubmissionInFlight while a submission holds the lock.
func (c *RedisCache) SaveDraft(ctx context.Context, d *draft.Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	keys := []string{draftKey(d.ID), submittedKey(d.ID), submitLockKey(d.ID)}
	res, err := saveDraftScript.Run(ctx, c.client, keys, payload, c.draftTTL.Milliseconds()).Int()
	if err != nil {
		return err
	}
	switch res {
	case 1:
		return domain.ErrDraftSubmitted
	case 2:
		return domain.ErrSubmissionInFlight
	}
	return nil
}

func (c *RedisCache) DeleteDraft(ctx context.Context, draftID string) error {
	return c.client.Del(ctx, draftKey(draftID)).Err()
}

func (c *RedisCache) AcquireSubmitLock(ctx context.Context, draftID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, submitLockKey(draftID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSubmitLock(ctx context.Context, draftID string) error {
	return c.client.Del(ctx, submitLockKey(draftID)).Err()
}

// MarkSubmitted records that draftID produced bookingID.
func (c *RedisCache) MarkSubmitted(ctx context.Context, draftID string, bookingID int64) error {
	return c.client.Set(ctx, submittedKey(draftID), bookingID, submittedTTL).Err()
}

func (c *RedisCache) Submitted(ctx context.Context, draftID string) (bool, error) {
	n, err := c.client.Exists(ctx, submittedKey(draftID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisCache) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func ticketTypesKey(flightID int64) string {
	return fmt.Sprintf("cache:ticket-types:flight:%d", flightID)
}

func addonsKey() string {
	return "cache:addons"
}

func draftKey(draftID string) string {
	return "draft:" + draftID
}

func submitLockKey(draftID string) string {
	return fmt.Sprintf("lock:draft:%s:submit", draftID)
}

func submittedKey(draftID string) string {
	return fmt.Sprintf("draft:%s:submitted", draftID)
}
