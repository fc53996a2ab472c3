package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/draft"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "cache:ticket-types:flight:7", ticketTypesKey(7))
	assert.Equal(t, "cache:addons", addonsKey())
	assert.Equal(t, "draft:abc", draftKey("abc"))
	assert.Equal(t, "lock:draft:abc:submit", submitLockKey("abc"))
	assert.Equal(t, "draft:abc:submitted", submittedKey("abc"))
}

func TestRedisCache_UnreachableServerSurfacesErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheWithClient(client, time.Minute, time.Hour)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()

	_, err := c.GetTicketTypes(ctx, 1)
	require.Error(t, err)

	err = c.SaveDraft(ctx, draft.New("d1", 1))
	require.Error(t, err)

	ok, err := c.AcquireSubmitLock(ctx, "d1", time.Second)
	require.Error(t, err)
	assert.False(t, ok)

	require.Error(t, c.MarkSubmitted(ctx, "d1", 55))
	submitted, err := c.Submitted(ctx, "d1")
	require.Error(t, err)
	assert.False(t, submitted)
}
