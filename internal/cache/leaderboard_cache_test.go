package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garudlab/sweepquiz/internal/models"
)

func newTestCache(t *testing.T) (*LeaderboardCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLeaderboardCache(client, time.Minute), mr
}

func TestCount_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := c.GetCount(ctx)
	assert.False(t, ok)

	c.SetCount(ctx, 17)
	count, ok := c.GetCount(ctx)
	require.True(t, ok)
	assert.Equal(t, 17, count)
}

func TestFirstPage_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	page := models.LeaderboardPage{
		Entries: []models.LeaderboardEntry{
			{ID: "abc", Username: "gene_hunter", Accuracy: 87.5, Matrix: models.ZeroMatrix()},
		},
		StartCursor: "c1",
		EndCursor:   "c1",
	}
	c.SetFirstPage(ctx, page)

	got, ok := c.GetFirstPage(ctx)
	require.True(t, ok)
	assert.Equal(t, page.StartCursor, got.StartCursor)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "gene_hunter", got.Entries[0].Username)
}

func TestFirstPage_CorruptPayloadIsAMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(firstPageKey, "{{nope"))

	_, ok := c.GetFirstPage(ctx)
	assert.False(t, ok)
}

func TestInvalidate_DropsBothKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.SetCount(ctx, 5)
	c.SetFirstPage(ctx, models.LeaderboardPage{})
	c.Invalidate(ctx)

	_, ok := c.GetCount(ctx)
	assert.False(t, ok)
	_, ok = c.GetFirstPage(ctx)
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.SetCount(ctx, 3)
	mr.FastForward(2 * time.Minute)

	_, ok := c.GetCount(ctx)
	assert.False(t, ok)
}
