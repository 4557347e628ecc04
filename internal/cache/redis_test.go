package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	InitRedis(mr.Addr())
	require.NotNil(t, GetClient())
	t.Cleanup(func() { client = nil })
}

func TestSetGetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "ana", Count: 3}, time.Minute))

	var got payload
	found, err := GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "ana", Count: 3}, got)

	found, err = GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *[]int) func() error {
		return func() error {
			calls++
			*dest = []int{1, 2, 3}
			return nil
		}
	}

	var first []int
	require.NoError(t, Aside(ctx, "list", &first, time.Minute, fetch(&first)))
	assert.Equal(t, []int{1, 2, 3}, first)
	assert.Equal(t, 1, calls)

	// Second read is served from the cache; fetch is not called again.
	var second []int
	require.NoError(t, Aside(ctx, "list", &second, time.Minute, fetch(&second)))
	assert.Equal(t, []int{1, 2, 3}, second)
	assert.Equal(t, 1, calls)
}

func TestInvalidatePrefix(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ContributionPageKey(1, 10), []int{1}, time.Minute))
	require.NoError(t, SetJSON(ctx, ContributionPageKey(2, 10), []int{2}, time.Minute))
	require.NoError(t, SetJSON(ctx, RankingKey(10), []int{3}, time.Minute))

	InvalidateContributionPages(ctx)

	var dest []int
	found, err := GetJSON(ctx, ContributionPageKey(1, 10), &dest)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = GetJSON(ctx, ContributionPageKey(2, 10), &dest)
	require.NoError(t, err)
	assert.False(t, found)

	// Ranking keys are untouched by a page invalidation.
	found, err = GetJSON(ctx, RankingKey(10), &dest)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestNilClientIsANoop(t *testing.T) {
	client = nil
	ctx := context.Background()

	var dest []int
	found, err := GetJSON(ctx, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(ctx, "k", []int{1}, time.Minute))

	// Aside degrades to a plain fetch.
	calls := 0
	err = Aside(ctx, "k", &dest, time.Minute, func() error {
		calls++
		dest = []int{9}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{9}, dest)
}
