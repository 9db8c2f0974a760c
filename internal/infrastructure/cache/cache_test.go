package cache_test

import (
	"context"
	"errors"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicemarket/internal/infrastructure/cache"
)

// mapCache stores JSON like RedisCache does, so Fetch round-trips real values.
type mapCache struct {
	data   map[string][]byte
	getErr error
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (m *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return jsoniter.Unmarshal(raw, dest)
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := jsoniter.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestFetch_LoadsOnceThenHits(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	loads := 0
	load := func(context.Context) ([]*item, error) {
		loads++
		return []*item{{ID: "a", Name: "Alpha"}}, nil
	}

	first, err := cache.Fetch(ctx, c, "items", load)
	require.NoError(t, err)
	second, err := cache.Fetch(ctx, c, "items", load)
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
	assert.Equal(t, first, second)

	cache.Invalidate(ctx, c, "items")
	_, err = cache.Fetch(ctx, c, "items", load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestFetch_CacheFailureFallsBackToLoad(t *testing.T) {
	c := newMapCache()
	c.getErr = errors.New("connection refused")

	got, err := cache.Fetch(context.Background(), c, "k", func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestFetch_LoadErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	boom := errors.New("store down")

	_, err := cache.Fetch(ctx, c, "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, c.data)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c cache.Cache = cache.Noop{}
	require.NoError(t, c.Set(ctx, "k", 1))

	var out int
	assert.ErrorIs(t, c.Get(ctx, "k", &out), cache.ErrMiss)
	assert.NoError(t, c.Delete(ctx, "k"))

	loads := 0
	for i := 0; i < 3; i++ {
		_, err := cache.Fetch(ctx, c, "k", func(context.Context) (int, error) { loads++; return loads, nil })
		require.NoError(t, err)
	}
	assert.Equal(t, 3, loads)
}
