package nonces

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/easyadmin/internal/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRegistry(t *testing.T) (*RedisRegistry, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisRegistry(rdb, "test"), mr
}

func registries(t *testing.T) map[string]Registry {
	r, _ := newRedisRegistry(t)
	return map[string]Registry{
		"memory": NewMemoryRegistry(),
		"redis":  r,
	}
}

func isAlphanumeric(s string) bool {
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func TestRegistry_IssueShape(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := reg.Issue(ctx, "c1")
			require.NoError(t, err)
			assert.Len(t, n, Length)
			assert.True(t, isAlphanumeric(n), "nonce %q", n)

			cur, ok, err := reg.Current(ctx, "c1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, n, cur)
		})
	}
}

func TestRegistry_EmptyClientID(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Issue(context.Background(), "")
			require.ErrorIs(t, err, common.ErrMissingField)
		})
	}
}

func TestRegistry_ReissueReplaces(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := reg.Issue(ctx, "c1")
			require.NoError(t, err)
			second, err := reg.Issue(ctx, "c1")
			require.NoError(t, err)
			require.NotEqual(t, first, second)

			ok, err := reg.Consume(ctx, "c1", first)
			require.NoError(t, err)
			assert.False(t, ok, "superseded nonce must be rejected")

			ok, err = reg.Consume(ctx, "c1", second)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestRegistry_ConsumeIsSingleUse(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := reg.Issue(ctx, "c1")
			require.NoError(t, err)

			ok, err := reg.Consume(ctx, "c1", n)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = reg.Consume(ctx, "c1", n)
			require.NoError(t, err)
			assert.False(t, ok)

			_, present, err := reg.Current(ctx, "c1")
			require.NoError(t, err)
			assert.False(t, present)
		})
	}
}

func TestRegistry_MismatchKeepsNonce(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			n, err := reg.Issue(ctx, "c1")
			require.NoError(t, err)

			ok, err := reg.Consume(ctx, "c1", "wrong")
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = reg.Consume(ctx, "unknown-client", n)
			require.NoError(t, err)
			assert.False(t, ok)

			cur, present, err := reg.Current(ctx, "c1")
			require.NoError(t, err)
			assert.True(t, present)
			assert.Equal(t, n, cur)
		})
	}
}

func TestRegistry_ClientsAreIndependent(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			a, err := reg.Issue(ctx, "a")
			require.NoError(t, err)
			b, err := reg.Issue(ctx, "b")
			require.NoError(t, err)

			ok, err := reg.Consume(ctx, "a", b)
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = reg.Consume(ctx, "a", a)
			require.NoError(t, err)
			assert.True(t, ok)

			cur, present, err := reg.Current(ctx, "b")
			require.NoError(t, err)
			assert.True(t, present)
			assert.Equal(t, b, cur)
		})
	}
}

func TestRegistry_ConcurrentConsumeSingleWinner(t *testing.T) {
	for name, reg := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			n, err := reg.Issue(ctx, "c1")
			require.NoError(t, err)

			var wins atomic.Int32
			var wg sync.WaitGroup
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if ok, err := reg.Consume(ctx, "c1", n); err == nil && ok {
						wins.Add(1)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(1), wins.Load())
		})
	}
}

func TestRedisRegistry_KeyLayoutAndNoTTL(t *testing.T) {
	reg, mr := newRedisRegistry(t)

	n, err := reg.Issue(context.Background(), "c1")
	require.NoError(t, err)

	got, err := mr.Get("test:c1")
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Zero(t, mr.TTL("test:c1"))
}

func TestRedisRegistry_DefaultPrefix(t *testing.T) {
	reg := NewRedisRegistry(nil, "")
	assert.Equal(t, "easyadmin:nonce:c1", reg.key("c1"))
}

func TestRedisRegistry_BackendDown(t *testing.T) {
	reg, mr := newRedisRegistry(t)
	mr.Close()

	ctx := context.Background()

	_, err := reg.Issue(ctx, "c1")
	require.ErrorIs(t, err, common.ErrBackend)

	_, _, err = reg.Current(ctx, "c1")
	require.ErrorIs(t, err, common.ErrBackend)

	_, err = reg.Consume(ctx, "c1", "x")
	require.ErrorIs(t, err, common.ErrBackend)
}
