package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
)

// Cooldown remembers keys in the cache until their ttl runs out.
type Cooldown struct {
	cache *cache.Cache[any]
	ris   *ristretto.Cache
}

// NewCooldown wraps s. When ris is the cache behind s, Mark waits for the
// write buffers so the key is seen right after Mark returns.
func NewCooldown(s store.StoreInterface, ris *ristretto.Cache) *Cooldown {
	return &Cooldown{cache: cache.New[any](s), ris: ris}
}

func (v *Cooldown) Seen(ctx context.Context, key string) bool {
	_, err := v.cache.Get(ctx, key)
	return err == nil
}

func (v *Cooldown) Mark(ctx context.Context, key string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := v.cache.Set(ctx, key, time.Now().Unix(), store.WithExpiration(ttl), store.WithCost(1)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Unable to remember cooldown key")
		return
	}
	if v.ris != nil {
		v.ris.Wait()
	}
}
