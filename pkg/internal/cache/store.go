package cache

import (
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/store"
	ristrettoCache "github.com/eko/gocache/store/ristretto/v4"
)

var (
	S store.StoreInterface
	R *ristretto.Cache
)

func NewStore() error {
	ris, err := NewRistretto()
	if err != nil {
		return err
	}

	R = ris
	S = ristrettoCache.NewRistretto(ris)

	return nil
}

func NewRistretto() (*ristretto.Cache, error) {
	return ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
}
