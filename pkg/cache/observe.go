package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/crossboard/pkg/observability"
)

// Observe wraps c so that reads and writes are reported to the registered
// observability cache hooks. The key type is the segment before the hash,
// e.g. "linkage" for both "linkage:ab12" and "team:linkage:ab12".
func Observe(c Cache) Cache {
	if _, ok := c.(observed); ok {
		return c
	}
	return observed{c}
}

type observed struct {
	Cache
}

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

// keyType returns the last prefix segment before the hash, so scoped keys
// like "tenant:linkage:ab12" report as "linkage".
func keyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return "unknown"
	}
	key = key[:i]
	if j := strings.LastIndexByte(key, ':'); j >= 0 {
		key = key[j+1:]
	}
	return key
}
