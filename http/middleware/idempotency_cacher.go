package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultIdempotencyTTL = 24 * time.Hour
	idempotencyPrefix     = "synkro:idempotency:"
)

var (
	_ IdempotencyCacher = (*IdemResMap)(nil)
	_ IdempotencyCacher = IdemResRedis{}
)

// An IdempotencyCacher can store responses paired to idempotency keys.
//
// An IdempotencyCacher ought return newly initialized IdemRes
// when a key does not match an existing IdemRes
type IdempotencyCacher interface {
	Get(ctx context.Context, key string) (IdemRes, bool)
	Set(ctx context.Context, key string, idemRes IdemRes)
}

// An IdemResMap stores idempotency key, IdemRes value pairs in a map.
//
// Server restarts reset this map.
// IdemResMap ought not be used when more than one instance serves requests.
type IdemResMap struct {
	mu  sync.Mutex
	ttl time.Duration
	val map[string]idemResMapVal
}

// NewIdemResMap constructs initializes an IdemResMap
// for use in an Idempotency middleware as a cache.
func NewIdemResMap() *IdemResMap {
	return &IdemResMap{ttl: DefaultIdempotencyTTL, val: make(map[string]idemResMapVal)}
}

// An idemResMapVal is stored in an IdemResMap,
// wrapping an IdemRes.
type idemResMapVal struct {
	IdemRes

	at time.Time
}

// Get retrieves the result of the request matching the idempotency key
// much like a regular map.
func (i *IdemResMap) Get(ctx context.Context, key string) (IdemRes, bool) {
	if key == "" {
		return IdemRes{}, false
	}

	select {
	case <-ctx.Done():
		return IdemRes{}, false

	default:
		i.mu.Lock()
		defer i.mu.Unlock()

		v, ok := i.val[key]
		if !ok || time.Since(v.at) > i.ttl {
			return IdemRes{}, false
		}

		return v.IdemRes, true
	}
}

// Set overwrites the value paired to key in the map.
//
// For each call to Set, keys older than the TTL are evicted.
func (i *IdemResMap) Set(ctx context.Context, key string, idemRes IdemRes) {
	select {
	case <-ctx.Done():
		return
	default:
		i.mu.Lock()
		defer i.mu.Unlock()

		cutoff := time.Now().Add(-i.ttl)
		for k, v := range i.val {
			if v.at.Before(cutoff) {
				delete(i.val, k)
			}
		}

		i.val[key] = idemResMapVal{IdemRes: idemRes, at: time.Now()}
	}
}

// Len is the number of keys held.
func (i *IdemResMap) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	return len(i.val)
}

// An IdemResRedis connects to a Redis backend
// for the purposes of caching idempotent responses.
type IdemResRedis struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache constructs an IdemResRedis storing responses through client
// for DefaultIdempotencyTTL.
func NewRedisCache(client redis.Cmdable) IdemResRedis {
	return IdemResRedis{client: client, ttl: DefaultIdempotencyTTL}
}

// Get retrieves the *IdemRes paired to key from the connected Redis backend.
func (i IdemResRedis) Get(ctx context.Context, key string) (IdemRes, bool) {
	select {
	case <-ctx.Done():
		return IdemRes{}, false
	default:
		b, err := i.client.Get(ctx, idempotencyPrefix+key).Bytes()
		if err != nil {
			return IdemRes{}, false
		}

		ir := new(IdemRes)
		if err := ir.GobDecode(b); err != nil {
			return IdemRes{}, false
		}

		return *ir, true
	}
}

// Set saves the *IdemRes by pairing it to the key in the Redis backend.
func (i IdemResRedis) Set(ctx context.Context, key string, idemRes IdemRes) {
	select {
	case <-ctx.Done():
		return
	default:
		b, err := idemRes.GobEncode()
		if err != nil {
			return
		}

		i.client.Set(ctx, idempotencyPrefix+key, b, i.ttl)
	}
}
