package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	productExistsKeyPrefix = "product_exists:"
	productExistsTTL       = 5 * time.Minute
)

// ProductCache keeps catalog existence lookups off the intake hot path.
// A miss is reported via found=false; the caller then asks the catalog and
// writes the answer back.
type ProductCache interface {
	GetExists(ctx context.Context, productID string) (exists bool, found bool, err error)
	SetExists(ctx context.Context, productID string, exists bool) error
}

type redisProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) ProductCache {
	return &redisProductCache{client: client}
}

func (r *redisProductCache) GetExists(ctx context.Context, productID string) (bool, bool, error) {
	val, err := r.client.Get(ctx, productExistsKeyPrefix+productID).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == "1", true, nil
}

func (r *redisProductCache) SetExists(ctx context.Context, productID string, exists bool) error {
	val := "0"
	if exists {
		val = "1"
	}
	return r.client.Set(ctx, productExistsKeyPrefix+productID, val, productExistsTTL).Err()
}
