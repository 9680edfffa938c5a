package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ventify/salesdesk/internal/domain/product"
)

const (
	productTTL  = 5 * time.Minute
	notFoundTTL = time.Minute

	// notFoundMarker is cached in place of a product body so repeated
	// lookups of missing ids skip the database too.
	notFoundMarker = "notfound"

	listKey = "products:all"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository wraps a product.Repository with a Redis read-through
// cache. Redis failures degrade to direct repository access and are logged,
// never surfaced to callers.
type ProductRepository struct {
	inner product.Repository
	redis *redis.Client
	lg    *zap.Logger
}

// NewProductRepository wraps inner with caching on the given Redis client.
func NewProductRepository(inner product.Repository, rdb *redis.Client, lg *zap.Logger) *ProductRepository {
	return &ProductRepository{inner: inner, redis: rdb, lg: lg}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// GetByID serves a product from cache when possible, falling back to the
// wrapped repository and caching the result (or its absence).
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	key := productKey(id)

	data, err := r.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, product.ErrNotFound
		}
		var p product.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		r.lg.Warn("Corrupt cached product, falling back to database",
			zap.Int64("product_id", id))
	case errors.Is(err, redis.Nil):
		// Cache miss.
	default:
		r.lg.Warn("Redis get failed, falling back to database", zap.Error(err))
	}

	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			r.set(ctx, key, []byte(notFoundMarker), notFoundTTL)
		}
		return nil, err
	}

	if body, err := json.Marshal(p); err == nil {
		r.set(ctx, key, body, productTTL)
	}
	return p, nil
}

// List serves the full catalog from cache when possible.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	data, err := r.redis.Get(ctx, listKey).Bytes()
	if err == nil {
		var products []product.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.lg.Warn("Redis get failed, falling back to database", zap.Error(err))
	}

	products, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if body, err := json.Marshal(products); err == nil {
		r.set(ctx, listKey, body, productTTL)
	}
	return products, nil
}

// GetByIDs always hits the wrapped repository: the purchase workflow reads
// prices inside its own transaction and must never see stale values.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]product.Product, error) {
	return r.inner.GetByIDs(ctx, ids)
}

// Create delegates and invalidates the catalog listing.
func (r *ProductRepository) Create(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	r.invalidate(ctx, listKey)
	return r.inner.Create(ctx, params)
}

// Update delegates and invalidates both the product entry and the listing.
func (r *ProductRepository) Update(ctx context.Context, id int64, upd product.Update) (*product.Product, error) {
	r.invalidate(ctx, productKey(id), listKey)
	return r.inner.Update(ctx, id, upd)
}

// Delete delegates and invalidates both the product entry and the listing.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	r.invalidate(ctx, productKey(id), listKey)
	return r.inner.Delete(ctx, id)
}

func (r *ProductRepository) set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if err := r.redis.Set(ctx, key, body, ttl).Err(); err != nil {
		r.lg.Warn("Redis set failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *ProductRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		r.lg.Warn("Redis delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
