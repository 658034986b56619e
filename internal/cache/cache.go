// Package cache holds composed listing results in Redis so repeated
// browse queries do not hit the database. Entries are keyed by a digest
// of the search criteria plus a generation counter; bumping the counter
// on any committed write invalidates every cached listing at once,
// which keeps the invalidation path trivial at the cost of a cold read
// per listing after each write.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dinefind/internal/model"
	"dinefind/internal/repository"
)

const genKey = "listings:gen"

// Listings caches restaurant listing results. A nil receiver or a nil
// Redis client disables the cache; every lookup is then a miss and
// writes are no-ops.
type Listings struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewListings returns a listing cache backed by the given client.
func NewListings(rdb *redis.Client, ttl time.Duration) *Listings {
	return &Listings{rdb: rdb, ttl: ttl}
}

// Enabled reports whether the cache can serve lookups.
func (l *Listings) Enabled() bool { return l != nil && l.rdb != nil }

// Get returns the cached result for the given criteria, if present.
func (l *Listings) Get(ctx context.Context, c repository.SearchCriteria) ([]model.Restaurant, bool) {
	if !l.Enabled() {
		return nil, false
	}
	key, err := l.key(ctx, c)
	if err != nil {
		return nil, false
	}
	raw, err := l.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var out []model.Restaurant
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// Set stores a listing result under the current generation. Failures
// are ignored; the cache is best effort.
func (l *Listings) Set(ctx context.Context, c repository.SearchCriteria, rs []model.Restaurant) {
	if !l.Enabled() {
		return
	}
	key, err := l.key(ctx, c)
	if err != nil {
		return
	}
	raw, err := json.Marshal(rs)
	if err != nil {
		return
	}
	_ = l.rdb.Set(ctx, key, raw, l.ttl).Err()
}

// Invalidate bumps the generation counter, orphaning every cached
// listing. Orphaned entries expire through their TTL.
func (l *Listings) Invalidate(ctx context.Context) {
	if !l.Enabled() {
		return
	}
	_ = l.rdb.Incr(ctx, genKey).Err()
}

func (l *Listings) key(ctx context.Context, c repository.SearchCriteria) (string, error) {
	gen, err := l.rdb.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%d|%s|%d",
		c.Category, c.City, repository.PriceTier(c.Price), c.Sort, c.Limit)))
	return fmt.Sprintf("listings:g%d:%x", gen, sum), nil
}
