// Package feed implements push subscriptions over Redis pub/sub.
// Writers publish a change notification after every committed write;
// watchers re-query the store and redeliver the full mapped snapshot
// on each notification, plus once immediately on registration. There
// is no batching of rapid successive changes and no guaranteed upper
// bound on delivery latency.
package feed

import (
	"context"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"dinefind/internal/model"
	"dinefind/internal/repository"
)

const (
	allChannel       = "restaurants.changed"
	oneChannelPrefix = "restaurant.changed:"
)

// ErrUnavailable is returned by the watch operations when no Redis
// client is configured and the feed cannot deliver changes.
var ErrUnavailable = errors.New("change feed unavailable")

// RestaurantSource is the read side the feed re-queries on every
// notification. *repository.RestaurantRepo satisfies it.
type RestaurantSource interface {
	Search(ctx context.Context, c repository.SearchCriteria) ([]model.Restaurant, error)
	GetByID(ctx context.Context, id string) (*model.Restaurant, error)
}

// Feed connects the write path to the watchers.
type Feed struct {
	rdb    *redis.Client
	source RestaurantSource
}

// New returns a Feed over the given client and read source. A nil
// client is allowed; notifications then become no-ops and watch calls
// fail with ErrUnavailable.
func New(rdb *redis.Client, source RestaurantSource) *Feed {
	return &Feed{rdb: rdb, source: source}
}

// NotifyChanged publishes a change notification for the given
// restaurant. Every listing watcher and every watcher of that
// restaurant will re-query and redeliver. Publish failures are logged
// and ignored: the write has already committed and must not be rolled
// back over a notification problem.
func (f *Feed) NotifyChanged(ctx context.Context, restaurantID string) {
	if f == nil || f.rdb == nil {
		return
	}
	if err := f.rdb.Publish(ctx, allChannel, restaurantID).Err(); err != nil {
		log.Printf("feed: publish %s failed: %v", allChannel, err)
	}
	if restaurantID != "" {
		ch := oneChannelPrefix + restaurantID
		if err := f.rdb.Publish(ctx, ch, restaurantID).Err(); err != nil {
			log.Printf("feed: publish %s failed: %v", ch, err)
		}
	}
}

// WatchAll registers a listener for the composed listing described by
// the criteria. fn is invoked once immediately with the initial result
// set and again with a fresh result set after every change
// notification. The returned stop function unsubscribes the listener;
// callers are responsible for invoking it.
func (f *Feed) WatchAll(ctx context.Context, c repository.SearchCriteria, fn func([]model.Restaurant)) (func(), error) {
	if fn == nil {
		return nil, repository.ErrInvalidArgument
	}
	if f == nil || f.rdb == nil {
		return nil, ErrUnavailable
	}
	initial, err := f.source.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	fn(initial)

	return f.watch(ctx, allChannel, func(wctx context.Context) {
		rs, err := f.source.Search(wctx, c)
		if err != nil {
			log.Printf("feed: listing re-query failed: %v", err)
			return
		}
		fn(rs)
	})
}

// WatchOne registers a listener for a single restaurant. Delivery
// semantics match WatchAll. An empty identifier or nil callback is
// ErrInvalidArgument.
func (f *Feed) WatchOne(ctx context.Context, id string, fn func(*model.Restaurant)) (func(), error) {
	if id == "" || fn == nil {
		return nil, repository.ErrInvalidArgument
	}
	if f == nil || f.rdb == nil {
		return nil, ErrUnavailable
	}
	initial, err := f.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(initial)

	return f.watch(ctx, oneChannelPrefix+id, func(wctx context.Context) {
		rest, err := f.source.GetByID(wctx, id)
		if err != nil {
			log.Printf("feed: restaurant %s re-query failed: %v", id, err)
			return
		}
		fn(rest)
	})
}

// watch subscribes to channel and runs deliver on every message until
// the context is cancelled or the stop function is called.
func (f *Feed) watch(ctx context.Context, channel string, deliver func(context.Context)) (func(), error) {
	sub := f.rdb.Subscribe(ctx, channel)
	// Force the subscription to be established before returning so no
	// notification published after registration is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	wctx, cancel := context.WithCancel(ctx)
	go func() {
		msgs := sub.Channel()
		for {
			select {
			case <-wctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				deliver(wctx)
			}
		}
	}()
	stop := func() {
		cancel()
		_ = sub.Close()
	}
	return stop, nil
}
