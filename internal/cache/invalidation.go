package cache

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// invalidationChannel is the pub/sub channel carrying store-change messages.
// The message payload is the store key that changed.
const invalidationChannel = "promodesk.store.changed"

// StoreListener is called with the key of the store whose contents changed.
type StoreListener func(store string)

// Invalidator is the change-notification bus keyed by store name. Every
// store mutation publishes an invalidation; every component holding a cached
// copy of a store subscribes and reloads instead of trusting its copy.
// With Redis attached the bus spans all API instances; without it (tests)
// notifications fan out in-process only.
type Invalidator struct {
	redis *RedisClient

	mu        sync.RWMutex
	listeners []StoreListener
}

// NewInvalidator creates an invalidation bus. redis may be nil.
func NewInvalidator(redis *RedisClient) *Invalidator {
	return &Invalidator{redis: redis}
}

// OnChange registers a listener for store-change notifications.
func (i *Invalidator) OnChange(fn StoreListener) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listeners = append(i.listeners, fn)
}

// NotifyChanged announces that the named store was rewritten. With Redis the
// fanout happens via the subscription loop so every instance (including this
// one) observes the same event; otherwise listeners run directly.
func (i *Invalidator) NotifyChanged(ctx context.Context, store string) {
	if i.redis != nil {
		if err := i.redis.Publish(ctx, invalidationChannel, store); err != nil {
			log.Error().Err(err).Str("store", store).Msg("Failed to publish store invalidation")
			// Degrade to local fanout so in-process caches still reload.
			i.fanout(store)
		}
		return
	}
	i.fanout(store)
}

// Start runs the subscription loop until ctx is cancelled. No-op without Redis.
func (i *Invalidator) Start(ctx context.Context) {
	if i.redis == nil {
		return
	}
	sub := i.redis.Subscribe(ctx, invalidationChannel)
	defer sub.Close()

	log.Info().Str("channel", invalidationChannel).Msg("Store invalidation listener started")

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				log.Warn().Msg("Store invalidation subscription closed")
				return
			}
			i.fanout(msg.Payload)
		case <-ctx.Done():
			log.Info().Msg("Store invalidation listener stopped")
			return
		}
	}
}

func (i *Invalidator) fanout(store string) {
	i.mu.RLock()
	listeners := make([]StoreListener, len(i.listeners))
	copy(listeners, i.listeners)
	i.mu.RUnlock()

	for _, fn := range listeners {
		fn(store)
	}
}
