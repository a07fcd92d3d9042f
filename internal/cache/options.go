// Package cache adds a Redis read-through cache in front of a newsletter
// provider backend.
//
// Only GroupOptions is cached: it backs every rendering of the signup form's
// list selector, while the underlying provider call costs a full API round
// trip and is rate-limited on some accounts. Everything else passes through
// untouched. Redis being down degrades to calling the provider directly.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/newsletter-optin/internal/domain"
	"github.com/ignite/newsletter-optin/internal/newsletter"
	"github.com/ignite/newsletter-optin/internal/pkg/logger"
)

const optionsKey = "newsletter:group_options"

// CachedClient decorates a newsletter.Client with a Redis cache over
// GroupOptions. It satisfies newsletter.Client itself.
type CachedClient struct {
	source newsletter.Client
	rdb    *redis.Client
	ttl    time.Duration
}

// Wrap returns source decorated with a GroupOptions cache.
func Wrap(source newsletter.Client, rdb *redis.Client, ttl time.Duration) *CachedClient {
	return &CachedClient{source: source, rdb: rdb, ttl: ttl}
}

func (c *CachedClient) ListGroups(ctx context.Context) ([]domain.MailingList, error) {
	return c.source.ListGroups(ctx)
}

func (c *CachedClient) FetchGroup(ctx context.Context, groupID string) (*domain.MailingList, error) {
	return c.source.FetchGroup(ctx, groupID)
}

func (c *CachedClient) CreateContact(ctx context.Context, email string, fields map[string]string) (string, error) {
	return c.source.CreateContact(ctx, email, fields)
}

func (c *CachedClient) AssignToList(ctx context.Context, groupID string, contactIDs []string) error {
	return c.source.AssignToList(ctx, groupID, contactIDs)
}

// GroupOptions serves the cached mapping when fresh, otherwise asks the
// provider and repopulates. Cache errors are logged and never surfaced.
func (c *CachedClient) GroupOptions(ctx context.Context) (map[string]string, error) {
	if data, err := c.rdb.Get(ctx, optionsKey).Bytes(); err == nil {
		var options map[string]string
		if err := json.Unmarshal(data, &options); err == nil {
			return options, nil
		}
		// Corrupt entry: fall through and overwrite it.
		logger.Warn("dropping corrupt options cache entry")
	}

	options, err := c.source.GroupOptions(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(options); err == nil {
		if err := c.rdb.Set(ctx, optionsKey, data, c.ttl).Err(); err != nil {
			logger.Warn("options cache write failed", "err", err)
		}
	}

	return options, nil
}

// Invalidate drops the cached options, forcing the next GroupOptions call to
// hit the provider.
func (c *CachedClient) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, optionsKey).Err(); err != nil {
		logger.Warn("options cache invalidation failed", "err", err)
	}
}
