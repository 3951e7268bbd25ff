package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/glabrego/hn-cli/internal/hackernews"
)

const (
	DefaultTTL = 5 * time.Minute
	// fetchConcurrency bounds parallel item requests within one page.
	fetchConcurrency = 8
)

type HackerNewsClient interface {
	StoryIDs(ctx context.Context, kind hackernews.ListKind) ([]int64, error)
	Item(ctx context.Context, id int64) (hackernews.Item, error)
	User(ctx context.Context, name string) (hackernews.User, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
}

// Purger is implemented by caches that can drop expired rows eagerly.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PageView is one page of a listing or of search results.
type PageView struct {
	Items      []hackernews.Item
	PageIndex  int
	PageSize   int
	Total      int
	TotalKnown bool
}

func (p PageView) HasMore() bool {
	if !p.TotalKnown {
		return len(p.Items) >= p.PageSize && p.PageSize > 0
	}
	return (p.PageIndex+1)*p.PageSize < p.Total
}

// PageCount is the number of pages the known total spans.
func (p PageView) PageCount() int {
	if !p.TotalKnown || p.PageSize <= 0 {
		return 0
	}
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Service fronts the HN API with the response cache. A nil cache means
// every call goes straight to the API.
type Service struct {
	client HackerNewsClient
	cache  Cache
	ttlFn  func() time.Duration
	logger zerolog.Logger
}

type Option func(*Service)

// WithTTL sets how long fetched responses stay valid. It is read each time
// a response is stored.
func WithTTL(fn func() time.Duration) Option {
	return func(s *Service) { s.ttlFn = fn }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(client HackerNewsClient, cache Cache, opts ...Option) *Service {
	s := &Service{
		client: client,
		cache:  cache,
		ttlFn:  func() time.Duration { return DefaultTTL },
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) FetchListing(ctx context.Context, kind hackernews.ListKind, page, pageSize int) (PageView, error) {
	ids, err := s.storyIDs(ctx, kind)
	if err != nil {
		return PageView{}, err
	}
	return s.pageOf(ctx, ids, page, pageSize)
}

func (s *Service) FetchItem(ctx context.Context, id int64) (hackernews.Item, error) {
	item, err := cached(ctx, s, ItemKey(id), func(ctx context.Context) (hackernews.Item, error) {
		return s.client.Item(ctx, id)
	})
	if err != nil {
		return hackernews.Item{}, fmt.Errorf("fetch item %d from hacker news: %w", id, err)
	}
	return item, nil
}

func (s *Service) FetchUser(ctx context.Context, name string) (hackernews.User, error) {
	user, err := cached(ctx, s, UserKey(name), func(ctx context.Context) (hackernews.User, error) {
		return s.client.User(ctx, name)
	})
	if err != nil {
		return hackernews.User{}, fmt.Errorf("fetch user %s from hacker news: %w", name, err)
	}
	return user, nil
}

// ClearCache drops every cached response.
func (s *Service) ClearCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("clear response cache: %w", err)
	}
	s.logger.Info().Msg("response cache cleared")
	return nil
}

// PurgeCache drops expired responses when the cache supports it.
func (s *Service) PurgeCache(ctx context.Context) (int64, error) {
	purger, ok := s.cache.(Purger)
	if !ok {
		return 0, nil
	}
	n, err := purger.PurgeExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge response cache: %w", err)
	}
	return n, nil
}

func (s *Service) storyIDs(ctx context.Context, kind hackernews.ListKind) ([]int64, error) {
	ids, err := cached(ctx, s, ListingKey(kind), func(ctx context.Context) ([]int64, error) {
		return s.client.StoryIDs(ctx, kind)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s stories from hacker news: %w", kind, err)
	}
	return ids, nil
}

// pageOf resolves one page worth of ids into items. Missing and removed
// items are skipped; any other failure fails the whole page.
func (s *Service) pageOf(ctx context.Context, ids []int64, page, pageSize int) (PageView, error) {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 0 {
		page = 0
	}
	if last := lastPageIndex(len(ids), pageSize); page > last {
		page = last
	}
	start := page * pageSize
	end := min(start+pageSize, len(ids))

	items, err := s.fetchItems(ctx, ids[start:end])
	if err != nil {
		return PageView{}, err
	}
	return PageView{
		Items:      items,
		PageIndex:  page,
		PageSize:   pageSize,
		Total:      len(ids),
		TotalKnown: true,
	}, nil
}

func (s *Service) fetchItems(ctx context.Context, ids []int64) ([]hackernews.Item, error) {
	results := make([]hackernews.Item, len(ids))
	found := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			item, err := s.FetchItem(gctx, id)
			if errors.Is(err, hackernews.ErrNotFound) {
				s.logger.Debug().Int64("item", id).Msg("skipping missing item")
				return nil
			}
			if err != nil {
				return err
			}
			if item.Gone() {
				return nil
			}
			results[i] = item
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]hackernews.Item, 0, len(ids))
	for i := range results {
		if found[i] {
			items = append(items, results[i])
		}
	}
	return items, nil
}

// cached is the single cache-mediated fetch path: a valid entry is decoded
// and returned, otherwise fetch runs and its result is stored. Cache
// failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *Service, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, fetching directly")
		case ok:
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				s.logger.Debug().Str("key", key).Msg("cache hit")
				return v, nil
			}
			s.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		raw, err := json.Marshal(v)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("encode response for cache")
			return v, nil
		}
		if err := s.cache.Put(ctx, key, raw, s.ttlFn()); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}

func lastPageIndex(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total - 1) / pageSize
}
