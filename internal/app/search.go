package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/glabrego/hn-cli/internal/hackernews"
)

const (
	// searchScanDepth is how many ranked ids of each listing a search reads.
	searchScanDepth  = 100
	maxSearchResults = 100
)

// Search matches stories from the current top, new and best listings whose
// title or text contains query, ignoring case and runs of whitespace. The matching ids are cached
// as one entry so paging through results does not rescan.
func (s *Service) Search(ctx context.Context, query string, page, pageSize int) (PageView, error) {
	needle := normalizeQuery(query)
	if needle == "" {
		return PageView{}, errors.New("search query is empty")
	}

	ids, err := cached(ctx, s, SearchKey(query), func(ctx context.Context) ([]int64, error) {
		return s.scanForMatches(ctx, needle)
	})
	if err != nil {
		return PageView{}, fmt.Errorf("search hacker news for %q: %w", query, err)
	}
	return s.pageOf(ctx, ids, page, pageSize)
}

func (s *Service) scanForMatches(ctx context.Context, needle string) ([]int64, error) {
	candidates, err := s.searchCandidates(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range candidates {
		g.Go(func() error {
			item, err := s.FetchItem(gctx, id)
			if err != nil {
				s.logger.Debug().Err(err).Int64("item", id).Msg("search skipped item")
				return nil
			}
			matched[i] = matchesQuery(item, needle)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, maxSearchResults)
	for i, ok := range matched {
		if !ok {
			continue
		}
		ids = append(ids, candidates[i])
		if len(ids) == maxSearchResults {
			break
		}
	}
	return ids, nil
}

// searchCandidates merges the head of each listing, keeping first-seen
// order. A listing that fails is skipped unless all of them fail.
func (s *Service) searchCandidates(ctx context.Context) ([]int64, error) {
	seen := make(map[int64]struct{}, searchScanDepth*len(hackernews.ListKinds))
	out := make([]int64, 0, searchScanDepth*len(hackernews.ListKinds))
	var errs []error
	for _, kind := range hackernews.ListKinds {
		ids, err := s.storyIDs(ctx, kind)
		if err != nil {
			s.logger.Warn().Err(err).Str("listing", string(kind)).Msg("search could not read listing")
			errs = append(errs, err)
			continue
		}
		if len(ids) > searchScanDepth {
			ids = ids[:searchScanDepth]
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	if len(errs) == len(hackernews.ListKinds) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func matchesQuery(item hackernews.Item, needle string) bool {
	if item.Type != "story" || item.Gone() {
		return false
	}
	return strings.Contains(normalizeQuery(item.Title), needle) ||
		strings.Contains(normalizeQuery(item.Text), needle)
}
