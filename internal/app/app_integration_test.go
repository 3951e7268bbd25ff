package app

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glabrego/hn-cli/internal/hackernews"
	"github.com/glabrego/hn-cli/internal/storage"
)

type countingClient struct {
	HackerNewsClient
	listings atomic.Int32
}

func (c *countingClient) StoryIDs(ctx context.Context, kind hackernews.ListKind) ([]int64, error) {
	c.listings.Add(1)
	return c.HackerNewsClient.StoryIDs(ctx, kind)
}

func TestIntegration_ListingItemAndCache(t *testing.T) {
	if os.Getenv("HNCLI_INTEGRATION") != "1" {
		t.Skip("set HNCLI_INTEGRATION=1 to run integration tests")
	}

	baseURL := os.Getenv("HNCLI_API_BASE_URL")
	if baseURL == "" {
		baseURL = hackernews.DefaultBaseURL
	}

	cache, err := storage.Open(filepath.Join(t.TempDir(), "hn-integration.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	if err := cache.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	client := &countingClient{HackerNewsClient: hackernews.NewClient(baseURL, nil)}
	svc := NewService(client, cache)

	first, err := svc.FetchListing(ctx, hackernews.ListTop, 0, 5)
	if err != nil {
		t.Fatalf("FetchListing returned error: %v", err)
	}
	if len(first.Items) == 0 || !first.TotalKnown {
		t.Fatalf("expected a populated first page, got %+v", first)
	}

	second, err := svc.FetchListing(ctx, hackernews.ListTop, 0, 5)
	if err != nil {
		t.Fatalf("second FetchListing returned error: %v", err)
	}
	if got := client.listings.Load(); got != 1 {
		t.Fatalf("second listing should come from cache, got %d remote calls", got)
	}
	if second.Items[0].ID != first.Items[0].ID {
		t.Fatalf("cached page differs: %d vs %d", second.Items[0].ID, first.Items[0].ID)
	}

	item, err := svc.FetchItem(ctx, first.Items[0].ID)
	if err != nil {
		t.Fatalf("FetchItem returned error: %v", err)
	}
	if item.Title == "" {
		t.Fatalf("expected a titled story, got %+v", item)
	}

	keys, err := cache.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	if len(keys) < 2 {
		t.Fatalf("expected listing and item entries in cache, got %v", keys)
	}
}
