package hackernews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// maxBodyBytes bounds a single response; the largest payloads are user
// profiles with long submission histories.
const maxBodyBytes = 8 << 20

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// StoryIDs returns the ranked ids of a listing, best first.
func (c *Client) StoryIDs(ctx context.Context, kind ListKind) ([]int64, error) {
	if _, err := ParseListKind(string(kind)); err != nil {
		return nil, err
	}
	var ids []int64
	if err := c.getJSON(ctx, "/"+string(kind)+"stories.json", string(kind)+" stories", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) Item(ctx context.Context, id int64) (Item, error) {
	var item Item
	resource := "item " + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, "/item/"+strconv.FormatInt(id, 10)+".json", resource, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (c *Client) User(ctx context.Context, name string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, fmt.Errorf("user: %w", ErrNotFound)
	}
	var user User
	if err := c.getJSON(ctx, "/user/"+url.PathEscape(name)+".json", "user "+name, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// getJSON decodes the body at path into out. The API answers unknown
// resources with a literal null and status 200.
func (c *Client) getJSON(ctx context.Context, path, resource string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s request failed: %w", resource, errors.Join(ErrUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("fetch %s: %w", resource, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("fetch %s failed with status %d: %s: %w", resource, resp.StatusCode, strings.TrimSpace(string(body)), ErrUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", resource, errors.Join(ErrUnavailable, err))
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return fmt.Errorf("fetch %s: %w", resource, ErrNotFound)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, errors.Join(ErrUnavailable, err))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
