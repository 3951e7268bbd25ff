package hackernews

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound reports that the API answered but has no such resource.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable covers transport failures, timeouts and malformed responses.
	ErrUnavailable = errors.New("content source unavailable")
)

const webBaseURL = "https://news.ycombinator.com"

// ListKind selects one of the ranked story listings.
type ListKind string

const (
	ListTop  ListKind = "top"
	ListNew  ListKind = "new"
	ListBest ListKind = "best"
)

var ListKinds = []ListKind{ListTop, ListNew, ListBest}

func ParseListKind(raw string) (ListKind, error) {
	switch kind := ListKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case ListTop, ListNew, ListBest:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown story listing %q", raw)
	}
}

// Item is a story, comment, job or poll as served by the API.
type Item struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	By          string  `json:"by,omitempty"`
	Time        int64   `json:"time,omitempty"`
	Text        string  `json:"text,omitempty"`
	URL         string  `json:"url,omitempty"`
	Title       string  `json:"title,omitempty"`
	Score       int     `json:"score,omitempty"`
	Descendants int     `json:"descendants,omitempty"`
	Kids        []int64 `json:"kids,omitempty"`
	Parent      int64   `json:"parent,omitempty"`
	Dead        bool    `json:"dead,omitempty"`
	Deleted     bool    `json:"deleted,omitempty"`
}

func (i Item) CreatedAt() time.Time {
	if i.Time == 0 {
		return time.Time{}
	}
	return time.Unix(i.Time, 0).UTC()
}

// Gone reports items that were removed and carry no displayable content.
func (i Item) Gone() bool {
	return i.Dead || i.Deleted
}

// DiscussionURL is the item's page on the HN website.
func (i Item) DiscussionURL() string {
	return ItemURL(i.ID)
}

// LinkURL is the story's external link, falling back to the discussion
// page for text posts.
func (i Item) LinkURL() string {
	if strings.TrimSpace(i.URL) != "" {
		return i.URL
	}
	return i.DiscussionURL()
}

// Domain is the host of the external link without a leading "www.".
func (i Item) Domain() string {
	if strings.TrimSpace(i.URL) == "" {
		return ""
	}
	parsed, err := url.Parse(i.URL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// User is a public HN profile.
type User struct {
	ID        string  `json:"id"`
	Created   int64   `json:"created"`
	Karma     int     `json:"karma"`
	About     string  `json:"about,omitempty"`
	Submitted []int64 `json:"submitted,omitempty"`
}

func (u User) CreatedAt() time.Time {
	return time.Unix(u.Created, 0).UTC()
}

func (u User) ProfileURL() string {
	return UserURL(u.ID)
}

func ItemURL(id int64) string {
	return fmt.Sprintf("%s/item?id=%d", webBaseURL, id)
}

func UserURL(name string) string {
	return webBaseURL + "/user?id=" + url.QueryEscape(name)
}
