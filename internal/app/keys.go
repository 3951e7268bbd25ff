package app

import (
	"strconv"
	"strings"

	"github.com/glabrego/hn-cli/internal/hackernews"
)

// Cache keys are derived only from the request's semantic parameters so
// equal requests always share an entry.

func ListingKey(kind hackernews.ListKind) string {
	return "listing:" + string(kind)
}

func ItemKey(id int64) string {
	return "item:" + strconv.FormatInt(id, 10)
}

func UserKey(name string) string {
	return "user:" + strings.TrimSpace(name)
}

func SearchKey(query string) string {
	return "search:" + normalizeQuery(query)
}

func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
