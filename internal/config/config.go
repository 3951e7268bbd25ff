package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is returned for unknown keys and out-of-range values.
var ErrInvalid = errors.New("invalid configuration")

const (
	KeyStoriesPerPage      = "stories_per_page"
	KeyMaxCommentDepth     = "max_comment_depth"
	KeyOpenLinksInBrowser  = "open_links_in_browser"
	KeyColorTheme          = "color_theme"
	KeyCacheTimeoutMinutes = "cache_timeout_minutes"
)

// Keys lists the settings in display order.
var Keys = []string{
	KeyStoriesPerPage,
	KeyMaxCommentDepth,
	KeyOpenLinksInBrowser,
	KeyColorTheme,
	KeyCacheTimeoutMinutes,
}

var Themes = []string{"default", "dark"}

// Config holds the user's persisted preferences.
type Config struct {
	StoriesPerPage      int    `yaml:"stories_per_page" mapstructure:"stories_per_page"`
	MaxCommentDepth     int    `yaml:"max_comment_depth" mapstructure:"max_comment_depth"`
	OpenLinksInBrowser  bool   `yaml:"open_links_in_browser" mapstructure:"open_links_in_browser"`
	ColorTheme          string `yaml:"color_theme" mapstructure:"color_theme"`
	CacheTimeoutMinutes int    `yaml:"cache_timeout_minutes" mapstructure:"cache_timeout_minutes"`
}

func Default() Config {
	return Config{
		StoriesPerPage:      10,
		MaxCommentDepth:     3,
		OpenLinksInBrowser:  true,
		ColorTheme:          "default",
		CacheTimeoutMinutes: 5,
	}
}

func (c Config) Validate() error {
	if c.StoriesPerPage < 1 || c.StoriesPerPage > 100 {
		return fmt.Errorf("%w: %s must be between 1 and 100: %d", ErrInvalid, KeyStoriesPerPage, c.StoriesPerPage)
	}
	if c.MaxCommentDepth < 1 || c.MaxCommentDepth > 10 {
		return fmt.Errorf("%w: %s must be between 1 and 10: %d", ErrInvalid, KeyMaxCommentDepth, c.MaxCommentDepth)
	}
	if !validTheme(c.ColorTheme) {
		return fmt.Errorf("%w: %s must be one of %s: %s", ErrInvalid, KeyColorTheme, strings.Join(Themes, ", "), c.ColorTheme)
	}
	if c.CacheTimeoutMinutes < 1 || c.CacheTimeoutMinutes > 10080 {
		return fmt.Errorf("%w: %s must be between 1 and 10080: %d", ErrInvalid, KeyCacheTimeoutMinutes, c.CacheTimeoutMinutes)
	}
	return nil
}

// Get returns the value of key formatted for display.
func (c Config) Get(key string) (string, error) {
	switch normalizeKey(key) {
	case KeyStoriesPerPage:
		return strconv.Itoa(c.StoriesPerPage), nil
	case KeyMaxCommentDepth:
		return strconv.Itoa(c.MaxCommentDepth), nil
	case KeyOpenLinksInBrowser:
		return strconv.FormatBool(c.OpenLinksInBrowser), nil
	case KeyColorTheme:
		return c.ColorTheme, nil
	case KeyCacheTimeoutMinutes:
		return strconv.Itoa(c.CacheTimeoutMinutes), nil
	default:
		return "", unknownKey(key)
	}
}

// With returns a copy of c with key set from its textual form. The copy is
// validated so a bad value never reaches disk.
func (c Config) With(key, raw string) (Config, error) {
	raw = strings.TrimSpace(raw)
	next := c
	var err error
	switch normalizeKey(key) {
	case KeyStoriesPerPage:
		next.StoriesPerPage, err = parseInt(key, raw)
	case KeyMaxCommentDepth:
		next.MaxCommentDepth, err = parseInt(key, raw)
	case KeyOpenLinksInBrowser:
		next.OpenLinksInBrowser, err = ParseBool(raw)
	case KeyColorTheme:
		next.ColorTheme = strings.ToLower(raw)
	case KeyCacheTimeoutMinutes:
		next.CacheTimeoutMinutes, err = parseInt(key, raw)
	default:
		return c, unknownKey(key)
	}
	if err != nil {
		return c, err
	}
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

// ParseBool accepts the spellings people actually type on a command line.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%w: not a boolean: %q", ErrInvalid, raw)
	}
}

func parseInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number: %q", ErrInvalid, normalizeKey(key), raw)
	}
	return n, nil
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

func unknownKey(key string) error {
	return fmt.Errorf("%w: unknown key %q (valid keys: %s)", ErrInvalid, key, strings.Join(Keys, ", "))
}

func validTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}
