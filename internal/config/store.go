package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Store reads and writes the YAML config file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the file, writing defaults first when none exists.
// HNCLI_-prefixed variables (HNCLI_STORIES_PER_PAGE, ...) override file
// values. An unreadable or invalid file yields the defaults together with
// the error that caused the fallback.
func (s *Store) Load() (Config, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		if err := s.Save(Default()); err != nil {
			return Default(), err
		}
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("HNCLI")
	v.AutomaticEnv()
	defaults := Default()
	v.SetDefault(KeyStoriesPerPage, defaults.StoriesPerPage)
	v.SetDefault(KeyMaxCommentDepth, defaults.MaxCommentDepth)
	v.SetDefault(KeyOpenLinksInBrowser, defaults.OpenLinksInBrowser)
	v.SetDefault(KeyColorTheme, defaults.ColorTheme)
	v.SetDefault(KeyCacheTimeoutMinutes, defaults.CacheTimeoutMinutes)

	if err := v.ReadInConfig(); err != nil {
		return Default(), fmt.Errorf("read config %s: %w", s.path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("%w: decode config %s: %w", ErrInvalid, s.path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", s.path, err)
	}
	return cfg, nil
}

// Save writes cfg atomically.
func (s *Store) Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := fmt.Sprintf("%s.%d.tmp", s.path, time.Now().UnixNano())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Set validates and persists a single key. Environment overrides are not
// written back: the current file contents are the base, and a file that
// does not parse or validate is left alone.
func (s *Store) Set(key, raw string) (Config, error) {
	current, err := s.readFile()
	if err != nil {
		return Config{}, err
	}
	next, err := current.With(key, raw)
	if err != nil {
		return current, err
	}
	if err := s.Save(next); err != nil {
		return current, err
	}
	return next, nil
}

func (s *Store) Reset() (Config, error) {
	cfg := Default()
	if err := s.Save(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s *Store) readFile() (Config, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", s.path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode config %s (run config-reset to start over): %w", ErrInvalid, s.path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s (run config-reset to start over): %w", s.path, err)
	}
	return cfg, nil
}
