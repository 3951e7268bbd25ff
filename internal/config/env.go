package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/glabrego/hn-cli/internal/hackernews"
)

const appDir = "hncli"

// Env holds process-level settings that are not user preferences.
type Env struct {
	APIBaseURL string
	ConfigPath string
	CachePath  string
	LogPath    string
	LogLevel   string
}

func LoadEnv() (Env, error) {
	env := Env{
		APIBaseURL: os.Getenv("HNCLI_API_BASE_URL"),
		ConfigPath: os.Getenv("HNCLI_CONFIG"),
		CachePath:  os.Getenv("HNCLI_CACHE_PATH"),
		LogPath:    os.Getenv("HNCLI_LOG_PATH"),
		LogLevel:   os.Getenv("HNCLI_LOG_LEVEL"),
	}

	if env.APIBaseURL == "" {
		env.APIBaseURL = hackernews.DefaultBaseURL
	}
	if env.ConfigPath == "" {
		env.ConfigPath = filepath.Join(xdg.ConfigHome, appDir, "config.yaml")
	}
	if env.CachePath == "" {
		env.CachePath = filepath.Join(xdg.CacheHome, appDir, "cache.db")
	}
	if env.LogPath == "" {
		env.LogPath = filepath.Join(xdg.StateHome, appDir, "hncli.log")
	}
	if env.LogLevel == "" {
		env.LogLevel = "info"
	}

	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e Env) Validate() error {
	if e.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if e.ConfigPath == "" {
		return errors.New("ConfigPath is required")
	}
	if e.CachePath == "" {
		return errors.New("CachePath is required")
	}
	if e.APIBaseURL[len(e.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", e.APIBaseURL)
	}
	return nil
}
