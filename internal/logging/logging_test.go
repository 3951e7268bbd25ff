package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hncli.log")
	logger, closeFn := New(Config{Level: "debug", Output: path})
	logger.Debug().Str("key", "item:1").Msg("cache hit")
	if err := closeFn(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"message":"cache hit"`) || !strings.Contains(line, `"key":"item:1"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hncli.log")
	logger, closeFn := New(Config{Level: "warn", Output: path})
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")
	_ = closeFn()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "quiet") || !strings.Contains(string(data), "loud") {
		t.Fatalf("unexpected filtering: %s", data)
	}
}

func TestNew_EmptyOutputDiscards(t *testing.T) {
	logger, closeFn := New(Config{})
	if logger.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger, got %s", logger.GetLevel())
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != zerolog.DebugLevel {
		t.Fatal("expected case-insensitive level parsing")
	}
	if ParseLevel("verbose") != zerolog.InfoLevel {
		t.Fatal("expected info fallback")
	}
}
