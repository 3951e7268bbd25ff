package platform

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

// ValidateURL accepts only absolute http(s) URLs, the only kind handed to
// the system browser.
func ValidateURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("item has no URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func OpenURLInBrowser(raw string) error {
	target, err := ValidateURL(raw)
	if err != nil {
		return err
	}
	name, args := browserCommand(runtime.GOOS, target)
	return exec.Command(name, args...).Start()
}

func browserCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// CopyURLToClipboard writes the URL to the system clipboard, falling back
// to an OSC 52 escape sequence when no clipboard tool is installed so
// copying still works over SSH.
func CopyURLToClipboard(raw string) error {
	target, err := ValidateURL(raw)
	if err != nil {
		return err
	}
	if clipboardUnsupported() {
		osc52Copy(target)
		return nil
	}
	if err := writeClipboard(target); err != nil {
		osc52Copy(target)
	}
	return nil
}

var (
	writeClipboard       = clipboard.WriteAll
	osc52Copy            = termenv.Copy
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
)
