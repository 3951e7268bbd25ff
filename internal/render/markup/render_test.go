package markup

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

var plain = Options{}

func TestLines_ParagraphsAndEntities(t *testing.T) {
	got := LinesWithOptions("First para<p>Second &#x27;quoted&#x27; &amp; done", 80, plain)
	want := []string{"First para", "", "Second 'quoted' & done"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestLines_ExpandsShortenedLinks(t *testing.T) {
	raw := `See <a href="https:&#x2F;&#x2F;example.com&#x2F;a&#x2F;very&#x2F;long&#x2F;path" rel="nofollow">https:&#x2F;&#x2F;example.com&#x2F;a&#x2F;very&#x2F;lo...</a> for details`
	got := strings.Join(LinesWithOptions(raw, 120, plain), "\n")
	if !strings.Contains(got, "https://example.com/a/very/long/path") {
		t.Fatalf("expected full href, got %q", got)
	}
	if strings.Contains(got, "lo...") {
		t.Fatalf("expected shortened label dropped, got %q", got)
	}
}

func TestLines_LinkWithDistinctText(t *testing.T) {
	got := strings.Join(LinesWithOptions(`<a href="https://go.dev">Go</a> rocks`, 80, plain), "\n")
	if got != "Go (https://go.dev) rocks" {
		t.Fatalf("unexpected link rendering: %q", got)
	}
}

func TestLines_PreformattedKeepsLayout(t *testing.T) {
	raw := "Try this:<p><pre><code>  for {\n    work()\n  }\n</code></pre>"
	got := LinesWithOptions(raw, 20, plain)
	joined := strings.Join(got, "\n")
	if !strings.Contains(joined, "    work()") {
		t.Fatalf("expected indentation preserved, got %q", got)
	}
	if got[0] != "Try this:" {
		t.Fatalf("unexpected first line: %q", got[0])
	}
}

func TestLines_WrapsToWidth(t *testing.T) {
	raw := "The quick brown fox jumps over the lazy dog and keeps running supercalifragilisticexpialidocious"
	for _, line := range LinesWithOptions(raw, 12, plain) {
		if w := runewidth.StringWidth(line); w > 12 {
			t.Fatalf("line %q is %d columns wide", line, w)
		}
	}
}

func TestLines_WideRunes(t *testing.T) {
	for _, line := range Wrap("日本語のテキストを折り返す", 6) {
		if w := runewidth.StringWidth(line); w > 6 {
			t.Fatalf("line %q is %d columns wide", line, w)
		}
	}
}

func TestLines_Empty(t *testing.T) {
	if got := Lines("   ", 80); got != nil {
		t.Fatalf("expected nil for blank input, got %q", got)
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText("<i>Hello</i> there<p>second"); got != "Hello there second" {
		t.Fatalf("unexpected plain text: %q", got)
	}
}
