package memory

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	if got := truncate("short", 50); got != "short" {
		t.Errorf("text within the limit must pass through, got %q", got)
	}

	long := strings.Repeat("a", 60)
	got := truncate(long, 50)
	if got != long[:50]+"..." {
		t.Errorf("ascii truncation: got %q", got)
	}

	// A cut landing inside a multi-byte character must back up to the
	// rune boundary, never emit invalid UTF-8.
	multibyte := strings.Repeat("猫", 20)
	for maxLen := 1; maxLen < len(multibyte); maxLen++ {
		got := truncate(multibyte, maxLen)
		if !utf8.ValidString(got) {
			t.Fatalf("maxLen=%d produced invalid UTF-8: %q", maxLen, got)
		}
	}
	if got := truncate(multibyte, 50); got != strings.Repeat("猫", 16)+"..." {
		t.Errorf("expected cut on the rune boundary before byte 50, got %q", got)
	}
}
