package crawl

import (
	"fmt"
	"strings"
	"time"
)

// DisplayURL drops the scheme of pageURL and, when the rest is longer than
// width runes, keeps its tail behind "…".
func DisplayURL(pageURL string, width int) string {
	if width <= 0 {
		return ""
	}
	s := pageURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return "…" + string(r[len(r)-width+1:])
}

// FormatBytes renders n with a binary unit: "512 B", "1.5 KB", "2.0 MB".
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	units := []string{"KB", "MB", "GB"}
	v := float64(n) / 1024
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}

// FormatTokens renders an approximate token count: "~500 tokens", "~2k tokens".
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatDuration rounds d for progress output.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

// Summary describes the saved text: its size and, when tokens were
// counted, their approximate number.
func (r *Result) Summary() string {
	if r.Tokens == 0 {
		return FormatBytes(r.Bytes)
	}
	return FormatBytes(r.Bytes) + ", " + FormatTokens(r.Tokens)
}
