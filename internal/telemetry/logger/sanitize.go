// Package logger provides structured logging for docserve.
package logger

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxAttrLen caps string attributes; request lines are attacker controlled.
const maxAttrLen = 512

// sanitizeAttr escapes control characters in string attributes so a request
// line cannot forge log records in text output, and truncates long values.
func sanitizeAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if clean, changed := Sanitize(s); changed {
			return slog.String(a.Key, clean)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = sanitizeAttr(nil, attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// Sanitize returns s with control characters quoted and its length capped.
// The boolean reports whether anything was changed.
func Sanitize(s string) (string, bool) {
	changed := false
	if len(s) > maxAttrLen {
		s = s[:truncateAt(s, maxAttrLen)] + "...(truncated)"
		changed = true
	}
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s, changed
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if unicode.IsControl(r) {
			q := strconv.QuoteRune(r)
			b.WriteString(q[1 : len(q)-1])
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// truncateAt moves n back to the start of the rune it falls in, so a cut
// never splits a multi-byte character. Invalid input is cut at n.
func truncateAt(s string, n int) int {
	for i := n; i > n-utf8.UTFMax && i > 0; i-- {
		if utf8.RuneStart(s[i]) {
			return i
		}
	}
	return n
}
