package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default config", DefaultConfig(), false},
		{"text format", Config{Level: "debug", Format: "text"}, false},
		{"console format", Config{Level: "info", Format: "console"}, false},
		{"empty format is json", Config{Level: "info"}, false},
		{"unknown format", Config{Level: "info", Format: "xml"}, true},
		{"unknown level", Config{Level: "verbose", Format: "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("New() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if l == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("file served", "path", "/index.html", "status", 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry["msg"] != "file served" {
		t.Errorf("msg = %v, want %q", entry["msg"], "file served")
	}
	if entry["path"] != "/index.html" {
		t.Errorf("path = %v, want %q", entry["path"], "/index.html")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("debug message")
	l.Info("info message")
	if buf.Len() > 0 {
		t.Error("Debug/Info messages should be filtered when level is warn")
	}

	l.Warn("warn message")
	if buf.Len() == 0 {
		t.Error("Warn message should be logged")
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "error", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("info message")
	if buf.Len() > 0 {
		t.Error("Info should be filtered at error level")
	}

	SetLevel("debug")
	t.Cleanup(func() { SetLevel("info") })

	l.Info("info message after level change")
	if buf.Len() == 0 {
		t.Error("Info should be logged after level changed to debug")
	}
	if level := GetLevel(); level != "debug" {
		t.Errorf("GetLevel() = %q, want %q", level, "debug")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"debug", "debug", false},
		{"DEBUG", "debug", false},
		{"info", "info", false},
		{"", "info", false},
		{"warn", "warn", false},
		{"warning", "warn", false},
		{"ERROR", "error", false},
		{"invalid", "info", true},
	}

	t.Cleanup(func() { SetLevel("info") })
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			SetLevel(tt.input)
			if got := GetLevel(); got != tt.expected {
				t.Errorf("SetLevel(%q); GetLevel() = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogger_SanitizesControlCharacters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("request", "line", "GET /x HTTP/1.1\nlevel=ERROR msg=forged")

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Errorf("log output spans multiple lines: %q", out)
	}
	if !strings.Contains(out, `\n`) {
		t.Errorf("newline should be escaped, got %q", out)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
	}{
		{"clean", "/index.html", "/index.html", false},
		{"crlf", "a\r\nb", `a\r\nb`, true},
		{"tab", "a\tb", `a\tb`, true},
		{"nul", "a\x00b", `a\x00b`, true},
		{"unicode kept", "/café.txt", "/café.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Sanitize(tt.input)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("Sanitize(%q) = (%q, %v), want (%q, %v)", tt.input, got, changed, tt.want, tt.wantChanged)
			}
		})
	}

	long := strings.Repeat("a", maxAttrLen+100)
	got, changed := Sanitize(long)
	if !changed || !strings.HasSuffix(got, "...(truncated)") || len(got) > maxAttrLen+20 {
		t.Errorf("Sanitize(long) = len %d changed %v, want truncated", len(got), changed)
	}
}

func TestSanitize_TruncatesOnRuneBoundary(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"two byte", "a" + strings.Repeat("é", maxAttrLen)},
		{"three byte", "ab" + strings.Repeat("€", maxAttrLen)},
		{"four byte", "abc" + strings.Repeat("😀", maxAttrLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Sanitize(tt.input)
			if !changed {
				t.Fatal("long input should be reported as changed")
			}
			if !utf8.ValidString(got) {
				t.Errorf("Sanitize() produced invalid UTF-8: %q", got)
			}
			kept := strings.TrimSuffix(got, "...(truncated)")
			if len(kept) > maxAttrLen || !strings.HasPrefix(tt.input, kept) {
				t.Errorf("kept %d bytes, want a prefix of at most %d", len(kept), maxAttrLen)
			}
			if len(kept) < maxAttrLen-utf8.UTFMax {
				t.Errorf("kept only %d bytes", len(kept))
			}
		})
	}
}
