package fileserver

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/yndnr/docserve-go/internal/core/domain"
)

func TestReadRequestHead(t *testing.T) {
	tests := []struct {
		name    string
		r       io.Reader
		limit   int
		want    string
		wantErr error
	}{
		{
			name:  "line with headers in one read",
			r:     strings.NewReader("GET / HTTP/1.1\r\nHost: x\r\n\r\n"),
			limit: 1024,
			want:  "GET / HTTP/1.1\r\nHost: x\r\n\r\n",
		},
		{
			name:  "stops at first newline across reads",
			r:     iotest.OneByteReader(strings.NewReader("GET /a HTTP/1.1\nHost: x\n")),
			limit: 1024,
			want:  "GET /a HTTP/1.1\n",
		},
		{
			name:  "limit reached without newline",
			r:     strings.NewReader(strings.Repeat("A", 64)),
			limit: 16,
			want:  strings.Repeat("A", 16),
		},
		{
			name:    "eof before newline",
			r:       strings.NewReader("GET / HTTP/1.1"),
			limit:   1024,
			want:    "GET / HTTP/1.1",
			wantErr: io.EOF,
		},
		{
			name:    "zero bytes",
			r:       strings.NewReader(""),
			limit:   1024,
			want:    "",
			wantErr: io.EOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readRequestHead(tt.r, tt.limit)
			if string(got) != tt.want {
				t.Errorf("head = %q, want %q", got, tt.want)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRequestLine(t *testing.T) {
	tests := []struct {
		name    string
		head    string
		want    domain.Request
		wantErr bool
	}{
		{"crlf", "GET /index.html HTTP/1.1\r\nHost: x\r\n\r\n", domain.Request{Method: "GET", RawPath: "/index.html", Version: "HTTP/1.1"}, false},
		{"lf only", "POST / HTTP/1.0\n", domain.Request{Method: "POST", RawPath: "/", Version: "HTTP/1.0"}, false},
		{"no line break", "GET /x HTTP/1.1", domain.Request{Method: "GET", RawPath: "/x", Version: "HTTP/1.1"}, false},
		{"two tokens", "GET /\r\n", domain.Request{}, true},
		{"four tokens", "GET / HTTP/1.1 extra\r\n", domain.Request{}, true},
		{"blank line", "\r\n", domain.Request{}, true},
		{"headers ignored even when bad", "GET / HTTP/1.1\r\n:::\r\n", domain.Request{Method: "GET", RawPath: "/", Version: "HTTP/1.1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequestLine([]byte(tt.head))
			if tt.wantErr {
				if !errors.Is(err, domain.ErrProtocol) {
					t.Fatalf("err = %v, want ErrProtocol", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequestLine() error = %v", err)
			}
			if *req != tt.want {
				t.Errorf("request = %+v, want %+v", *req, tt.want)
			}
		})
	}
}
