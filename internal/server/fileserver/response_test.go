package fileserver

import (
	"bytes"
	"errors"
	"net/http"
	"testing"
	"time"
)

func fixClock(t *testing.T) {
	t.Helper()
	old := now
	now = func() time.Time { return time.Date(2024, time.March, 5, 14, 7, 9, 0, time.FixedZone("CET", 3600)) }
	t.Cleanup(func() { now = old })
}

func TestWriteStatus(t *testing.T) {
	fixClock(t)

	tests := []struct {
		status int
		line   string
	}{
		{http.StatusForbidden, "HTTP/1.1 403 Forbidden\r\n"},
		{http.StatusNotFound, "HTTP/1.1 404 Not Found\r\n"},
		{http.StatusMethodNotAllowed, "HTTP/1.1 405 Method Not Allowed\r\n"},
		{http.StatusInternalServerError, "HTTP/1.1 500 Internal Server Error\r\n"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteStatus(&buf, tt.status, "docserve/test")
			if err != nil {
				t.Fatalf("WriteStatus() error = %v", err)
			}
			want := tt.line +
				"Date: Tue, 05 Mar 2024 13:07:09 GMT\r\n" +
				"Server: docserve/test\r\n" +
				"Connection: close\r\n\r\n"
			if got := buf.String(); got != want {
				t.Errorf("WriteStatus() wrote\n%q\nwant\n%q", got, want)
			}
			if n != buf.Len() {
				t.Errorf("n = %d, want %d", n, buf.Len())
			}
		})
	}
}

func TestWriteFileHeader(t *testing.T) {
	fixClock(t)

	var buf bytes.Buffer
	if _, err := WriteFileHeader(&buf, 10, "text/html", "docserve/test"); err != nil {
		t.Fatalf("WriteFileHeader() error = %v", err)
	}
	want := "HTTP/1.1 200 OK\r\n" +
		"Date: Tue, 05 Mar 2024 13:07:09 GMT\r\n" +
		"Server: docserve/test\r\n" +
		"Content-Length: 10\r\n" +
		"Content-Type: text/html\r\n" +
		"Connection: close\r\n\r\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteFileHeader() wrote\n%q\nwant\n%q", got, want)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteStatus_WriterError(t *testing.T) {
	if _, err := WriteStatus(failWriter{}, http.StatusNotFound, "x"); err == nil {
		t.Error("WriteStatus() should surface writer errors")
	}
}
