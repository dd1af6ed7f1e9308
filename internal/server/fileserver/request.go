package fileserver

import (
	"bytes"
	"io"

	"github.com/yndnr/docserve-go/internal/core/domain"
)

// readRequestHead reads at most limit bytes from r, stopping once a line
// break has been seen. Bytes following the first line (headers, body) are
// read only incidentally and never interpreted.
//
// A short head with an error is still returned; the caller decides whether
// the bytes are usable.
func readRequestHead(r io.Reader, limit int) ([]byte, error) {
	buf := make([]byte, limit)
	n := 0
	for n < limit {
		m, err := r.Read(buf[n:])
		if m > 0 && bytes.IndexByte(buf[n:n+m], '\n') >= 0 {
			return buf[:n+m], nil
		}
		n += m
		if err != nil {
			return buf[:n], err
		}
	}
	return buf[:n], nil
}

// ParseRequestLine parses the first line of head into a Request.
// The line break may be LF or CRLF; a head without one is parsed as is.
func ParseRequestLine(head []byte) (*domain.Request, error) {
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}
	return domain.NewRequest(string(line))
}
