package fileserver

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"
)

// now is replaced in tests.
var now = time.Now

// WriteStatus writes a body-less response: status line, Date, Server,
// Connection: close and the blank line.
func WriteStatus(w io.Writer, status int, server string) (int, error) {
	var b bytes.Buffer
	writeStatusLine(&b, status)
	writeCommonHeaders(&b, server)
	b.WriteString("Connection: close\r\n\r\n")
	return w.Write(b.Bytes())
}

// WriteFileHeader writes the header block of a 200 response announcing a
// body of size bytes.
func WriteFileHeader(w io.Writer, size int64, contentType, server string) (int, error) {
	var b bytes.Buffer
	writeStatusLine(&b, http.StatusOK)
	writeCommonHeaders(&b, server)
	b.WriteString("Content-Length: ")
	b.WriteString(strconv.FormatInt(size, 10))
	b.WriteString("\r\nContent-Type: ")
	b.WriteString(contentType)
	b.WriteString("\r\nConnection: close\r\n\r\n")
	return w.Write(b.Bytes())
}

func writeStatusLine(b *bytes.Buffer, status int) {
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(status))
	b.WriteByte(' ')
	b.WriteString(http.StatusText(status))
	b.WriteString("\r\n")
}

func writeCommonHeaders(b *bytes.Buffer, server string) {
	b.WriteString("Date: ")
	b.WriteString(now().UTC().Format(http.TimeFormat))
	b.WriteString("\r\nServer: ")
	b.WriteString(server)
	b.WriteString("\r\n")
}
