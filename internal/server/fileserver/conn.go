package fileserver

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Conn wraps a client connection for a single request/response cycle.
// It counts bytes written so the handler knows whether a response has begun.
type Conn struct {
	// ID correlates log lines of one connection.
	ID string

	netConn net.Conn
	written atomic.Int64
	closed  atomic.Bool
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		ID:      ulid.Make().String(),
		netConn: c,
	}
}

// Read reads from the underlying connection.
func (c *Conn) Read(p []byte) (int, error) {
	return c.netConn.Read(p)
}

// Write writes to the underlying connection and records the bytes sent.
func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.netConn.Write(p)
	c.written.Add(int64(n))
	return n, err
}

// Written returns the number of bytes sent so far.
func (c *Conn) Written() int64 {
	return c.written.Load()
}

// Close closes the connection. Only the first call reaches the socket.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

func (c *Conn) setReadTimeout(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.netConn.SetReadDeadline(time.Now().Add(d))
}

func (c *Conn) setWriteTimeout(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.netConn.SetWriteDeadline(time.Now().Add(d))
}
