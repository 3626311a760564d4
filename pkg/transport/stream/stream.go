package stream

import (
	"errors"
	"io"
	"net"
	"os"
	"time"
)

// Transport adapts an io.ReadWriter to link.Transport.
// Timeouts are enforced only when the stream supports deadlines.
type Transport struct {
	rw io.ReadWriter
	dl deadliner
}

type deadliner interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

// New wraps rw.
func New(rw io.ReadWriter) *Transport {
	t := &Transport{rw: rw}
	t.dl, _ = rw.(deadliner)
	return t
}

// Dial connects to a TCP serial bridge.
func Dial(address string, timeout time.Duration) (*Transport, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}
	return New(conn), nil
}

// Write implements link.Transport.
func (t *Transport) Write(p []byte, timeout time.Duration) (int, error) {
	if t.dl != nil && timeout > 0 {
		if err := t.dl.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return 0, err
		}
	}
	return t.rw.Write(p)
}

// Read implements link.Transport. A timeout without data returns 0, nil.
func (t *Transport) Read(p []byte, timeout time.Duration) (int, error) {
	if t.dl != nil && timeout > 0 {
		if err := t.dl.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return 0, err
		}
	}
	n, err := t.rw.Read(p)
	if err != nil && IsTimeout(err) {
		err = nil
	}
	return n, err
}

// Close closes the underlying stream if it's an io.Closer.
func (t *Transport) Close() error {
	if c, ok := t.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// IsTimeout tells whether err is a deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
