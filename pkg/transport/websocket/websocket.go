package websocket

import (
	"time"

	"golang.org/x/net/websocket"

	"github.com/robotalks/crsflink/pkg/transport/stream"
)

// Transport carries raw CRSF bytes in binary websocket messages,
// as exposed by wireless transmitter bridges.
type Transport struct {
	conn    *websocket.Conn
	pending []byte
}

// New wraps a websocket connection.
func New(conn *websocket.Conn) *Transport {
	conn.PayloadType = websocket.BinaryFrame
	return &Transport{conn: conn}
}

// Dial connects to a websocket bridge.
func Dial(url, origin string) (*Transport, error) {
	if origin == "" {
		origin = "http://localhost/"
	}
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Write implements link.Transport. Each frame is sent as one message.
func (t *Transport) Write(p []byte, timeout time.Duration) (int, error) {
	if timeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return 0, err
		}
	}
	if err := websocket.Message.Send(t.conn, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Read implements link.Transport. Bytes of a message not fitting p are
// returned by following reads.
func (t *Transport) Read(p []byte, timeout time.Duration) (int, error) {
	if len(t.pending) == 0 {
		if timeout > 0 {
			if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return 0, err
			}
		}
		var msg []byte
		if err := websocket.Message.Receive(t.conn, &msg); err != nil {
			if stream.IsTimeout(err) {
				return 0, nil
			}
			return 0, err
		}
		t.pending = msg
	}
	n := copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

// Close closes the connection.
func (t *Transport) Close() error {
	return t.conn.Close()
}
