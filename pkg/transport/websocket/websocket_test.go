package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func echoServer() *httptest.Server {
	return httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		for {
			var msg []byte
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
			if err := websocket.Message.Send(conn, msg); err != nil {
				return
			}
		}
	}))
}

func dialTest(t *testing.T, srv *httptest.Server) *Transport {
	tr, err := Dial("ws"+strings.TrimPrefix(srv.URL, "http"), "")
	require.NoError(t, err)
	return tr
}

func TestEcho(t *testing.T) {
	srv := echoServer()
	defer srv.Close()
	tr := dialTest(t, srv)
	defer tr.Close()

	frame := []byte{0xC8, 0x06, 0x7A, 0xC8, 0xEE, 0x68, 0x00, 0xB5}
	n, err := tr.Write(frame, time.Second)
	require.NoError(t, err)
	require.Equal(t, len(frame), n)

	var got []byte
	buf := make([]byte, 3)
	for len(got) < len(frame) {
		n, err := tr.Read(buf, time.Second)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	require.Equal(t, frame, got)
}

func TestReadTimeout(t *testing.T) {
	srv := echoServer()
	defer srv.Close()
	tr := dialTest(t, srv)
	defer tr.Close()

	n, err := tr.Read(make([]byte, 8), 10*time.Millisecond)
	require.NoError(t, err)
	require.Zero(t, n)
}
