package link

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortWriteFrame(t *testing.T) {
	ft := &fakeTransport{}
	p := NewPort(ft)
	require.NoError(t, p.WriteFrame(rebootFrame))
	require.Equal(t, [][]byte{rebootFrame}, ft.written())
	require.Equal(t, PortStats{FramesWritten: 1}, p.Stats())
}

func TestPortWriteFailures(t *testing.T) {
	tests := []struct {
		name   string
		writeN func([]byte) (int, error)
		err    error
	}{
		{"error", func([]byte) (int, error) { return 0, errBroken }, ErrWriteFailed},
		{"zero", func([]byte) (int, error) { return 0, nil }, ErrWriteFailed},
		{"negative", func([]byte) (int, error) { return -1, nil }, ErrWriteFailed},
		{"short", func(p []byte) (int, error) { return len(p) - 1, nil }, ErrShortWrite},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPort(&fakeTransport{writeN: tc.writeN})
			require.ErrorIs(t, p.WriteFrame(rebootFrame), tc.err)
			require.Equal(t, uint64(1), p.Stats().WriteFailures)
			require.Zero(t, p.Stats().FramesWritten)
		})
	}
}

func TestPortSerializesWrites(t *testing.T) {
	ft := &fakeTransport{delay: time.Millisecond}
	p := NewPort(ft)
	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.NoError(t, p.WriteFrame(pollFrame))
			}
		}()
	}
	wg.Wait()
	require.Zero(t, ft.overlaps.Load())
	require.Len(t, ft.written(), 40)
	for _, w := range ft.written() {
		require.Equal(t, pollFrame, w)
	}
}

func TestPortRead(t *testing.T) {
	ft := &fakeTransport{}
	p := NewPort(ft)
	buf := make([]byte, 64)

	n, err := p.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)

	ft.queue(batteryFrame)
	n, err = p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, batteryFrame, buf[:n])
	require.Equal(t, uint64(len(batteryFrame)), p.Stats().BytesRead)

	ft.readErr = errBroken
	_, err = p.Read(buf)
	require.ErrorIs(t, err, errBroken)
	require.Equal(t, uint64(1), p.Stats().ReadFailures)
}
