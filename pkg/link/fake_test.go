package link

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robotalks/crsflink/pkg/crsf"
)

// fakeTransport records writes and replays queued read chunks.
type fakeTransport struct {
	lock    sync.Mutex
	writes  [][]byte
	chunks  [][]byte
	delay   time.Duration
	writeN  func(p []byte) (int, error)
	readErr error

	inflight atomic.Int32
	overlaps atomic.Int32
}

func (t *fakeTransport) Write(p []byte, timeout time.Duration) (int, error) {
	if t.inflight.Add(1) > 1 {
		t.overlaps.Add(1)
	}
	defer t.inflight.Add(-1)
	if t.delay > 0 {
		time.Sleep(t.delay)
	}
	if t.writeN != nil {
		return t.writeN(p)
	}
	t.lock.Lock()
	t.writes = append(t.writes, append([]byte(nil), p...))
	t.lock.Unlock()
	return len(p), nil
}

func (t *fakeTransport) Read(p []byte, timeout time.Duration) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.readErr != nil {
		return 0, t.readErr
	}
	if len(t.chunks) == 0 {
		return 0, nil
	}
	n := copy(p, t.chunks[0])
	if n < len(t.chunks[0]) {
		t.chunks[0] = t.chunks[0][n:]
	} else {
		t.chunks = t.chunks[1:]
	}
	return n, nil
}

func (t *fakeTransport) queue(chunks ...[]byte) {
	t.lock.Lock()
	t.chunks = append(t.chunks, chunks...)
	t.lock.Unlock()
}

func (t *fakeTransport) written() [][]byte {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([][]byte(nil), t.writes...)
}

func (t *fakeTransport) lastWrite() []byte {
	w := t.written()
	if len(w) == 0 {
		return nil
	}
	return w[len(w)-1]
}

var errBroken = errors.New("broken")

// recordSink collects samples.
type recordSink struct {
	lock    sync.Mutex
	samples []crsf.Sample
}

func (s *recordSink) Notify(sample crsf.Sample) {
	s.lock.Lock()
	s.samples = append(s.samples, sample)
	s.lock.Unlock()
}

func (s *recordSink) all() []crsf.Sample {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]crsf.Sample(nil), s.samples...)
}

// tick is a ControlContext for driving controllers directly.
type tick struct {
	now  time.Time
	iter uint64
}

func (t tick) Time() time.Time { return t.now }

func (t tick) Context() context.Context { return context.Background() }

func (t tick) Iteration() uint64 { return t.iter }

func hexFrame(b ...byte) []byte { return b }

var (
	linkStatsFrame    = hexFrame(0xC8, 0x0C, 0x14, 0x50, 0x5A, 0x64, 0x0A, 0x00, 0x04, 0x03, 0x4B, 0x62, 0x08, 0x74)
	linkStatsBadFrame = hexFrame(0xC8, 0x0C, 0x14, 0x6E, 0x6E, 0x1E, 0xF6, 0x01, 0x02, 0x01, 0x6E, 0x14, 0xF0, 0xE7)
	batteryFrame      = hexFrame(0xC8, 0x0A, 0x08, 0x00, 0x9A, 0x00, 0x0F, 0x00, 0x01, 0xF4, 0x4B, 0x2A)
	unknownFrame      = hexFrame(0xC8, 0x04, 0x29, 0x01, 0x02, 0x23)
	pollFrame         = hexFrame(0xC8, 0x0A, 0x7A, 0xC8, 0xEE, 0x2D, 0x04, 0xEE, 0xEA, 0x00, 0x00, 0x5F)
	rebootFrame       = hexFrame(0xC8, 0x06, 0x7A, 0xC8, 0xEE, 0x68, 0x00, 0xB5)
)
