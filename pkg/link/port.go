package link

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Transport is the byte transport to the transmitter module.
// Neither call may block longer than roughly its timeout. A Read timing out
// without data returns 0, nil.
type Transport interface {
	Write(p []byte, timeout time.Duration) (int, error)
	Read(p []byte, timeout time.Duration) (int, error)
}

var (
	// ErrWriteFailed indicates the transport wrote nothing.
	ErrWriteFailed = errors.New("write failed")
	// ErrShortWrite indicates only part of a frame was written.
	ErrShortWrite = errors.New("short write")
	// ErrReadFailed indicates the transport reported a negative count.
	ErrReadFailed = errors.New("read failed")
)

// Port serializes frame writes to a Transport.
type Port struct {
	Transport    Transport
	WriteTimeout time.Duration
	ReadTimeout  time.Duration

	writeLock sync.Mutex

	framesWritten atomic.Uint64
	writeFailures atomic.Uint64
	bytesRead     atomic.Uint64
	readFailures  atomic.Uint64
}

// PortStats are counters of a Port.
type PortStats struct {
	FramesWritten uint64
	WriteFailures uint64
	BytesRead     uint64
	ReadFailures  uint64
}

// NewPort creates a Port with default timeouts.
func NewPort(t Transport) *Port {
	return &Port{
		Transport:    t,
		WriteTimeout: defaultConfig.WriteTimeout,
		ReadTimeout:  defaultConfig.ReadTimeout,
	}
}

// WriteFrame writes one complete frame while holding the write lock,
// so frames from different callers never interleave on the wire.
func (p *Port) WriteFrame(frame []byte) error {
	p.writeLock.Lock()
	n, err := p.Transport.Write(frame, p.WriteTimeout)
	p.writeLock.Unlock()
	switch {
	case err != nil:
		err = fmt.Errorf("%w: %v", ErrWriteFailed, err)
	case n <= 0:
		err = ErrWriteFailed
	case n < len(frame):
		err = fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(frame))
	}
	if err != nil {
		p.writeFailures.Add(1)
		return err
	}
	p.framesWritten.Add(1)
	return nil
}

// Read reads available bytes with ReadTimeout.
// Only the receiver reads, so reads are not serialized.
func (p *Port) Read(buf []byte) (int, error) {
	n, err := p.Transport.Read(buf, p.ReadTimeout)
	if err == nil && n < 0 {
		err = ErrReadFailed
	}
	if err != nil {
		p.readFailures.Add(1)
		return 0, err
	}
	if n > 0 {
		p.bytesRead.Add(uint64(n))
	}
	return n, nil
}

// Stats gets the counters.
func (p *Port) Stats() PortStats {
	return PortStats{
		FramesWritten: p.framesWritten.Load(),
		WriteFailures: p.writeFailures.Load(),
		BytesRead:     p.bytesRead.Load(),
		ReadFailures:  p.readFailures.Load(),
	}
}
