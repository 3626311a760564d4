package serial

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaudRate is the CRSF rate of most transmitter modules.
const DefaultBaudRate = 460800

// ErrWriteTimeout indicates the device didn't take the bytes in time.
// The output buffer is flushed and the port refuses writes until the
// stalled one returns.
var ErrWriteTimeout = errors.New("serial write timeout")

// Port is a serial port implementing link.Transport.
type Port struct {
	Name string

	port serial.Port

	readLock    sync.Mutex
	readTimeout time.Duration

	writeLock sync.Mutex
	stalled   chan writeResult
}

type writeResult struct {
	n   int
	err error
}

// Open opens a serial port in 8N1 mode.
func Open(name string, baud int) (*Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return newPort(name, port), nil
}

func newPort(name string, port serial.Port) *Port {
	return &Port{Name: name, port: port, readTimeout: -1}
}

// Write implements link.Transport. A write not done within timeout is
// abandoned with ErrWriteTimeout, timeout <= 0 waits for the device.
func (p *Port) Write(b []byte, timeout time.Duration) (int, error) {
	p.writeLock.Lock()
	defer p.writeLock.Unlock()
	if p.stalled != nil {
		select {
		case <-p.stalled:
			p.stalled = nil
		default:
			return 0, ErrWriteTimeout
		}
	}
	if timeout <= 0 {
		return p.port.Write(b)
	}

	buf := append([]byte(nil), b...)
	result := make(chan writeResult, 1)
	go func() {
		n, err := p.port.Write(buf)
		result <- writeResult{n: n, err: err}
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-result:
		return r.n, r.err
	case <-timer.C:
	}
	if err := p.port.ResetOutputBuffer(); err != nil {
		glog.Warningf("serial %s: flush after write timeout: %v", p.Name, err)
	}
	p.stalled = result
	return 0, ErrWriteTimeout
}

// Read implements link.Transport.
func (p *Port) Read(b []byte, timeout time.Duration) (int, error) {
	p.readLock.Lock()
	defer p.readLock.Unlock()
	if timeout != p.readTimeout {
		if err := p.port.SetReadTimeout(timeout); err != nil {
			return 0, err
		}
		p.readTimeout = timeout
	}
	return p.port.Read(b)
}

// Close closes the port.
func (p *Port) Close() error {
	return p.port.Close()
}

// PortInfo describes an available serial port.
type PortInfo struct {
	Name    string
	USB     bool
	VID     string
	PID     string
	Serial  string
	Product string
}

// String implements fmt.Stringer.
func (i PortInfo) String() string {
	if !i.USB {
		return i.Name
	}
	return fmt.Sprintf("%s [%s:%s] %s", i.Name, i.VID, i.PID, i.Product)
}

// ListPorts lists available serial ports.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		names, err := serial.GetPortsList()
		if err != nil {
			return nil, err
		}
		infos := make([]PortInfo, len(names))
		for n, name := range names {
			infos[n].Name = name
		}
		return infos, nil
	}
	infos := make([]PortInfo, 0, len(details))
	for _, d := range details {
		infos = append(infos, PortInfo{
			Name:    d.Name,
			USB:     d.IsUSB,
			VID:     d.VID,
			PID:     d.PID,
			Serial:  d.SerialNumber,
			Product: d.Product,
		})
	}
	return infos, nil
}
