// Package sim simulates the far end of a CRSF link so the engine, shell and
// bridge can run without hardware.
package sim

import (
	"bytes"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/crsflink/pkg/crsf"
)

// Receiver simulates a transmitter module with a bound receiver and flight
// controller. It implements link.Transport: RC frames written to it drive a
// simple attitude and battery model, and telemetry is read back.
type Receiver struct {
	// LinkQuality and RSSI are reported in link statistics while RC frames
	// keep arriving within FailsafeTimeout.
	LinkQuality     int
	RSSI            int
	FailsafeTimeout time.Duration
	// TelemetryInterval is the period of battery, attitude and mode frames.
	TelemetryInterval time.Duration
	// CapacityMah is the simulated pack size.
	CapacityMah float64
	// MaxRate is the attitude rate at full stick deflection per second.
	MaxRate Angle
	Now     func() time.Time

	lock          sync.Mutex
	parser        crsf.Parser
	out           bytes.Buffer
	channels      crsf.ChannelSet
	lastRC        time.Time
	lastStep      time.Time
	lastTelemetry time.Time
	pitch         Angle
	roll          Angle
	yaw           Angle
	usedMah       float64
	currentMa     float64
	txPower       int
}

// Simulated pack and model constants.
const (
	cellFullMv   = 4200
	cellEmptyMv  = 3300
	cells        = 4
	idleMa       = 400
	fullMa       = 30000
	sagMvPerAmp  = 15
	armThreshold = 1500
	maxTilt      = Angle(0.8)
)

var txPowerSteps = []int{10, 25, 50, 100, 250, 500, 1000}

// NewReceiver creates a Receiver with a healthy link.
func NewReceiver() *Receiver {
	return &Receiver{
		LinkQuality:       100,
		RSSI:              -60,
		FailsafeTimeout:   250 * time.Millisecond,
		TelemetryInterval: 100 * time.Millisecond,
		CapacityMah:       1500,
		MaxRate:           AngleFromDegrees(90),
		Now:               time.Now,
		channels:          crsf.NeutralChannels(),
		txPower:           3,
	}
}

// Write implements link.Transport.
func (r *Receiver) Write(p []byte, timeout time.Duration) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.parser.Feed(p, r.handle)
	return len(p), nil
}

// Read implements link.Transport. Without pending telemetry it waits at
// most timeout.
func (r *Receiver) Read(p []byte, timeout time.Duration) (int, error) {
	r.lock.Lock()
	r.step(r.Now())
	n, _ := r.out.Read(p)
	r.lock.Unlock()
	if n == 0 && timeout > 0 {
		time.Sleep(timeout)
	}
	return n, nil
}

// Close implements io.Closer.
func (r *Receiver) Close() error {
	return nil
}

// Armed tells whether the last RC frame had the arm channel high.
func (r *Receiver) Armed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.armed()
}

// Channels gets the last received channels.
func (r *Receiver) Channels() crsf.ChannelSet {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.channels
}

func (r *Receiver) armed() bool {
	return r.channels[4] > armThreshold
}

func (r *Receiver) handle(f *crsf.Frame) {
	now := r.Now()
	switch f.Type {
	case crsf.FrameTypeRCChannels:
		ch, err := crsf.UnpackChannels(f.Payload)
		if err != nil {
			glog.V(3).Infof("sim: %v", err)
			return
		}
		r.integrate(now)
		r.channels, r.lastRC = ch, now
	case crsf.FrameTypeMSPCommand:
		if len(f.Payload) < 4 {
			return
		}
		r.command(crsf.CommandFunction(f.Payload[2]), f.Payload[4:])
	}
}

func (r *Receiver) command(fn crsf.CommandFunction, payload []byte) {
	switch fn {
	case crsf.FunctionLinkParams:
		if len(payload) >= 4 && payload[3] == 0 {
			r.emit(r.linkStats())
		} else {
			glog.Info("sim: bind requested")
		}
	case crsf.FunctionPower:
		if len(payload) > 0 && payload[0] != 0 {
			r.txPower++
		} else {
			r.txPower--
		}
		if r.txPower < 0 {
			r.txPower = 0
		} else if r.txPower >= len(txPowerSteps) {
			r.txPower = len(txPowerSteps) - 1
		}
		r.emit(r.linkStats())
	case crsf.FunctionDiscover:
		r.emit(crsf.UnknownFrame{Type: crsf.FrameTypeDeviceInfo, Payload: append([]byte("SIM"), 0)})
	case crsf.FunctionReboot:
		r.channels, r.lastRC = crsf.NeutralChannels(), time.Time{}
	}
}

func (r *Receiver) linkStats() crsf.LinkStats {
	ls := crsf.LinkStats{
		RSSI1:   r.RSSI,
		RSSI2:   r.RSSI - 3,
		LQ:      r.LinkQuality,
		SNR:     9,
		TxPower: txPowerSteps[r.txPower],
	}
	if r.lastRC.IsZero() || r.Now().Sub(r.lastRC) > r.FailsafeTimeout {
		ls.LQ, ls.RSSI1, ls.RSSI2 = 0, -130, -130
	}
	return ls
}

func (r *Receiver) emit(s crsf.Sample) {
	f, err := crsf.EncodeTelemetry(s)
	if err == nil {
		_, err = f.WriteTo(&r.out)
	}
	if err != nil {
		glog.Errorf("sim: emit %s: %v", s.Kind(), err)
	}
}

func stick(v uint16) float64 {
	return (float64(v) - float64(crsf.ChannelCenter)) / float64(crsf.ChannelCenter-crsf.ChannelMin)
}

// step advances the model to now and emits periodic telemetry.
func (r *Receiver) step(now time.Time) {
	r.integrate(now)
	if r.TelemetryInterval <= 0 || now.Sub(r.lastTelemetry) < r.TelemetryInterval {
		return
	}
	r.lastTelemetry = now
	r.emit(r.battery())
	r.emit(crsf.Attitude{Pitch: r.pitch.Radians(), Roll: r.roll.Radians(), Yaw: r.yaw.Radians()})
	r.emit(crsf.FlightMode{Mode: r.mode()})
}

// integrate applies the last channels from the previous step to now.
func (r *Receiver) integrate(now time.Time) {
	if !r.lastStep.IsZero() {
		dt := now.Sub(r.lastStep).Seconds()
		throttle := (float64(r.channels[2]) - float64(crsf.ChannelMin)) / float64(crsf.ChannelMax-crsf.ChannelMin)
		r.currentMa = idleMa
		if r.armed() {
			r.currentMa += throttle * (fullMa - idleMa)
			rate := r.MaxRate.Radians() * dt
			r.roll = r.roll.AddRadians(stick(r.channels[0]) * rate).Clamp(maxTilt)
			r.pitch = r.pitch.AddRadians(stick(r.channels[1]) * rate).Clamp(maxTilt)
			r.yaw = r.yaw.AddRadians(stick(r.channels[3]) * rate)
		}
		r.usedMah += r.currentMa * dt / 3600
	}
	r.lastStep = now
}

func (r *Receiver) battery() crsf.Battery {
	left := 1 - r.usedMah/r.CapacityMah
	if left < 0 {
		left = 0
	}
	mv := cells*(cellEmptyMv+left*(cellFullMv-cellEmptyMv)) - r.currentMa/1000*sagMvPerAmp
	return crsf.Battery{
		VoltageMv:   int(mv),
		CurrentMa:   int(r.currentMa),
		CapacityMah: int(r.usedMah),
		Remaining:   int(left * 100),
	}
}

func (r *Receiver) mode() string {
	switch {
	case r.lastRC.IsZero() || r.Now().Sub(r.lastRC) > r.FailsafeTimeout:
		return "!FS!"
	case r.armed():
		return "ACRO"
	}
	return "OK"
}
