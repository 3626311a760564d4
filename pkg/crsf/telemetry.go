package crsf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// SampleKind identifies the type of a telemetry sample.
type SampleKind int

// Sample kinds.
const (
	SampleUnknown SampleKind = iota
	SampleLinkStats
	SampleBattery
	SampleAttitude
	SampleFlightMode
)

var sampleKindNames = [...]string{
	SampleUnknown:    "unknown",
	SampleLinkStats:  "link",
	SampleBattery:    "battery",
	SampleAttitude:   "attitude",
	SampleFlightMode: "flight-mode",
}

// String implements fmt.Stringer.
func (k SampleKind) String() string {
	if k >= 0 && int(k) < len(sampleKindNames) {
		return sampleKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sample is one decoded telemetry frame.
type Sample interface {
	Kind() SampleKind
	// Values flattens the sample into up to five numbers, in the order the
	// fields are declared.
	Values() [5]float64
}

// Link quality thresholds for LinkOK.
const (
	MinLinkQuality = 50
	MinLinkRSSI    = -100
)

// txPowerMilliwatts maps the uplink power enum to mW.
var txPowerMilliwatts = [...]int{0, 10, 25, 100, 500, 1000, 2000, 250, 50}

// LinkStats comes from LINK_STATISTICS frames.
type LinkStats struct {
	RSSI1   int // dBm
	RSSI2   int // dBm
	LQ      int // %
	SNR     int // dB
	TxPower int // mW

	ActiveAntenna int
	RFMode        int
	DownlinkRSSI  int
	DownlinkLQ    int
	DownlinkSNR   int
}

// Kind implements Sample.
func (s LinkStats) Kind() SampleKind { return SampleLinkStats }

// Values implements Sample.
func (s LinkStats) Values() [5]float64 {
	return [5]float64{float64(s.RSSI1), float64(s.RSSI2), float64(s.LQ), float64(s.SNR), float64(s.TxPower)}
}

// LinkOK tells whether the link is good enough to command throttle.
func (s LinkStats) LinkOK() bool {
	return s.LQ > MinLinkQuality && (s.RSSI1 > MinLinkRSSI || s.RSSI2 > MinLinkRSSI)
}

// Battery comes from BATTERY_SENSOR frames.
type Battery struct {
	VoltageMv   int
	CurrentMa   int
	CapacityMah int
	Remaining   int // %
}

// Kind implements Sample.
func (s Battery) Kind() SampleKind { return SampleBattery }

// Values implements Sample.
func (s Battery) Values() [5]float64 {
	return [5]float64{float64(s.VoltageMv), float64(s.CurrentMa), float64(s.CapacityMah), float64(s.Remaining)}
}

// Attitude comes from ATTITUDE frames, angles in radians.
type Attitude struct {
	Pitch float64
	Roll  float64
	Yaw   float64
}

// Kind implements Sample.
func (s Attitude) Kind() SampleKind { return SampleAttitude }

// Values implements Sample.
func (s Attitude) Values() [5]float64 {
	return [5]float64{s.Pitch, s.Roll, s.Yaw}
}

// FlightMode comes from FLIGHT_MODE frames.
type FlightMode struct {
	Mode string
}

// Kind implements Sample.
func (s FlightMode) Kind() SampleKind { return SampleFlightMode }

// Values implements Sample.
func (s FlightMode) Values() [5]float64 {
	return [5]float64{float64(len(s.Mode))}
}

// UnknownFrame wraps a frame that couldn't be decoded.
type UnknownFrame struct {
	Type    FrameType
	Payload []byte
}

// Kind implements Sample.
func (s UnknownFrame) Kind() SampleKind { return SampleUnknown }

// Values implements Sample.
func (s UnknownFrame) Values() [5]float64 {
	return [5]float64{float64(s.Type), float64(len(s.Payload))}
}

// Payload sizes of telemetry frames.
const (
	linkStatsSize  = 10
	batterySize    = 8
	attitudeSize   = 6
	attitudeScale  = 10000.0
	deciUnitsToMil = 100
)

// DecodeTelemetry decodes a frame into a Sample.
// Unknown frame types are returned as UnknownFrame without error.
func DecodeTelemetry(f *Frame) (Sample, error) {
	p := f.Payload
	switch f.Type {
	case FrameTypeLinkStatistics:
		if len(p) < linkStatsSize {
			return nil, shortPayload(f, linkStatsSize)
		}
		s := LinkStats{
			RSSI1:         -int(p[0]),
			RSSI2:         -int(p[1]),
			LQ:            int(p[2]),
			SNR:           int(int8(p[3])),
			ActiveAntenna: int(p[4]),
			RFMode:        int(p[5]),
			DownlinkRSSI:  -int(p[7]),
			DownlinkLQ:    int(p[8]),
			DownlinkSNR:   int(int8(p[9])),
		}
		if idx := int(p[6]); idx < len(txPowerMilliwatts) {
			s.TxPower = txPowerMilliwatts[idx]
		}
		return s, nil
	case FrameTypeBatterySensor:
		if len(p) < batterySize {
			return nil, shortPayload(f, batterySize)
		}
		return Battery{
			VoltageMv:   int(binary.BigEndian.Uint16(p[0:])) * deciUnitsToMil,
			CurrentMa:   int(binary.BigEndian.Uint16(p[2:])) * deciUnitsToMil,
			CapacityMah: int(p[4])<<16 | int(p[5])<<8 | int(p[6]),
			Remaining:   int(p[7]),
		}, nil
	case FrameTypeAttitude:
		if len(p) < attitudeSize {
			return nil, shortPayload(f, attitudeSize)
		}
		return Attitude{
			Pitch: float64(int16(binary.BigEndian.Uint16(p[0:]))) / attitudeScale,
			Roll:  float64(int16(binary.BigEndian.Uint16(p[2:]))) / attitudeScale,
			Yaw:   float64(int16(binary.BigEndian.Uint16(p[4:]))) / attitudeScale,
		}, nil
	case FrameTypeFlightMode:
		mode := p
		if pos := bytes.IndexByte(mode, 0); pos >= 0 {
			mode = mode[:pos]
		}
		return FlightMode{Mode: string(mode)}, nil
	}
	return UnknownFrame{Type: f.Type, Payload: f.Payload}, nil
}

func shortPayload(f *Frame, want int) error {
	return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortPayload, f.Type, want, len(f.Payload))
}
