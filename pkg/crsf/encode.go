package crsf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeTelemetry builds the frame a device sends for a Sample,
// the inverse of DecodeTelemetry. Out of range values are saturated.
func EncodeTelemetry(s Sample) (*Frame, error) {
	switch v := s.(type) {
	case LinkStats:
		p := make([]byte, linkStatsSize)
		p[0], p[1] = dbm(v.RSSI1), dbm(v.RSSI2)
		p[2] = saturate(v.LQ, 0, 100)
		p[3] = byte(int8(saturate(v.SNR, math.MinInt8, math.MaxInt8)))
		p[4], p[5] = byte(v.ActiveAntenna), byte(v.RFMode)
		p[6] = txPowerIndex(v.TxPower)
		p[7], p[8] = dbm(v.DownlinkRSSI), saturate(v.DownlinkLQ, 0, 100)
		p[9] = byte(int8(saturate(v.DownlinkSNR, math.MinInt8, math.MaxInt8)))
		return &Frame{Type: FrameTypeLinkStatistics, Payload: p}, nil
	case Battery:
		p := make([]byte, batterySize)
		binary.BigEndian.PutUint16(p[0:], uint16(clampInt(v.VoltageMv/deciUnitsToMil, 0, math.MaxUint16)))
		binary.BigEndian.PutUint16(p[2:], uint16(clampInt(v.CurrentMa/deciUnitsToMil, 0, math.MaxUint16)))
		c := clampInt(v.CapacityMah, 0, 1<<24-1)
		p[4], p[5], p[6] = byte(c>>16), byte(c>>8), byte(c)
		p[7] = saturate(v.Remaining, 0, 100)
		return &Frame{Type: FrameTypeBatterySensor, Payload: p}, nil
	case Attitude:
		p := make([]byte, attitudeSize)
		binary.BigEndian.PutUint16(p[0:], uint16(radians(v.Pitch)))
		binary.BigEndian.PutUint16(p[2:], uint16(radians(v.Roll)))
		binary.BigEndian.PutUint16(p[4:], uint16(radians(v.Yaw)))
		return &Frame{Type: FrameTypeAttitude, Payload: p}, nil
	case FlightMode:
		if len(v.Mode)+1 > MaxPayloadSize {
			return nil, fmt.Errorf("%w: flight mode of %d bytes", ErrPayloadTooLarge, len(v.Mode))
		}
		p := make([]byte, len(v.Mode)+1)
		copy(p, v.Mode)
		return &Frame{Type: FrameTypeFlightMode, Payload: p}, nil
	case UnknownFrame:
		return &Frame{Type: v.Type, Payload: v.Payload}, nil
	}
	return nil, fmt.Errorf("unsupported sample %s", s.Kind())
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func saturate(v, min, max int) byte {
	return byte(clampInt(v, min, max))
}

// dbm stores a non-positive dBm as its magnitude.
func dbm(v int) byte {
	return saturate(-v, 0, math.MaxUint8)
}

func radians(v float64) int16 {
	return int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v*attitudeScale))))
}

func txPowerIndex(mw int) byte {
	for n, v := range txPowerMilliwatts {
		if v == mw {
			return byte(n)
		}
	}
	return 0
}
