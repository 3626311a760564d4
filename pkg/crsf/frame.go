package crsf

import (
	"fmt"
	"io"
)

// SyncByte starts every frame.
const SyncByte byte = 0xC8

// Frame size limits.
const (
	// MaxFrameSize is the largest frame including sync and length.
	MaxFrameSize = 64
	// MaxFrameLength is the largest value of the length field.
	MaxFrameLength = MaxFrameSize - 2
	// MinFrameLength covers type and crc.
	MinFrameLength = 2
	// MaxPayloadSize is the largest payload of a plain frame.
	MaxPayloadSize = MaxFrameLength - 2

	// RCFrameSize is the size of an encoded RC_CHANNELS frame.
	RCFrameSize = PackedChannelsSize + 4
)

// FrameType identifies the payload layout.
type FrameType byte

// Frame types.
const (
	FrameTypeGPS            FrameType = 0x02
	FrameTypeBatterySensor  FrameType = 0x08
	FrameTypeLinkStatistics FrameType = 0x14
	FrameTypeRCChannels     FrameType = 0x16
	FrameTypeAttitude       FrameType = 0x1E
	FrameTypeFlightMode     FrameType = 0x21
	FrameTypeDevicePing     FrameType = 0x28
	FrameTypeDeviceInfo     FrameType = 0x29
	FrameTypeMSPCommand     FrameType = 0x7A
)

var frameTypeNames = map[FrameType]string{
	FrameTypeGPS:            "GPS",
	FrameTypeBatterySensor:  "BATTERY_SENSOR",
	FrameTypeLinkStatistics: "LINK_STATISTICS",
	FrameTypeRCChannels:     "RC_CHANNELS",
	FrameTypeAttitude:       "ATTITUDE",
	FrameTypeFlightMode:     "FLIGHT_MODE",
	FrameTypeDevicePing:     "DEVICE_PING",
	FrameTypeDeviceInfo:     "DEVICE_INFO",
	FrameTypeMSPCommand:     "MSP_COMMAND",
}

// String implements fmt.Stringer.
func (t FrameType) String() string {
	if name, ok := frameTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", byte(t))
}

// Frame contains the information of a parsed frame.
type Frame struct {
	Type    FrameType
	Payload []byte
}

// Len returns the value of the length field.
func (f *Frame) Len() int {
	return len(f.Payload) + 2
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() ([]byte, error) {
	if len(f.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes for %s", ErrPayloadTooLarge, len(f.Payload), f.Type)
	}
	b := make([]byte, len(f.Payload)+4)
	b[0], b[1], b[2] = SyncByte, byte(f.Len()), byte(f.Type)
	copy(b[3:], f.Payload)
	b[len(b)-1] = Checksum(b[2 : len(b)-1])
	return b, nil
}

// WriteTo writes encoded bytes in a single Write call.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	b, err := f.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// EncodeRCFrame encodes the channels into an RC_CHANNELS frame.
// Channels are clamped before packing.
func EncodeRCFrame(ch ChannelSet) (f [RCFrameSize]byte) {
	f[0], f[1], f[2] = SyncByte, RCFrameSize-2, byte(FrameTypeRCChannels)
	packed := PackChannels(ch.Clamp())
	copy(f[3:], packed[:])
	f[RCFrameSize-1] = Checksum(f[2 : RCFrameSize-1])
	return
}
