package crsf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, data []byte) *Frame {
	var parser Parser
	var frame *Frame
	parser.Feed(data, func(f *Frame) { frame = f })
	require.NotNil(t, frame)
	return frame
}

func TestDecodeLinkStats(t *testing.T) {
	s, err := DecodeTelemetry(mustParse(t, linkStatsFrame))
	require.NoError(t, err)
	require.Equal(t, SampleLinkStats, s.Kind())
	require.Equal(t, LinkStats{
		RSSI1:         -80,
		RSSI2:         -90,
		LQ:            100,
		SNR:           10,
		TxPower:       100,
		ActiveAntenna: 0,
		RFMode:        4,
		DownlinkRSSI:  -75,
		DownlinkLQ:    98,
		DownlinkSNR:   8,
	}, s)
	require.True(t, s.(LinkStats).LinkOK())
	require.Equal(t, [5]float64{-80, -90, 100, 10, 100}, s.Values())

	s, err = DecodeTelemetry(mustParse(t, linkStatsBadFrame))
	require.NoError(t, err)
	ls := s.(LinkStats)
	require.Equal(t, -110, ls.RSSI1)
	require.Equal(t, 30, ls.LQ)
	require.Equal(t, -10, ls.SNR)
	require.Equal(t, -16, ls.DownlinkSNR)
	require.False(t, ls.LinkOK())
}

func TestLinkOK(t *testing.T) {
	testCases := []struct {
		name   string
		stats  LinkStats
		expect bool
	}{
		{"good", LinkStats{RSSI1: -60, RSSI2: -60, LQ: 100}, true},
		{"lq at threshold", LinkStats{RSSI1: -60, RSSI2: -60, LQ: 50}, false},
		{"lq above threshold", LinkStats{RSSI1: -60, RSSI2: -60, LQ: 51}, true},
		{"one antenna ok", LinkStats{RSSI1: -120, RSSI2: -99, LQ: 80}, true},
		{"both antennas weak", LinkStats{RSSI1: -100, RSSI2: -100, LQ: 80}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.stats.LinkOK())
		})
	}
}

func TestDecodeBattery(t *testing.T) {
	s, err := DecodeTelemetry(mustParse(t, batteryFrame))
	require.NoError(t, err)
	require.Equal(t, Battery{VoltageMv: 15400, CurrentMa: 1500, CapacityMah: 500, Remaining: 75}, s)
	require.Equal(t, [5]float64{15400, 1500, 500, 75, 0}, s.Values())
}

func TestDecodeAttitude(t *testing.T) {
	s, err := DecodeTelemetry(mustParse(t, attitudeFrame))
	require.NoError(t, err)
	att := s.(Attitude)
	require.InDelta(t, 0.1, att.Pitch, 1e-9)
	require.InDelta(t, -0.2, att.Roll, 1e-9)
	require.InDelta(t, 3.1416, att.Yaw, 1e-9)
}

func TestDecodeFlightMode(t *testing.T) {
	s, err := DecodeTelemetry(mustParse(t, flightModeFrame))
	require.NoError(t, err)
	require.Equal(t, FlightMode{Mode: "ACRO"}, s)

	s, err = DecodeTelemetry(&Frame{Type: FrameTypeFlightMode, Payload: []byte("ANGL")})
	require.NoError(t, err)
	require.Equal(t, FlightMode{Mode: "ANGL"}, s)
}

func TestDecodeUnknown(t *testing.T) {
	s, err := DecodeTelemetry(mustParse(t, unknownFrame))
	require.NoError(t, err)
	require.Equal(t, UnknownFrame{Type: FrameTypeDeviceInfo, Payload: []byte{0x01, 0x02}}, s)
	require.Equal(t, SampleUnknown, s.Kind())
	require.Equal(t, [5]float64{0x29, 2, 0, 0, 0}, s.Values())
}

func TestDecodeShortPayload(t *testing.T) {
	for _, typ := range []FrameType{FrameTypeLinkStatistics, FrameTypeBatterySensor, FrameTypeAttitude} {
		t.Run(typ.String(), func(t *testing.T) {
			_, err := DecodeTelemetry(&Frame{Type: typ, Payload: []byte{1, 2}})
			require.ErrorIs(t, err, ErrShortPayload)
		})
	}
}

func TestSampleKindString(t *testing.T) {
	require.Equal(t, "link", SampleLinkStats.String())
	require.Equal(t, "unknown", SampleUnknown.String())
	require.Equal(t, "kind(42)", SampleKind(42).String())
}
