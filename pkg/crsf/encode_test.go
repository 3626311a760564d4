package crsf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeTelemetryFrames(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		frame  []byte
	}{
		{"link", LinkStats{RSSI1: -80, RSSI2: -90, LQ: 100, SNR: 10, TxPower: 100,
			ActiveAntenna: 0, RFMode: 4, DownlinkRSSI: -75, DownlinkLQ: 98, DownlinkSNR: 8}, linkStatsFrame},
		{"battery", Battery{VoltageMv: 15400, CurrentMa: 1500, CapacityMah: 500, Remaining: 75}, batteryFrame},
		{"flight mode", FlightMode{Mode: "ACRO"}, flightModeFrame},
		{"unknown", UnknownFrame{Type: FrameTypeDeviceInfo, Payload: []byte{1, 2}}, unknownFrame},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := EncodeTelemetry(tc.sample)
			require.NoError(t, err)
			b, err := f.Bytes()
			require.NoError(t, err)
			require.Equal(t, tc.frame, b)
		})
	}
}

func TestEncodeTelemetryRoundTrip(t *testing.T) {
	for _, s := range []Sample{
		Attitude{Pitch: 0.1, Roll: -0.2, Yaw: 3.1416},
		LinkStats{RSSI1: -110, RSSI2: -110, LQ: 30, SNR: -10, TxPower: 25},
		Battery{VoltageMv: 25200, CurrentMa: 0, CapacityMah: 1 << 20, Remaining: 5},
	} {
		f, err := EncodeTelemetry(s)
		require.NoError(t, err)
		got, err := DecodeTelemetry(f)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestEncodeTelemetrySaturates(t *testing.T) {
	f, err := EncodeTelemetry(LinkStats{RSSI1: 20, RSSI2: -300, LQ: 150})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 255, 100}, f.Payload[:3])

	f, err = EncodeTelemetry(Attitude{Pitch: 10})
	require.NoError(t, err)
	s, err := DecodeTelemetry(f)
	require.NoError(t, err)
	require.Equal(t, 3.2767, s.(Attitude).Pitch)

	_, err = EncodeTelemetry(FlightMode{Mode: string(make([]byte, MaxPayloadSize))})
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}
