package main

import (
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/crsflink/pkg/crsf"
	"github.com/robotalks/crsflink/pkg/telemetry/mqtt"
)

func TestFormatRecord(t *testing.T) {
	color.NoColor = true
	at := time.Date(2024, 1, 2, 3, 4, 5, 600e6, time.Local)
	tests := []struct {
		sample crsf.Sample
		want   string
	}{
		{crsf.LinkStats{RSSI1: -80, RSSI2: -90, LQ: 100, SNR: 10, TxPower: 100},
			"03:04:05.600 link        rssi=-80/-90 dBm lq=100% snr=10 dB power=100 mW ok=true"},
		{crsf.Battery{VoltageMv: 15400, CurrentMa: 1500, CapacityMah: 500, Remaining: 75},
			"03:04:05.600 battery     15.40 V 1.50 A 500 mAh 75%"},
		{crsf.FlightMode{Mode: "ACRO"},
			"03:04:05.600 flight-mode ACRO"},
		{crsf.UnknownFrame{Type: crsf.FrameTypeDeviceInfo, Payload: []byte{1, 2}},
			"03:04:05.600 unknown     DEVICE_INFO 01 02"},
	}
	for _, tc := range tests {
		rec, err := mqtt.NewRecord(tc.sample, at)
		require.NoError(t, err)
		payload, err := rec.Encode()
		require.NoError(t, err)
		require.Equal(t, tc.want, formatRecord("telemetry/x", payload))
	}
	require.Contains(t, formatRecord("telemetry/x", []byte{0x0a, 0x05}), "bad record")
}

func TestFormatStatus(t *testing.T) {
	color.NoColor = true
	at := time.Date(2024, 1, 2, 3, 4, 5, 600e6, time.Local)
	payload, err := proto.Marshal(&mqtt.Status{
		TimeNano:     at.UnixNano(),
		Armed:        true,
		LinkOk:       true,
		Transmitting: true,
		TxFrames:     250,
		TxFailed:     1,
		Receiving:    true,
		RxFrames:     20,
	})
	require.NoError(t, err)
	require.Equal(t,
		"03:04:05.600 status      armed=true link=true override=false tx=true/250/1 rx=true/20/0",
		formatStatus("status", payload))
	require.Contains(t, formatStatus("status", []byte{0x0a, 0x05}), "bad status")
}
