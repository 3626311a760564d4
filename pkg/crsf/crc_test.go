package crsf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func checksumBitwise(p []byte) byte {
	var crc byte
	for _, b := range p {
		crc ^= b
		for n := 0; n < 8; n++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func TestChecksum(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		expect byte
	}{
		{"empty", nil, 0},
		{"check string", []byte("123456789"), 0xBC},
		{"rc channels centered", rcCenteredFrame[2:25], rcCenteredFrame[25]},
		{"link statistics", linkStatsFrame[2:13], linkStatsFrame[13]},
		{"reboot command", []byte{0x7A, 0xC8, 0xEE, 0x68, 0x00}, 0xB5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Checksum(tc.in))
		})
	}
}

func TestChecksumMatchesBitwise(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	buf := make([]byte, 64)
	for i := 0; i < 100; i++ {
		r.Read(buf)
		n := r.Intn(len(buf))
		require.Equal(t, checksumBitwise(buf[:n]), Checksum(buf[:n]))
	}
}
