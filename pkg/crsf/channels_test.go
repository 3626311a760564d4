package crsf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampChannel(t *testing.T) {
	require.Equal(t, ChannelMin, ClampChannel(0))
	require.Equal(t, ChannelMin, ClampChannel(171))
	require.Equal(t, ChannelMin, ClampChannel(ChannelMin))
	require.Equal(t, ChannelCenter, ClampChannel(ChannelCenter))
	require.Equal(t, ChannelMax, ClampChannel(ChannelMax))
	require.Equal(t, ChannelMax, ClampChannel(1812))
	require.Equal(t, ChannelMax, ClampChannel(0xffff))
}

func TestNeutralChannels(t *testing.T) {
	for _, v := range NeutralChannels() {
		require.Equal(t, ChannelCenter, v)
	}
}

func TestPackChannels(t *testing.T) {
	var ch ChannelSet
	for n := range ch {
		ch[n] = uint16(172 + n*97)
	}
	packed := PackChannels(ch)
	require.Equal(t, []byte{
		0xAC, 0x68, 0x88, 0x5B, 0x9E, 0x03, 0xA3, 0x48, 0xC9, 0x6B, 0x6A,
		0xB4, 0xAB, 0xA0, 0x1D, 0xAF, 0x89, 0xD3, 0xCC, 0xEA, 0x77, 0xCB,
	}, packed[:])
}

func TestPackTruncatesTo11Bits(t *testing.T) {
	var ch ChannelSet
	ch[0] = 0xffff
	packed := PackChannels(ch)
	unpacked, err := UnpackChannels(packed[:])
	require.NoError(t, err)
	require.Equal(t, uint16(0x7ff), unpacked[0])
	require.Zero(t, unpacked[1])
}

func TestPackUnpackRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		var ch ChannelSet
		for n := range ch {
			ch[n] = uint16(r.Intn(2048))
		}
		packed := PackChannels(ch)
		unpacked, err := UnpackChannels(packed[:])
		require.NoError(t, err)
		require.Equal(t, ch, unpacked)
	}
}

func TestUnpackShort(t *testing.T) {
	_, err := UnpackChannels(make([]byte, PackedChannelsSize-1))
	require.ErrorIs(t, err, ErrShortPayload)
}
