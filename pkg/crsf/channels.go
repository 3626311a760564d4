package crsf

import "fmt"

// Channel value range. The values map to roughly 988us..2012us.
const (
	ChannelMin    uint16 = 172
	ChannelMax    uint16 = 1811
	ChannelCenter uint16 = 992

	// NumChannels is the number of channels in every RC frame.
	NumChannels = 16
	// channelBits is the width of a packed channel.
	channelBits = 11
	channelMask = 1<<channelBits - 1

	// PackedChannelsSize is the payload size of an RC_CHANNELS frame.
	PackedChannelsSize = NumChannels * channelBits / 8
)

// ChannelSet is one value per logical channel.
type ChannelSet [NumChannels]uint16

// NeutralChannels returns a ChannelSet with all channels centered.
func NeutralChannels() (ch ChannelSet) {
	for n := range ch {
		ch[n] = ChannelCenter
	}
	return
}

// ClampChannel limits v to [ChannelMin, ChannelMax].
func ClampChannel(v uint16) uint16 {
	if v < ChannelMin {
		return ChannelMin
	}
	if v > ChannelMax {
		return ChannelMax
	}
	return v
}

// Clamp returns a copy with every channel clamped into range.
func (ch ChannelSet) Clamp() ChannelSet {
	for n, v := range ch {
		ch[n] = ClampChannel(v)
	}
	return ch
}

// PackChannels packs the low 11 bits of every channel LSB first.
// It doesn't clamp, callers must Clamp first.
func PackChannels(ch ChannelSet) (out [PackedChannelsSize]byte) {
	var acc uint32
	var bits uint
	idx := 0
	for _, v := range ch {
		acc |= uint32(v&channelMask) << bits
		bits += channelBits
		for bits >= 8 {
			out[idx] = byte(acc)
			idx++
			acc >>= 8
			bits -= 8
		}
	}
	return
}

// UnpackChannels is the inverse of PackChannels.
func UnpackChannels(p []byte) (ch ChannelSet, err error) {
	if len(p) < PackedChannelsSize {
		return ch, fmt.Errorf("%w: channels need %d bytes, got %d", ErrShortPayload, PackedChannelsSize, len(p))
	}
	var acc uint32
	var bits uint
	idx := 0
	for n := range ch {
		for bits < channelBits {
			acc |= uint32(p[idx]) << bits
			idx++
			bits += 8
		}
		ch[n] = uint16(acc & channelMask)
		acc >>= channelBits
		bits -= channelBits
	}
	return ch, nil
}
