package link

import (
	"math"

	"github.com/robotalks/crsflink/pkg/crsf"
)

// Channel assignments.
const (
	ChannelRoll     = 0
	ChannelPitch    = 1
	ChannelThrottle = 2
	ChannelYaw      = 3
	ChannelArm      = 4
)

// Pulse widths in microseconds the axes are expressed in before scaling.
const (
	pulseMin    = 1000.0
	pulseCenter = 1500.0
	pulseSpan   = 1000.0
)

// GateThrottle returns requested only if armed and either the link is ok
// or the operator overrides it, otherwise 0.
func GateThrottle(requested float64, armed, linkOK, override bool) float64 {
	if armed && (linkOK || override) {
		return requested
	}
	return 0
}

// PulseToChannel scales a 1000..2000us pulse to the channel range.
// NaN maps to the minimum.
func PulseToChannel(us float64) uint16 {
	if math.IsNaN(us) {
		return crsf.ChannelMin
	}
	span := float64(crsf.ChannelMax - crsf.ChannelMin)
	v := float64(crsf.ChannelMin) + (us-pulseMin)*span/pulseSpan
	v = math.Max(float64(crsf.ChannelMin), math.Min(float64(crsf.ChannelMax), v))
	return uint16(math.Round(v))
}

// AxisToChannel maps an axis in [-1, 1]. NaN maps to center.
func AxisToChannel(axis float64) uint16 {
	if math.IsNaN(axis) {
		return crsf.ChannelCenter
	}
	return PulseToChannel(pulseCenter + axis*pulseSpan/2)
}

// ThrottleToChannel maps a throttle in [0, 1].
func ThrottleToChannel(throttle float64) uint16 {
	return PulseToChannel(pulseMin + throttle*pulseSpan)
}

// MapChannels builds all channels from a snapshot.
// Throttle is gated every call, nothing is cached.
func MapChannels(s Snapshot) crsf.ChannelSet {
	ch := crsf.NeutralChannels()
	ch[ChannelRoll] = AxisToChannel(s.Roll)
	ch[ChannelPitch] = AxisToChannel(s.Pitch)
	ch[ChannelYaw] = AxisToChannel(s.Yaw)
	ch[ChannelThrottle] = ThrottleToChannel(GateThrottle(s.Throttle, s.Armed, s.LinkOK, s.SafetyOverride))
	if s.Armed {
		ch[ChannelArm] = crsf.ChannelMax
	} else {
		ch[ChannelArm] = crsf.ChannelMin
	}
	return ch
}
