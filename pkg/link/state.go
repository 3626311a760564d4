package link

import (
	"math"
	"sync"
	"sync/atomic"
)

type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// ControlState is the state shared by the loops and the caller.
// Every field is read and written atomically on its own; there is no
// transaction across fields, except that a Snapshot never observes an
// EmergencyStop half applied.
type ControlState struct {
	stop sync.RWMutex

	roll     atomicFloat
	pitch    atomicFloat
	yaw      atomicFloat
	throttle atomicFloat

	armed    atomic.Bool
	linkOK   atomic.Bool
	override atomic.Bool
}

// Axes are the continuous stick inputs.
// Roll, Pitch and Yaw are nominally in [-1, 1], Throttle in [0, 1].
type Axes struct {
	Roll     float64
	Pitch    float64
	Yaw      float64
	Throttle float64
}

// Snapshot is a copy of ControlState taken field by field.
type Snapshot struct {
	Axes
	Armed          bool
	LinkOK         bool
	SafetyOverride bool
}

// NewControlState creates a disarmed state with all axes zero.
func NewControlState() *ControlState {
	return &ControlState{}
}

// SetAxes stores the axes, values are not clamped here.
func (s *ControlState) SetAxes(axes Axes) {
	s.roll.Store(axes.Roll)
	s.pitch.Store(axes.Pitch)
	s.yaw.Store(axes.Yaw)
	s.throttle.Store(axes.Throttle)
}

// Axes loads the axes.
func (s *ControlState) Axes() Axes {
	return Axes{
		Roll:     s.roll.Load(),
		Pitch:    s.pitch.Load(),
		Yaw:      s.yaw.Load(),
		Throttle: s.throttle.Load(),
	}
}

// SetArmed sets armed.
func (s *ControlState) SetArmed(armed bool) { s.armed.Store(armed) }

// Armed gets armed.
func (s *ControlState) Armed() bool { return s.armed.Load() }

// SetLinkOK is only called by the receiver.
func (s *ControlState) SetLinkOK(ok bool) { s.linkOK.Store(ok) }

// LinkOK gets link ok.
func (s *ControlState) LinkOK() bool { return s.linkOK.Load() }

// SetSafetyOverride sets the operator override.
func (s *ControlState) SetSafetyOverride(enabled bool) { s.override.Store(enabled) }

// SafetyOverride gets the operator override.
func (s *ControlState) SafetyOverride() bool { return s.override.Load() }

// EmergencyStop disarms and zeroes all axes as one step for Snapshot readers.
func (s *ControlState) EmergencyStop() {
	s.stop.Lock()
	defer s.stop.Unlock()
	s.armed.Store(false)
	s.SetAxes(Axes{})
}

// Snapshot reads every field once.
func (s *ControlState) Snapshot() Snapshot {
	s.stop.RLock()
	defer s.stop.RUnlock()
	return Snapshot{
		Axes:           s.Axes(),
		Armed:          s.Armed(),
		LinkOK:         s.LinkOK(),
		SafetyOverride: s.SafetyOverride(),
	}
}
