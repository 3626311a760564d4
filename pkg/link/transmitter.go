package link

import (
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/crsflink/pkg/crsf"
	fx "github.com/robotalks/crsflink/pkg/framework"
)

// Transmitter sends one RC_CHANNELS frame per tick.
type Transmitter struct {
	State *ControlState
	Port  *Port

	frames   atomic.Uint64
	failures atomic.Uint64
}

// NewTransmitter creates a Transmitter.
func NewTransmitter(state *ControlState, port *Port) *Transmitter {
	return &Transmitter{State: state, Port: port}
}

// Frame builds the frame for the current state.
func (t *Transmitter) Frame() [crsf.RCFrameSize]byte {
	return crsf.EncodeRCFrame(MapChannels(t.State.Snapshot()))
}

// Control implements Controller.
// A failed write is counted and dropped, the next tick supersedes it.
func (t *Transmitter) Control(cc fx.ControlContext) error {
	frame := t.Frame()
	if err := t.Port.WriteFrame(frame[:]); err != nil {
		if t.failures.Add(1) == 1 || glog.V(3) {
			glog.Warningf("RC frame %d: %v", cc.Iteration(), err)
		}
		return nil
	}
	t.frames.Add(1)
	return nil
}

// Frames is the number of frames sent.
func (t *Transmitter) Frames() uint64 { return t.frames.Load() }

// Failures is the number of frames failed to send.
func (t *Transmitter) Failures() uint64 { return t.failures.Load() }
