package link

import (
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/crsflink/pkg/crsf"
	fx "github.com/robotalks/crsflink/pkg/framework"
)

// Receiver reads telemetry once per tick and polls link statistics.
type Receiver struct {
	State        *ControlState
	Port         *Port
	Sink         Sink
	PollInterval time.Duration
	// PollFrame is the encoded link statistics poll, nil disables polling.
	PollFrame []byte

	parser   crsf.Parser
	buf      [crsf.MaxFrameSize]byte
	lastPoll time.Time

	frames  atomic.Uint64
	dropped atomic.Uint64
	unknown atomic.Uint64
	polls   atomic.Uint64
}

// ReceiverStats are counters of a Receiver.
type ReceiverStats struct {
	Frames  uint64
	Dropped uint64
	Unknown uint64
	Polls   uint64
}

// NewReceiver creates a Receiver.
func NewReceiver(state *ControlState, port *Port, sink Sink) *Receiver {
	if sink == nil {
		sink = nopSink{}
	}
	return &Receiver{
		State:        state,
		Port:         port,
		Sink:         sink,
		PollInterval: defaultConfig.PollInterval,
	}
}

// Control implements Controller.
func (r *Receiver) Control(cc fx.ControlContext) error {
	if cc.Iteration() == 0 {
		r.parser.Reset()
		r.lastPoll = time.Time{}
	}
	r.poll(cc.Time())
	n, err := r.Port.Read(r.buf[:])
	if err != nil {
		glog.V(3).Infof("telemetry read: %v", err)
		return nil
	}
	r.Feed(r.buf[:n])
	return nil
}

// Feed parses raw bytes and dispatches complete frames.
func (r *Receiver) Feed(data []byte) {
	if dropped := r.parser.Feed(data, r.dispatch); dropped > 0 {
		r.dropped.Add(uint64(dropped))
		glog.V(3).Infof("dropped %d partial frames", dropped)
	}
}

func (r *Receiver) poll(now time.Time) {
	if r.PollFrame == nil || r.PollInterval <= 0 {
		return
	}
	if !r.lastPoll.IsZero() && now.Sub(r.lastPoll) < r.PollInterval {
		return
	}
	r.lastPoll = now
	if err := r.Port.WriteFrame(r.PollFrame); err != nil {
		glog.V(2).Infof("link stats poll: %v", err)
		return
	}
	r.polls.Add(1)
}

func (r *Receiver) dispatch(f *crsf.Frame) {
	r.frames.Add(1)
	sample, err := crsf.DecodeTelemetry(f)
	if err != nil {
		glog.V(3).Infof("undecodable %s frame: %v", f.Type, err)
		sample = crsf.UnknownFrame{Type: f.Type, Payload: f.Payload}
	}
	switch s := sample.(type) {
	case crsf.LinkStats:
		r.State.SetLinkOK(s.LinkOK())
	case crsf.UnknownFrame:
		r.unknown.Add(1)
	}
	r.Sink.Notify(sample)
}

// Stats gets the counters.
func (r *Receiver) Stats() ReceiverStats {
	return ReceiverStats{
		Frames:  r.frames.Load(),
		Dropped: r.dropped.Load(),
		Unknown: r.unknown.Load(),
		Polls:   r.polls.Load(),
	}
}
