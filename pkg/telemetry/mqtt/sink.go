package mqtt

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/crsflink/pkg/crsf"
	fx "github.com/robotalks/crsflink/pkg/framework"
	"github.com/robotalks/crsflink/pkg/link"
)

// Publisher publishes without waiting, *Client implements it.
type Publisher interface {
	Publish(topic string, payload []byte) paho.Token
}

// Sink publishes telemetry samples as Records.
type Sink struct {
	Publisher Publisher
	// Kinds filters the samples published, empty for all.
	Kinds map[crsf.SampleKind]bool
	Now   func() time.Time
}

// NewSink creates a Sink.
func NewSink(p Publisher) *Sink {
	return &Sink{Publisher: p, Now: time.Now}
}

// Notify implements link.Sink.
func (s *Sink) Notify(sample crsf.Sample) {
	if len(s.Kinds) > 0 && !s.Kinds[sample.Kind()] {
		return
	}
	rec, err := NewRecord(sample, s.Now())
	if err != nil {
		glog.Errorf("encode %s: %v", sample.Kind(), err)
		return
	}
	payload, err := rec.Encode()
	if err != nil {
		glog.Errorf("encode %s: %v", sample.Kind(), err)
		return
	}
	s.Publisher.Publish(TopicOf(sample.Kind()), payload)
}

// StatusReporter publishes engine status on every tick, run it in a Loop.
type StatusReporter struct {
	Engine    *link.Engine
	Publisher Publisher
}

// Status takes the current status.
func (r *StatusReporter) Status(at time.Time) *Status {
	e := r.Engine
	stats := e.Stats()
	return &Status{
		TimeNano:     at.UnixNano(),
		Armed:        e.IsArmed(),
		LinkOk:       e.IsLinkOK(),
		Override:     e.State.SafetyOverride(),
		Transmitting: e.Transmitting(),
		Receiving:    e.Receiving(),
		TxFrames:     stats.TxFrames,
		TxFailed:     stats.TxFailed,
		RxFrames:     stats.Receiver.Frames,
		RxDropped:    stats.Receiver.Dropped,
	}
}

// Control implements framework.Controller.
func (r *StatusReporter) Control(cc fx.ControlContext) error {
	payload, err := proto.Marshal(r.Status(cc.Time()))
	if err != nil {
		return err
	}
	r.Publisher.Publish(StatusTopic, payload)
	return nil
}
