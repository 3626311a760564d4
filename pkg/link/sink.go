package link

import (
	"github.com/golang/glog"

	"github.com/robotalks/crsflink/pkg/crsf"
)

// Sink receives decoded telemetry. Notify is called from the receiver loop
// and must not block; delivery is best effort.
type Sink interface {
	Notify(crsf.Sample)
}

// SinkFunc is func form of Sink.
type SinkFunc func(crsf.Sample)

// Notify implements Sink.
func (f SinkFunc) Notify(s crsf.Sample) {
	f(s)
}

// MultiSink fans out to all sinks in order.
type MultiSink []Sink

// Notify implements Sink.
func (m MultiSink) Notify(s crsf.Sample) {
	for _, sink := range m {
		if sink != nil {
			sink.Notify(s)
		}
	}
}

// LogSink logs every sample at verbosity Level.
type LogSink struct {
	Level glog.Level
}

// Notify implements Sink.
func (l LogSink) Notify(s crsf.Sample) {
	if glog.V(l.Level) {
		glog.Infof("telemetry %s %v", s.Kind(), s)
	}
}

type nopSink struct{}

func (nopSink) Notify(crsf.Sample) {}
