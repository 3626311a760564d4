package link

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/crsflink/pkg/crsf"
	fx "github.com/robotalks/crsflink/pkg/framework"
)

// Engine owns the shared state, the port and both periodic tasks.
type Engine struct {
	IDs       crsf.DeviceIDs
	Addresses crsf.Addresses

	State       *ControlState
	Port        *Port
	Transmitter *Transmitter
	Receiver    *Receiver

	txLoop *fx.Loop
	rxLoop *fx.Loop
}

// Stats are counters of an Engine.
type Stats struct {
	Port     PortStats
	TxFrames uint64
	TxFailed uint64
	Receiver ReceiverStats
}

// NewEngine creates an engine using the default config.
func NewEngine(t Transport, sink Sink) *Engine {
	return Default().NewEngine(t, sink)
}

func newEngine(t Transport, sink Sink, txInterval, rxInterval time.Duration) *Engine {
	e := &Engine{
		IDs:       crsf.DefaultDeviceIDs,
		Addresses: crsf.DefaultAddresses,
		State:     NewControlState(),
		Port:      NewPort(t),
	}
	e.Transmitter = NewTransmitter(e.State, e.Port)
	e.Receiver = NewReceiver(e.State, e.Port, sink)
	e.txLoop = fx.NewLoop("tx", txInterval, e.Transmitter)
	e.rxLoop = fx.NewLoop("rx", rxInterval, e.Receiver)
	return e
}

func (e *Engine) pollFrame() []byte {
	frame, err := crsf.PollLinkStats(e.IDs).Encode(e.Addresses)
	if err != nil {
		glog.Errorf("link stats poll disabled: %v", err)
		return nil
	}
	return frame
}

// SetAxes sets roll, pitch, yaw in [-1, 1] and throttle in [0, 1].
func (e *Engine) SetAxes(roll, pitch, yaw, throttle float64) {
	e.State.SetAxes(Axes{Roll: roll, Pitch: pitch, Yaw: yaw, Throttle: throttle})
}

// SetArmed sets armed state.
func (e *Engine) SetArmed(armed bool) {
	e.State.SetArmed(armed)
	glog.Infof("armed=%v", armed)
}

// IsArmed indicates armed state.
func (e *Engine) IsArmed() bool { return e.State.Armed() }

// IsLinkOK indicates whether the last link statistics were acceptable.
func (e *Engine) IsLinkOK() bool { return e.State.LinkOK() }

// SetSafetyOverride allows throttle while the link is down.
func (e *Engine) SetSafetyOverride(enabled bool) {
	e.State.SetSafetyOverride(enabled)
	glog.Warningf("safety override=%v", enabled)
}

// EmergencyStop disarms and zeroes all axes.
func (e *Engine) EmergencyStop() {
	e.State.EmergencyStop()
	glog.Warning("emergency stop")
}

// StartTransmit starts the transmit task.
func (e *Engine) StartTransmit() error { return e.txLoop.Start() }

// StopTransmit requests the transmit task to stop.
func (e *Engine) StopTransmit() { e.txLoop.Stop() }

// Transmitting indicates the transmit task is running.
func (e *Engine) Transmitting() bool { return e.txLoop.Running() }

// StartReceive starts the receive task.
func (e *Engine) StartReceive() error { return e.rxLoop.Start() }

// StopReceive requests the receive task to stop.
func (e *Engine) StopReceive() { e.rxLoop.Stop() }

// Receiving indicates the receive task is running.
func (e *Engine) Receiving() bool { return e.rxLoop.Running() }

// Start starts both tasks.
func (e *Engine) Start() error {
	errs := &fx.AggregatedError{}
	return errs.Add(e.StartTransmit(), e.StartReceive()).Aggregate()
}

// Stop requests both tasks to stop.
func (e *Engine) Stop() {
	e.StopTransmit()
	e.StopReceive()
}

// Wait waits for both tasks to exit.
func (e *Engine) Wait() {
	e.txLoop.Wait()
	e.rxLoop.Wait()
}

// Close stops both tasks and waits for them.
func (e *Engine) Close() error {
	e.Stop()
	e.Wait()
	return nil
}

// Send encodes and writes a command frame.
func (e *Engine) Send(cmd crsf.Command) error {
	frame, err := cmd.Encode(e.Addresses)
	if err != nil {
		return err
	}
	if err = e.Port.WriteFrame(frame); err != nil {
		return err
	}
	glog.V(1).Infof("sent %s", cmd.Name)
	return nil
}

// Do sends the command by name.
func (e *Engine) Do(name string) error {
	cmd, err := crsf.LookupCommand(name, e.IDs)
	if err != nil {
		return err
	}
	return e.Send(cmd)
}

// Bind requests pairing.
func (e *Engine) Bind() error { return e.Send(crsf.Bind(e.IDs)) }

// DiscoverDevices enumerates devices on the link.
func (e *Engine) DiscoverDevices() error { return e.Send(crsf.DiscoverDevices(e.IDs)) }

// PollLinkStats requests link statistics now.
func (e *Engine) PollLinkStats() error { return e.Send(crsf.PollLinkStats(e.IDs)) }

// PowerUp raises TX power.
func (e *Engine) PowerUp() error { return e.Send(crsf.PowerUp()) }

// PowerDown lowers TX power.
func (e *Engine) PowerDown() error { return e.Send(crsf.PowerDown()) }

// NextModel selects the next model.
func (e *Engine) NextModel() error { return e.Send(crsf.NextModel()) }

// Reboot reboots the transmitter.
func (e *Engine) Reboot() error { return e.Send(crsf.Reboot()) }

// Stats gets the counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Port:     e.Port.Stats(),
		TxFrames: e.Transmitter.Frames(),
		TxFailed: e.Transmitter.Failures(),
		Receiver: e.Receiver.Stats(),
	}
}
