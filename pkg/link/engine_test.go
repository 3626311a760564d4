package link

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/crsflink/pkg/crsf"
	fx "github.com/robotalks/crsflink/pkg/framework"
)

var disarmedFrame = hexFrame(
	0xC8, 0x18, 0x16, 0xE0, 0x03, 0x1F, 0x2B, 0xC0, 0xC7, 0x0A, 0xF0, 0x81, 0x0F,
	0x7C, 0xE0, 0x03, 0x1F, 0xF8, 0xC0, 0x07, 0x3E, 0xF0, 0x81, 0x0F, 0x7C, 0x45)

func newTestEngine() (*Engine, *fakeTransport, *recordSink) {
	ft, sink := &fakeTransport{}, &recordSink{}
	conf := NewConfig()
	conf.TxInterval = time.Millisecond
	conf.RxInterval = time.Millisecond
	return conf.NewEngine(ft, sink), ft, sink
}

func TestEngineEmergencyStopFrame(t *testing.T) {
	e, ft, _ := newTestEngine()
	e.SetAxes(0.3, -0.7, 0.9, 1)
	e.SetArmed(true)
	e.SetSafetyOverride(true)
	e.EmergencyStop()
	require.False(t, e.IsArmed())
	require.NoError(t, e.Transmitter.Control(tick{}))
	require.Equal(t, disarmedFrame, ft.lastWrite())
}

func TestEngineCommands(t *testing.T) {
	e, ft, _ := newTestEngine()
	cmds := []struct {
		name string
		fn   func() error
	}{
		{crsf.CmdBind, e.Bind},
		{crsf.CmdDiscover, e.DiscoverDevices},
		{crsf.CmdPollLinkStats, e.PollLinkStats},
		{crsf.CmdPowerUp, e.PowerUp},
		{crsf.CmdPowerDown, e.PowerDown},
		{crsf.CmdNextModel, e.NextModel},
		{crsf.CmdReboot, e.Reboot},
	}
	for _, c := range cmds {
		t.Run(c.name, func(t *testing.T) {
			cmd, err := crsf.LookupCommand(c.name, e.IDs)
			require.NoError(t, err)
			want, err := cmd.Encode(e.Addresses)
			require.NoError(t, err)

			require.NoError(t, c.fn())
			require.Equal(t, want, ft.lastWrite())
			require.NoError(t, e.Do(c.name))
			require.Equal(t, want, ft.lastWrite())
		})
	}
	require.Equal(t, rebootFrame, ft.lastWrite())
}

func TestEngineCommandFailures(t *testing.T) {
	e, _, _ := newTestEngine()
	require.ErrorIs(t, e.Do("self-destruct"), crsf.ErrUnknownCommand)
	require.ErrorIs(t,
		e.Send(crsf.Command{Name: "big", Function: crsf.FunctionPower, Payload: make([]byte, 58)}),
		crsf.ErrPayloadTooLarge)
	require.Zero(t, e.Port.Stats().FramesWritten)

	e.Port.Transport = &fakeTransport{writeN: func([]byte) (int, error) { return 0, errBroken }}
	require.ErrorIs(t, e.Reboot(), ErrWriteFailed)
}

func TestEngineAddresses(t *testing.T) {
	e, ft, _ := newTestEngine()
	e.Addresses = crsf.Addresses{Destination: crsf.AddressBroadcast, Origin: crsf.AddressRadio}
	require.NoError(t, e.Reboot())
	require.Equal(t, []byte{crsf.AddressBroadcast, crsf.AddressRadio}, ft.lastWrite()[3:5])
}

func TestEngineStartStop(t *testing.T) {
	e, ft, sink := newTestEngine()
	ft.queue(linkStatsFrame)
	require.NoError(t, e.Start())
	require.True(t, e.Transmitting())
	require.True(t, e.Receiving())
	require.ErrorIs(t, e.StartTransmit(), fx.ErrAlreadyRunning)
	require.ErrorIs(t, e.Start(), fx.ErrAlreadyRunning)

	require.Eventually(t, func() bool {
		return e.IsLinkOK() && e.Stats().TxFrames > 2
	}, time.Second, time.Millisecond)
	require.NoError(t, e.Close())
	require.False(t, e.Transmitting())
	require.False(t, e.Receiving())
	require.Zero(t, ft.overlaps.Load())
	require.NotEmpty(t, sink.all())

	stats := e.Stats()
	require.GreaterOrEqual(t, stats.Receiver.Polls, uint64(1))
	require.Equal(t, stats.TxFrames+stats.Receiver.Polls, stats.Port.FramesWritten)

	var polls int
	for _, w := range ft.written() {
		if w[2] == byte(crsf.FrameTypeMSPCommand) {
			require.Equal(t, pollFrame, w)
			polls++
		}
	}
	require.Equal(t, int(stats.Receiver.Polls), polls)
}

func TestEngineThrottleFollowsLink(t *testing.T) {
	e, _, _ := newTestEngine()
	e.SetAxes(0, 0, 0, 0.8)
	e.SetArmed(true)
	ch := MapChannels(e.State.Snapshot())
	require.Equal(t, uint16(crsf.ChannelMin), ch[ChannelThrottle])

	e.Receiver.Feed(linkStatsFrame)
	require.True(t, e.IsLinkOK())
	ch = MapChannels(e.State.Snapshot())
	require.Equal(t, uint16(1483), ch[ChannelThrottle])
}
