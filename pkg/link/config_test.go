package link

import (
	"flag"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/crsflink/pkg/crsf"
)

func TestConfigDefaults(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, 4*time.Millisecond, conf.TxInterval)
	require.Equal(t, time.Second, conf.PollInterval)
	require.Equal(t, crsf.DefaultAddresses, conf.Addresses)
	require.NotSame(t, Default(), conf)
}

func TestConfigParse(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Parse([]byte(`
ids:
  tx_device: 0xEE
  handset: 0x42
addresses:
  destination: 0x00
tx_interval: 5ms
poll_interval: 2s
`)))
	require.Equal(t, crsf.DeviceIDs{TxDevice: 0xEE, Handset: 0x42}, conf.IDs)
	require.Equal(t, crsf.Addresses{Destination: 0x00, Origin: crsf.AddressTransmitter}, conf.Addresses)
	require.Equal(t, 5*time.Millisecond, conf.TxInterval)
	require.Equal(t, 2*time.Second, conf.PollInterval)
	require.Equal(t, defaultConfig.WriteTimeout, conf.WriteTimeout)

	require.Error(t, conf.Parse([]byte("unknown_key: 1\n")))
}

func TestLoadFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "crsflink.yaml")
	require.NoError(t, ioutil.WriteFile(fn, []byte("read_timeout: 3ms\n"), 0644))
	conf, err := LoadFile(fn)
	require.NoError(t, err)
	require.Equal(t, 3*time.Millisecond, conf.ReadTimeout)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestByteValue(t *testing.T) {
	var b byte
	v := &byteValue{p: &b}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(v, "id", "")
	require.NoError(t, fs.Parse([]string{"-id", "0xC8"}))
	require.Equal(t, byte(0xC8), b)
	require.Equal(t, "0xC8", v.String())
	require.NoError(t, v.Set("17"))
	require.Equal(t, byte(17), b)
	require.NoError(t, v.Set("auto"))
	require.NotZero(t, b)
	require.Error(t, v.Set("0x100"))
}

func TestConfigNewEngine(t *testing.T) {
	conf := NewConfig()
	conf.IDs.Handset = 0x42
	conf.WriteTimeout = 7 * time.Millisecond
	conf.PollInterval = 0
	e := conf.NewEngine(&fakeTransport{}, nil)
	require.Equal(t, byte(0x42), e.IDs.Handset)
	require.Equal(t, 7*time.Millisecond, e.Port.WriteTimeout)
	require.Zero(t, e.Receiver.PollInterval)
	require.Equal(t, byte(0x42), e.Receiver.PollFrame[8])
}
