package link

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/robotalks/crsflink/pkg/crsf"
	"github.com/robotalks/crsflink/pkg/env"
)

// Config defines the configurations for the engine.
type Config struct {
	IDs          crsf.DeviceIDs `yaml:"ids"`
	Addresses    crsf.Addresses `yaml:"addresses"`
	TxInterval   time.Duration  `yaml:"tx_interval"`
	RxInterval   time.Duration  `yaml:"rx_interval"`
	WriteTimeout time.Duration  `yaml:"write_timeout"`
	ReadTimeout  time.Duration  `yaml:"read_timeout"`
	PollInterval time.Duration  `yaml:"poll_interval"`
}

var defaultConfig = Config{
	IDs:          crsf.DefaultDeviceIDs,
	Addresses:    crsf.DefaultAddresses,
	TxInterval:   4 * time.Millisecond,
	RxInterval:   2 * time.Millisecond,
	WriteTimeout: 20 * time.Millisecond,
	ReadTimeout:  10 * time.Millisecond,
	PollInterval: time.Second,
}

// AutoHandsetID selects the handset ID derived from the machine.
const AutoHandsetID = "auto"

func init() {
	envByte("CRSF_TX_DEVICE", &defaultConfig.IDs.TxDevice)
	envByte("CRSF_HANDSET", &defaultConfig.IDs.Handset)
	envByte("CRSF_DESTINATION", &defaultConfig.Addresses.Destination)
	envByte("CRSF_ORIGIN", &defaultConfig.Addresses.Origin)
	envDuration("CRSF_TX_INTERVAL", &defaultConfig.TxInterval)
	envDuration("CRSF_RX_INTERVAL", &defaultConfig.RxInterval)
	envDuration("CRSF_POLL_INTERVAL", &defaultConfig.PollInterval)
}

func envByte(name string, p *byte) {
	if s := os.Getenv(name); s != "" {
		if err := (&byteValue{p: p}).Set(s); err != nil {
			fmt.Fprintf(os.Stderr, "ignore %s: %v\n", name, err)
		}
	}
}

func envDuration(name string, p *time.Duration) {
	if s := os.Getenv(name); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ignore %s: %v\n", name, err)
			return
		}
		*p = d
	}
}

// byteValue is a flag.Value of a single byte, accepting 0x prefixes.
// "auto" is resolved via env.HandsetID.
type byteValue struct {
	p *byte
}

func (v *byteValue) String() string {
	if v.p == nil {
		return ""
	}
	return fmt.Sprintf("0x%02X", *v.p)
}

func (v *byteValue) Set(s string) error {
	if strings.EqualFold(s, AutoHandsetID) {
		*v.p = env.HandsetID()
		return nil
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return err
	}
	*v.p = byte(n)
	return nil
}

// SetupFlags sets command line flags.
func SetupFlags(fs *flag.FlagSet) {
	fs.Var(&byteValue{p: &defaultConfig.IDs.TxDevice}, "tx-device", "Transmitter device ID used in bind and poll commands.")
	fs.Var(&byteValue{p: &defaultConfig.IDs.Handset}, "handset", "Handset ID used in bind and poll commands, auto to derive from machine.")
	fs.Var(&byteValue{p: &defaultConfig.Addresses.Destination}, "destination", "Destination address of command frames.")
	fs.Var(&byteValue{p: &defaultConfig.Addresses.Origin}, "origin", "Origin address of command frames.")
	fs.DurationVar(&defaultConfig.TxInterval, "tx-interval", defaultConfig.TxInterval, "Interval of RC channel frames.")
	fs.DurationVar(&defaultConfig.RxInterval, "rx-interval", defaultConfig.RxInterval, "Interval of telemetry reads.")
	fs.DurationVar(&defaultConfig.WriteTimeout, "write-timeout", defaultConfig.WriteTimeout, "Transport write timeout.")
	fs.DurationVar(&defaultConfig.ReadTimeout, "read-timeout", defaultConfig.ReadTimeout, "Transport read timeout.")
	fs.DurationVar(&defaultConfig.PollInterval, "poll-interval", defaultConfig.PollInterval, "Interval of link statistics polls, 0 disables.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadFile creates a config with defaults overlaid by a YAML file.
func LoadFile(fn string) (*Config, error) {
	conf := NewConfig()
	if err := conf.LoadFile(fn); err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadFile overlays the YAML file on the config.
func (c *Config) LoadFile(fn string) error {
	content, err := ioutil.ReadFile(fn)
	if err != nil {
		return err
	}
	return c.Parse(content)
}

// Parse overlays YAML content on the config.
func (c *Config) Parse(content []byte) error {
	if err := yaml.UnmarshalStrict(content, c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// NewEngine creates an engine using the config.
func (c *Config) NewEngine(t Transport, sink Sink) *Engine {
	e := newEngine(t, sink, c.TxInterval, c.RxInterval)
	e.IDs, e.Addresses = c.IDs, c.Addresses
	e.Port.WriteTimeout, e.Port.ReadTimeout = c.WriteTimeout, c.ReadTimeout
	e.Receiver.PollInterval = c.PollInterval
	e.Receiver.PollFrame = e.pollFrame()
	return e
}
