package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/robotalks/crsflink/pkg/link"
	"github.com/robotalks/crsflink/pkg/sim"
	"github.com/robotalks/crsflink/pkg/telemetry/mqtt"
	"github.com/robotalks/crsflink/pkg/transport/serial"
	"github.com/robotalks/crsflink/pkg/transport/stream"
	"github.com/robotalks/crsflink/pkg/transport/websocket"
)

var (
	configFile string
	portName   string
	baudRate   = serial.DefaultBaudRate
	tcpAddress string
	wsURL      string
	mqttURL    = "mqtt://localhost:1883/crsf/"
	simulate   bool
)

var rootCmd = &cobra.Command{
	Use:   "crsflink",
	Short: "Drive a CRSF transmitter module and read its telemetry",
	Long: `crsflink streams RC channels to a CRSF transmitter module over serial,
TCP or websocket, decodes the telemetry it returns and sends bind, power,
model and reboot commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads flag.CommandLine, cobra already parsed into it.
		return flag.CommandLine.Parse(nil)
	},
}

func init() {
	if val := os.Getenv("CRSF_MQTT_URL"); val != "" {
		mqttURL = val
	}
	if val := os.Getenv("CRSF_PORT"); val != "" {
		portName = val
	}
	flag.Set("logtostderr", "true")
	link.SetupFlags(flag.CommandLine)

	fs := rootCmd.PersistentFlags()
	fs.StringVarP(&configFile, "config", "c", configFile, "YAML config file, overrides link flags.")
	fs.StringVarP(&portName, "port", "p", portName, "Serial port of the transmitter module.")
	fs.IntVarP(&baudRate, "baud", "b", baudRate, "Serial baud rate.")
	fs.StringVar(&tcpAddress, "tcp", tcpAddress, "HOST:PORT of a TCP serial bridge instead of a serial port.")
	fs.StringVar(&wsURL, "ws", wsURL, "URL of a websocket bridge instead of a serial port.")
	fs.BoolVar(&simulate, "sim", simulate, "Use a simulated receiver instead of hardware.")
	fs.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, empty disables publishing.")
	fs.AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(shellCmd, bridgeCmd, monitorCmd, portsCmd)
}

func loadConfig() (*link.Config, error) {
	if configFile == "" {
		return link.NewConfig(), nil
	}
	return link.LoadFile(configFile)
}

type transportCloser interface {
	link.Transport
	io.Closer
}

func openTransport() (transportCloser, error) {
	switch {
	case simulate:
		glog.Info("using simulated receiver")
		return sim.NewReceiver(), nil
	case wsURL != "":
		glog.Infof("connecting websocket %s", wsURL)
		return websocket.Dial(wsURL, "")
	case tcpAddress != "":
		glog.Infof("connecting %s", tcpAddress)
		return stream.Dial(tcpAddress, 3*time.Second)
	case portName != "":
		glog.Infof("opening %s at %d", portName, baudRate)
		return serial.Open(portName, baudRate)
	}
	return nil, fmt.Errorf("one of --port, --tcp, --ws or --sim is required")
}

// session is an open transport with an engine and optional MQTT client.
type session struct {
	Transport transportCloser
	Engine    *link.Engine
	MQTT      *mqtt.Client
}

func openSession(publish bool) (*session, error) {
	conf, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s := &session{}
	if s.Transport, err = openTransport(); err != nil {
		return nil, err
	}
	sinks := link.MultiSink{link.LogSink{Level: 2}}
	if publish && mqttURL != "" {
		if s.MQTT, err = mqtt.Dial(mqttURL); err != nil {
			s.Transport.Close()
			return nil, err
		}
		sinks = append(sinks, mqtt.NewSink(s.MQTT))
	}
	s.Engine = conf.NewEngine(s.Transport, sinks)
	return s, nil
}

func (s *session) Close() error {
	s.Engine.EmergencyStop()
	s.Engine.Close()
	if s.MQTT != nil {
		s.MQTT.Close()
	}
	return s.Transport.Close()
}
