package main

import (
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	fx "github.com/robotalks/crsflink/pkg/framework"
	"github.com/robotalks/crsflink/pkg/telemetry/mqtt"
)

// Topics the bridge accepts commands on.
const (
	commandTopic = "command"
	estopTopic   = "estop"
)

var statusInterval = time.Second

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Publish telemetry and status to MQTT and accept commands",
	Long: `bridge keeps the link disarmed and streaming neutral channels, publishes
telemetry under telemetry/KIND and status every interval, and sends the
command named by each message on the command topic. Any message on the
estop topic triggers an emergency stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mqttURL == "" {
			return errMQTTRequired
		}
		s, err := openSession(true)
		if err != nil {
			return err
		}
		defer s.Close()

		e := s.Engine
		defer s.MQTT.Subscribe(commandTopic, func(topic string, payload []byte) {
			name := strings.TrimSpace(string(payload))
			if err := e.Do(name); err != nil {
				glog.Errorf("command %q: %v", name, err)
				return
			}
			glog.Infof("command %q sent", name)
		}).Close()
		defer s.MQTT.Subscribe(estopTopic, func(string, []byte) {
			e.EmergencyStop()
		}).Close()

		if err := e.Start(); err != nil {
			return err
		}
		reporter := fx.NewLoop("status", statusInterval, &mqtt.StatusReporter{Engine: e, Publisher: s.MQTT})
		return fx.NewRunner().HandleSignals().Go(reporter).Wait()
	},
}

func init() {
	bridgeCmd.Flags().DurationVar(&statusInterval, "status-interval", statusInterval, "Interval of status messages.")
}
