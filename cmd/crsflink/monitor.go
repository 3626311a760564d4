package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robotalks/crsflink/pkg/crsf"
	fx "github.com/robotalks/crsflink/pkg/framework"
	"github.com/robotalks/crsflink/pkg/telemetry/mqtt"
)

var errMQTTRequired = errors.New("--mqtt is required")

var kindColors = map[string]*color.Color{
	crsf.SampleLinkStats.String():  color.New(color.FgCyan),
	crsf.SampleBattery.String():    color.New(color.FgYellow),
	crsf.SampleAttitude.String():   color.New(color.FgBlue),
	crsf.SampleFlightMode.String(): color.New(color.FgMagenta),
	crsf.SampleUnknown.String():    color.New(color.FgHiBlack),
}

var statusColor = color.New(color.FgGreen)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print telemetry published by a bridge",
	RunE: func(cmd *cobra.Command, args []string) error {
		if mqttURL == "" {
			return errMQTTRequired
		}
		client, err := mqtt.Dial(mqttURL)
		if err != nil {
			return err
		}
		defer client.Close()

		out := cmd.OutOrStdout()
		defer client.Subscribe(mqtt.TelemetryTopic+"#", func(topic string, payload []byte) {
			fmt.Fprintln(out, formatRecord(topic, payload))
		}).Close()
		defer client.Subscribe(mqtt.StatusTopic, func(topic string, payload []byte) {
			fmt.Fprintln(out, formatStatus(topic, payload))
		}).Close()

		return fx.NewRunner().HandleSignals().Go(fx.RunnableFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})).Wait()
	},
}

func formatRecord(topic string, payload []byte) string {
	rec, err := mqtt.DecodeRecord(payload)
	if err != nil {
		return fmt.Sprintf("%s: bad record: %v", topic, err)
	}
	sample, err := rec.Sample()
	if err != nil {
		return fmt.Sprintf("%s: %v", topic, err)
	}
	line := fmt.Sprintf("%s %-11s %s", rec.Time().Format("15:04:05.000"), rec.Kind, describe(sample))
	if c := kindColors[rec.Kind]; c != nil {
		return c.Sprint(line)
	}
	return line
}

func formatStatus(topic string, payload []byte) string {
	st, err := mqtt.DecodeStatus(payload)
	if err != nil {
		return fmt.Sprintf("%s: bad status: %v", topic, err)
	}
	return statusColor.Sprintf("%s %-11s armed=%v link=%v override=%v tx=%v/%d/%d rx=%v/%d/%d",
		st.Time().Format("15:04:05.000"), topic, st.Armed, st.LinkOk, st.Override,
		st.Transmitting, st.TxFrames, st.TxFailed, st.Receiving, st.RxFrames, st.RxDropped)
}

func describe(s crsf.Sample) string {
	switch v := s.(type) {
	case crsf.LinkStats:
		return fmt.Sprintf("rssi=%d/%d dBm lq=%d%% snr=%d dB power=%d mW ok=%v",
			v.RSSI1, v.RSSI2, v.LQ, v.SNR, v.TxPower, v.LinkOK())
	case crsf.Battery:
		return fmt.Sprintf("%.2f V %.2f A %d mAh %d%%",
			float64(v.VoltageMv)/1000, float64(v.CurrentMa)/1000, v.CapacityMah, v.Remaining)
	case crsf.Attitude:
		return fmt.Sprintf("pitch=%.3f roll=%.3f yaw=%.3f rad", v.Pitch, v.Roll, v.Yaw)
	case crsf.FlightMode:
		return v.Mode
	case crsf.UnknownFrame:
		return fmt.Sprintf("%s % X", v.Type, v.Payload)
	}
	return strings.TrimSpace(fmt.Sprint(s.Values()))
}
