package main

import (
	"github.com/spf13/cobra"

	"github.com/robotalks/crsflink/pkg/cli/sh"

	_ "github.com/robotalks/crsflink/pkg/cli/cmds/radio"
)

var (
	shellJSON   bool
	shellNoTx   bool
	shellNoRx   bool
	shellNoMQTT bool
)

var shellCmd = &cobra.Command{
	Use:   "shell [COMMAND ARGS...]",
	Short: "Interactive shell, or run a single shell command",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(!shellNoMQTT)
		if err != nil {
			return err
		}
		defer s.Close()
		if !shellNoTx {
			if err := s.Engine.StartTransmit(); err != nil {
				return err
			}
		}
		if !shellNoRx {
			if err := s.Engine.StartReceive(); err != nil {
				return err
			}
		}
		shell := sh.New(s.Engine)
		shell.OutputJSON = shellJSON
		return shell.Run(args...)
	},
}

func init() {
	fs := shellCmd.Flags()
	fs.BoolVar(&shellJSON, "json", shellJSON, "Print output in JSON.")
	fs.BoolVar(&shellNoTx, "no-tx", shellNoTx, "Don't start the RC channel stream.")
	fs.BoolVar(&shellNoRx, "no-rx", shellNoRx, "Don't start telemetry reception.")
	fs.BoolVar(&shellNoMQTT, "no-mqtt", shellNoMQTT, "Don't publish telemetry to MQTT.")
}
