package sh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/crsflink/pkg/link"
)

// ParseAxes parses ROLL PITCH YAW THROTTLE.
func ParseAxes(args []string) (link.Axes, error) {
	if len(args) != 4 {
		return link.Axes{}, fmt.Errorf("expect ROLL PITCH YAW THROTTLE")
	}
	var v [4]float64
	for n, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return link.Axes{}, fmt.Errorf("axis %d: %w", n, err)
		}
		v[n] = f
	}
	return link.Axes{Roll: v[0], Pitch: v[1], Yaw: v[2], Throttle: v[3]}, nil
}

// ParseSwitch parses on/off style arguments.
func ParseSwitch(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "1", "true", "yes", "start":
		return true, nil
	case "off", "0", "false", "no", "stop":
		return false, nil
	}
	return false, fmt.Errorf("expect on or off, got %q", arg)
}

func taskCmd(name, help string, start func(*link.Engine) error, stop func(*link.Engine)) ishell.Cmd {
	return ishell.Cmd{
		Name: name,
		Help: help,
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("expect start or stop"))
				return
			}
			on, err := ParseSwitch(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			e := ShellFrom(c).Engine
			if on {
				Result(c, start(e))
				return
			}
			stop(e)
			Result(c, nil)
		},
	}
}

var (
	// StatusCmd prints engine status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "show link status",
		Func: func(c *ishell.Context) {
			st := StatusOf(ShellFrom(c).Engine)
			Reply(c, st, FormatStatus(st))
		},
	}

	// ArmCmd arms.
	ArmCmd = ishell.Cmd{
		Name: "arm",
		Help: "arm, throttle is sent only while the link is ok or overridden",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Engine.SetArmed(true)
			Result(c, nil)
		},
	}

	// DisarmCmd disarms.
	DisarmCmd = ishell.Cmd{
		Name: "disarm",
		Help: "disarm",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Engine.SetArmed(false)
			Result(c, nil)
		},
	}

	// AxesCmd sets the axes.
	AxesCmd = ishell.Cmd{
		Name:    "axes",
		Aliases: []string{"a"},
		Help:    "ROLL PITCH YAW THROTTLE",
		Func: func(c *ishell.Context) {
			axes, err := ParseAxes(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Engine.State.SetAxes(axes)
			Result(c, nil)
		},
	}

	// EmergencyStopCmd disarms and zeroes axes.
	EmergencyStopCmd = ishell.Cmd{
		Name:    "estop",
		Aliases: []string{"x"},
		Help:    "emergency stop",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Engine.EmergencyStop()
			Result(c, nil)
		},
	}

	// OverrideCmd toggles the safety override.
	OverrideCmd = ishell.Cmd{
		Name: "override",
		Help: "on|off, allow throttle while the link is down",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("expect on or off"))
				return
			}
			on, err := ParseSwitch(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Engine.SetSafetyOverride(on)
			Result(c, nil)
		},
	}

	// TxCmd starts or stops the transmit task.
	TxCmd = taskCmd("tx", "start|stop the RC channel stream",
		(*link.Engine).StartTransmit, (*link.Engine).StopTransmit)

	// RxCmd starts or stops the receive task.
	RxCmd = taskCmd("rx", "start|stop telemetry reception",
		(*link.Engine).StartReceive, (*link.Engine).StopReceive)
)
